package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const identityKey = "identity"

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start),
			"client":  c.ClientIP(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// errorPage renders the generic error page for any error a handler attached
// to the context without writing a response itself.
func (h *Handler) errorPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		h.renderError(c, err)
	}
}

func (h *Handler) recover(c *gin.Context, recovered any) {
	err := fmt.Errorf("panic: %v", recovered)
	h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("recovered from panic")
	h.renderError(c, err)
	c.Abort()
}

func (h *Handler) renderError(c *gin.Context, err error) {
	data := gin.H{"Message": "Something went wrong!"}
	if h.development && err != nil {
		data["Detail"] = err.Error()
	}
	h.render(c, http.StatusInternalServerError, "error.tmpl", data)
}

// identify resolves the session cookie, if any, into an identity on the
// context. A cookie that no longer maps to a live session is cleared.
func (h *Handler) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		identity, err := h.sessions.CurrentIdentity(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(fmt.Errorf("resolve session: %w", err))
			c.Abort()
			return
		}
		if identity == nil {
			h.clearSessionCookie(c)
			c.Next()
			return
		}

		c.Set(identityKey, *identity)
		c.Next()
	}
}

// requireIdentity redirects anonymous callers to the login form.
func (h *Handler) requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identityFrom(c); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int(h.sessions.TTL().Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, maxAge, "/", "", h.secureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
}
