package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/domain"
)

const (
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid username or password"
	msgInvalidUsername    = "Username must be between 3 and 30 characters"
	msgInvalidPassword    = "Password must be at least 6 characters"
)

type credentialsForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (h *Handler) showRegister(c *gin.Context) {
	h.render(c, http.StatusOK, "register.tmpl", gin.H{"Error": "", "Username": ""})
}

func (h *Handler) showLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "login.tmpl", gin.H{"Error": "", "Username": ""})
}

func (h *Handler) register(c *gin.Context) {
	var form credentialsForm
	_ = c.ShouldBind(&form)

	user, err := h.users.Register(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			msg = msgUsernameTaken
		case errors.Is(err, domain.ErrInvalidUsername):
			msg = msgInvalidUsername
		case errors.Is(err, domain.ErrInvalidPassword):
			msg = msgInvalidPassword
		default:
			_ = c.Error(err)
			c.Abort()
			return
		}
		h.render(c, http.StatusOK, "register.tmpl", gin.H{"Error": msg, "Username": form.Username})
		return
	}

	h.logger.WithField("user", user.Username).Info("user registered")
	c.Redirect(http.StatusFound, loginPath)
}

func (h *Handler) login(c *gin.Context) {
	var form credentialsForm
	_ = c.ShouldBind(&form)

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.render(c, http.StatusOK, "login.tmpl", gin.H{"Error": msgInvalidCredentials, "Username": form.Username})
			return
		}
		_ = c.Error(err)
		c.Abort()
		return
	}

	token, expiresAt, err := h.sessions.Login(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	h.setSessionCookie(c, token, expiresAt)

	h.logger.WithField("user", user.Username).Info("user logged in")
	c.Redirect(http.StatusFound, tasksPath)
}

func (h *Handler) logout(c *gin.Context) {
	identity, _ := identityFrom(c)
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
			h.logger.WithError(err).Warn("logout")
		} else if identity.Authenticated() {
			h.logger.WithField("user", identity.Username).Info("user logged out")
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, loginPath)
}
