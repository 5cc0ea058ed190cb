package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasktracker/internal/domain"
	"tasktracker/internal/service"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	tasksPath    = "/tasks"
)

type Config struct {
	Users    service.UserService
	Sessions service.SessionService
	Tasks    service.TaskService
	Logger   *logrus.Logger

	CookieName   string
	SecureCookie bool
	// Development exposes error details on the error page.
	Development bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	sessions service.SessionService
	tasks    service.TaskService
	logger   *logrus.Logger

	cookieName   string
	secureCookie bool
	development  bool
}

func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "tasktracker_session"
	}
	return &Handler{
		users:        cfg.Users,
		sessions:     cfg.Sessions,
		tasks:        cfg.Tasks,
		logger:       cfg.Logger,
		cookieName:   cfg.CookieName,
		secureCookie: cfg.SecureCookie,
		development:  cfg.Development,
	}
}

// RegisterRoutes installs middleware, templates and routes on router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(newTemplates())

	router.Use(h.requestLogger())
	router.Use(gin.CustomRecovery(h.recover))
	router.Use(h.errorPage())
	router.Use(h.identify())

	router.GET("/", h.home)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	auth := router.Group("/auth")
	{
		auth.GET("/register", h.showRegister)
		auth.POST("/register", h.register)
		auth.GET("/login", h.showLogin)
		auth.POST("/login", h.login)
		auth.GET("/logout", h.logout)
		auth.POST("/logout", h.logout)
	}

	tasks := router.Group(tasksPath, h.requireIdentity())
	{
		tasks.GET("", h.listTasks)
		tasks.POST("", h.createTask)
		tasks.POST("/:id/complete", h.completeTask)
		tasks.POST("/:id/delete", h.deleteTask)
	}
}

func (h *Handler) home(c *gin.Context) {
	if _, ok := identityFrom(c); ok {
		c.Redirect(http.StatusFound, tasksPath)
		return
	}
	c.Redirect(http.StatusFound, loginPath)
}

// render adds the signed-in user, if any, to data before executing the view.
func (h *Handler) render(c *gin.Context, status int, view string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = viewTitles[view]
	}
	if identity, ok := identityFrom(c); ok {
		data["User"] = identity
	}
	c.HTML(status, view, data)
}

func identityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	if !ok || !identity.Authenticated() {
		return domain.Identity{}, false
	}
	return identity, true
}
