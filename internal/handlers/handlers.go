package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/middleware"
	"jhs/backend/internal/models"
	"jhs/backend/internal/repository"
	"jhs/backend/internal/service"
)

// HealthCheck pings one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Dependencies struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Resets    *service.PasswordResetService
	Inquiries *service.InquiryService
	Content   *service.ContentService
	Dashboard *service.DashboardService
	Uploads   *service.UploadService
	Limiter   middleware.WindowCounter
	Checks    []HealthCheck
}

type HandlerSet struct {
	log  zerolog.Logger
	cfg  *config.AppConfig
	deps Dependencies
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	return HandlerSet{log: log, cfg: cfg, deps: deps}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/", h.Status)
	router.GET("/uploads/:filename", h.ServeUpload)

	requireAuth := middleware.Auth(h.cfg, h.deps.Auth, h.log)
	staff := middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleEditor)

	api := router.Group("/api")
	{
		api.GET("/healthz", h.Health)
		api.GET("/services", h.ListServices)
		api.GET("/projects", h.ListProjects)
		api.GET("/config", h.GetSiteConfig)

		contactLimit := middleware.RateLimit(
			h.deps.Limiter,
			h.cfg.RateLimit.Prefix+":contact",
			h.cfg.RateLimit.ContactLimit,
			h.cfg.RateLimit.ContactWindow,
			h.log,
		)
		api.POST("/contact", contactLimit, h.SubmitContact)

		upload := append(middleware.Optional(h.cfg.Uploads.RequireAuth, requireAuth, staff), h.UploadImage)
		api.POST("/upload-image", upload...)

		api.POST("/forgot-password", h.ForgotPassword)
		api.POST("/reset-password", h.ResetPassword)
	}

	admin := router.Group("/admin/api")
	{
		auth := admin.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", requireAuth, h.Logout)
		auth.GET("/me", requireAuth, h.Me)

		protected := admin.Group("")
		protected.Use(requireAuth, staff)

		protected.GET("/dashboard", h.Dashboard)

		protected.GET("/services", h.AdminListServices)
		protected.POST("/services", h.AdminCreateService)
		protected.GET("/services/:id", h.AdminGetService)
		protected.PUT("/services/:id", h.AdminUpdateService)
		protected.DELETE("/services/:id", h.AdminDeleteService)

		protected.GET("/projects", h.AdminListProjects)
		protected.POST("/projects", h.AdminCreateProject)
		protected.GET("/projects/:id", h.AdminGetProject)
		protected.PUT("/projects/:id", h.AdminUpdateProject)
		protected.DELETE("/projects/:id", h.AdminDeleteProject)

		protected.GET("/inquiries", h.AdminListInquiries)
		protected.GET("/inquiries/:id", h.AdminGetInquiry)
		protected.DELETE("/inquiries/:id", h.AdminDeleteInquiry)

		protected.GET("/config", h.AdminGetSiteConfig)
		protected.PUT("/config", h.AdminUpdateSiteConfig)

		users := protected.Group("/users")
		users.Use(middleware.RequireRoles(models.UserRoleAdmin))
		users.GET("", h.AdminListUsers)
		users.POST("", h.AdminCreateUser)
		users.GET("/:id", h.AdminGetUser)
		users.PUT("/:id", h.AdminUpdateUser)
		users.DELETE("/:id", h.AdminDeleteUser)
	}
}

func (h HandlerSet) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "Backend is running",
		"frontend": h.cfg.HTTP.FrontendURL,
	})
}

// serverError logs err with the request id and answers with a generic body.
func (h HandlerSet) serverError(c *gin.Context, err error, msg string) {
	middleware.Log(c, h.log).Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

var notFoundErrors = []error{
	repository.ErrUserNotFound,
	repository.ErrServiceNotFound,
	repository.ErrProjectNotFound,
	repository.ErrInquiryNotFound,
	repository.ErrSiteConfigNotFound,
}

func isNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeAdminError maps service and repository errors for admin endpoints.
func (h HandlerSet) writeAdminError(c *gin.Context, err error) {
	switch {
	case isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidContent), errors.Is(err, service.ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.serverError(c, err, "Server error")
	}
}
