package server

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/secangkircinta/scug/docs"
	httpHandlers "github.com/secangkircinta/scug/internal/adapters/http"
	"github.com/secangkircinta/scug/internal/infrastructure/config"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

// maxFilesPerRequest bounds the request body of multi-file uploads
const maxFilesPerRequest = 20

// ReadinessCheck reports whether a dependency can serve requests
type ReadinessCheck func(ctx context.Context) error

// Dependencies are the services and infrastructure the routes are bound to
type Dependencies struct {
	Projects ports.ProjectService
	Tasks    ports.TaskService
	Members  ports.MemberService
	Rosters  ports.ProjectMemberService
	Media    ports.MediaService
	Covers   ports.CoverService
	Reports  ports.ReportService
	Auth     ports.AuthService

	// Files serves stored objects under /files
	Files   http.Handler
	Metrics *metrics.Metrics
	Checks  map[string]ReadinessCheck

	// DatabaseStats reports connection pool statistics on /ready
	DatabaseStats func() map[string]interface{}
}

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	deps   Dependencies
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies, appLogger *logger.Logger) *Server {
	e := echo.New()

	e.Validator = httpHandlers.NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpHandlers.ErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger.WithComponent("http"),
		deps:   deps,
	}

	server.setupMiddleware()

	if cfg.Metrics.Enabled && deps.Metrics != nil {
		server.setupMetrics()
	}

	server.setupRoutes()

	return server
}

// Echo exposes the router, mainly for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			reqLogger := s.logger.WithRequestID(values.RequestID)
			if adminID, ok := c.Get(httpHandlers.AdminIDKey).(string); ok {
				reqLogger = reqLogger.WithAdminID(adminID)
			}

			latency := float64(values.Latency.Nanoseconds()) / 1000000
			if values.Error != nil {
				reqLogger.WithError(values.Error).Errorw("HTTP request failed",
					"method", values.Method,
					"path", values.URI,
					"status_code", values.Status,
					"duration_ms", latency,
					"ip", values.RemoteIP,
				)
				return nil
			}

			reqLogger.LogHTTPRequest(values.Method, values.URI, values.UserAgent, values.RemoteIP, values.Status, latency)
			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))

	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(s.config.Security.RateLimitRequests),
					Burst:     s.config.Security.RateLimitRequests,
					ExpiresIn: s.config.Security.RateLimitWindow,
				},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, ports.ErrorResponse{Message: "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, ports.ErrorResponse{Message: "rate limit exceeded"})
			},
		}))
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.RequestID())

	if maxBytes := s.config.Storage.MaxUploadBytes; maxBytes > 0 {
		// room for the multipart envelope on top of the files themselves
		limit := maxBytes*maxFilesPerRequest + 1<<20
		s.echo.Use(middleware.BodyLimit(strconv.FormatInt(limit, 10)))
	}

	timeout := s.config.Server.WriteTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: timeout,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	authHandler := httpHandlers.NewAuthHandler(s.deps.Auth, s.logger)
	projectHandler := httpHandlers.NewProjectHandler(s.deps.Projects, s.logger)
	taskHandler := httpHandlers.NewTaskHandler(s.deps.Tasks, s.logger)
	memberHandler := httpHandlers.NewMemberHandler(s.deps.Members, s.logger)
	rosterHandler := httpHandlers.NewProjectMemberHandler(s.deps.Rosters, s.logger)
	mediaHandler := httpHandlers.NewMediaHandler(s.deps.Media, s.logger)
	attachmentHandler := httpHandlers.NewAttachmentHandler(s.deps.Covers, s.deps.Reports, s.logger)

	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.deps.Files != nil {
		s.echo.GET("/files/*", echo.WrapHandler(http.StripPrefix("/files", s.deps.Files)))
	}

	v1 := s.echo.Group("/api/v1")

	v1.POST("/auth/login", authHandler.Login)

	// Public volunteer routes
	v1.GET("/projects", projectHandler.ListPublicProjects)
	v1.GET("/projects/:id", projectHandler.GetPublicProject)
	v1.GET("/projects/:id/tasks/open", taskHandler.GetOpenTaskBoard)
	v1.GET("/projects/:id/tasks/:taskId", taskHandler.GetTask)
	v1.POST("/projects/:id/tasks/:taskId/claim", taskHandler.ClaimTask)

	admin := v1.Group("/admin", s.authMiddleware(s.deps.Auth))

	admin.GET("/stats", projectHandler.GetStats)
	admin.GET("/projects", projectHandler.ListProjects)
	admin.POST("/projects", projectHandler.CreateProject)
	admin.GET("/projects/:id", projectHandler.GetProject)
	admin.PUT("/projects/:id", projectHandler.UpdateProject)
	admin.DELETE("/projects/:id", projectHandler.DeleteProject)

	admin.GET("/projects/:id/tasks", taskHandler.ListProjectTasks)
	admin.POST("/projects/:id/tasks", taskHandler.CreateTask)
	admin.PUT("/tasks/:id", taskHandler.UpdateTask)
	admin.DELETE("/tasks/:id", taskHandler.DeleteTask)

	admin.GET("/members", memberHandler.ListMembers)
	admin.POST("/members", memberHandler.CreateMember)
	admin.PUT("/members/:id", memberHandler.UpdateMember)
	admin.DELETE("/members/:id", memberHandler.DeleteMember)

	admin.GET("/projects/:id/members", rosterHandler.ListProjectMembers)
	admin.POST("/projects/:id/members", rosterHandler.AddProjectMember)
	admin.DELETE("/projects/:id/members/:memberId", rosterHandler.RemoveProjectMember)

	admin.GET("/projects/:id/cover", attachmentHandler.GetCover)
	admin.PUT("/projects/:id/cover", attachmentHandler.SetCover)
	admin.DELETE("/projects/:id/cover", attachmentHandler.RemoveCover)

	admin.GET("/projects/:id/media/:type", mediaHandler.ListMedia)
	admin.POST("/projects/:id/media/:type", mediaHandler.UploadMedia)
	admin.POST("/projects/:id/media/:type/reorder", mediaHandler.ReorderMedia)
	admin.PUT("/media/:id/caption", mediaHandler.SetCaption)
	admin.DELETE("/media/:id", mediaHandler.RemoveMedia)

	admin.GET("/projects/:id/reports", attachmentHandler.ListReports)
	admin.POST("/projects/:id/reports", attachmentHandler.UploadReport)
	admin.DELETE("/reports/:id", attachmentHandler.RemoveReport)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.echo.Use(s.deps.Metrics.Middleware())
	s.echo.GET("/metrics", echo.WrapHandler(s.deps.Metrics.Handler()))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	names := make([]string, 0, len(s.deps.Checks))
	for name := range s.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ready := true
	checks := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		err := s.deps.Checks[name](ctx)
		cancel()

		if err != nil {
			ready = false
			checks[name] = "error"
			s.logger.WithError(err).Warnw("Readiness check failed", "check", name)
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"checks": checks,
		})
	}

	body := map[string]interface{}{
		"status": "ready",
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if s.deps.DatabaseStats != nil {
		body["database"] = s.deps.DatabaseStats()
	}

	return c.JSON(http.StatusOK, body)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)

	srv := &http.Server{
		Addr:         address,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	return s.echo.StartServer(srv)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}
