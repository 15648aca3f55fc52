package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/caportal/portal/internal/api/docs"
	"github.com/caportal/portal/internal/api/handler"
	"github.com/caportal/portal/internal/api/middleware"
	"github.com/caportal/portal/internal/core/access"
	"github.com/caportal/portal/internal/core/state"
)

// Deps is what the router needs from main.
type Deps struct {
	Registry *state.Registry
	Cookie   middleware.CookieConfig
	// Checks are pinged by /health/ready, keyed by name.
	Checks map[string]handler.Pinger
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Log)
	dashboardHandler := handler.NewDashboardHandler()
	clientHandler := handler.NewClientHandler()
	taskHandler := handler.NewTaskHandler()
	documentHandler := handler.NewDocumentHandler()

	session := middleware.Session(d.Registry, d.Cookie)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, access.LoginPath)
	})

	// --- Public routes ---
	e.GET("/login", authHandler.LoginPage, session)
	e.POST("/login", authHandler.Login, session)
	e.GET("/register", authHandler.RegisterPage, session)
	e.POST("/register", authHandler.Register, session)
	e.GET("/forgot-password", authHandler.ForgotPasswordPage, session)
	e.POST("/forgot-password", authHandler.ForgotPassword, session)
	e.POST("/logout", authHandler.Logout, session)
	e.GET("/state", authHandler.State, session, middleware.Guard("authenticated", access.Authenticated))

	// --- Admin shell ---
	admin := e.Group("/admin", session, middleware.Guard("admin_only", access.AdminOnly))
	admin.GET("", dashboardHandler.Admin)
	admin.GET("/clients", clientHandler.List)
	admin.GET("/clients/:id", clientHandler.Detail)
	admin.POST("/clients/:id", clientHandler.Save)
	admin.DELETE("/clients/:id", clientHandler.Delete)
	admin.GET("/tasks", taskHandler.AdminList)
	admin.POST("/tasks", taskHandler.Create)
	admin.POST("/tasks/:id", taskHandler.Update)
	admin.DELETE("/tasks/:id", taskHandler.Delete)
	admin.GET("/documents", documentHandler.AdminList)
	admin.POST("/documents", documentHandler.Upload)
	admin.GET("/documents/:id/download", documentHandler.Download)
	admin.DELETE("/documents/:id", documentHandler.Delete)

	// --- Client shell ---
	client := e.Group("/client", session, middleware.Guard("authenticated", access.Authenticated))
	client.GET("", dashboardHandler.Client)
	client.GET("/tasks", taskHandler.ClientList)
	client.POST("/tasks/:id/status", taskHandler.UpdateStatus)
	client.GET("/documents", documentHandler.ClientList)
	client.GET("/documents/:id/download", documentHandler.Download)

	// --- Health checks, metrics and docs (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
