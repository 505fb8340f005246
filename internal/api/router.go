package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wowlabz/accounts-api/internal/api/handler"
	"github.com/wowlabz/accounts-api/internal/api/middleware"
	"github.com/wowlabz/accounts-api/internal/core/domain"
	"github.com/wowlabz/accounts-api/internal/core/ports"
	"github.com/wowlabz/accounts-api/internal/core/service"
	"github.com/wowlabz/accounts-api/internal/jobs"
	"github.com/wowlabz/accounts-api/internal/pkg/config"
)

// Dependencies carries the constructed collaborators the router wires into
// handlers and middleware. Everything is built once at startup and
// injected; nothing is ambient.
type Dependencies struct {
	DB     *mongo.Database
	Redis  *redis.Client
	Store  ports.DataStore
	Auth   ports.AuthService
	Tokens *service.TokenManager
	Queue  jobs.Queue
	Config *config.Config
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes
// registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))
	e.Use(middleware.Tracker(deps.Store, deps.Tokens, deps.Queue))

	authHandler := handler.NewAuthHandler(deps.Auth)

	// --- Auth routes ---
	e.POST("/users/create", authHandler.CreateUser)
	e.POST("/auth/users/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/users/password/forgot", authHandler.ForgotPassword)
	e.POST("/auth/users/password/send", authHandler.SendDefaultPassword,
		middleware.Auth(deps.Auth, domain.TokenBearer, domain.RoleSuperAdmin))
	e.GET("/auth/users/paginated", authHandler.UsersPaginated,
		middleware.Auth(deps.Auth, domain.TokenBearer, domain.RoleSuperAdmin, domain.RoleClient))

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	docs := e.Group("/docs", middleware.DocsAuth(deps.Config.DocUsername, deps.Config.DocPasswordHash))
	docs.GET("/*", echoswagger.WrapHandler)

	return e
}
