package api

import (
	"os"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskbox/todo-api/docs"
	"github.com/taskbox/todo-api/internal/api/handler"
	"github.com/taskbox/todo-api/internal/api/middleware"
	"github.com/taskbox/todo-api/internal/core/ports"
	"github.com/taskbox/todo-api/internal/core/service"
	"github.com/taskbox/todo-api/internal/infrastructure/config"
	"github.com/taskbox/todo-api/internal/infrastructure/db"
	"github.com/taskbox/todo-api/internal/password"
	"github.com/taskbox/todo-api/internal/token"
)

// NewRouter assembles the full HTTP surface: services, handlers, middleware
// and routes. rdb may be nil when the in-process deny-list is in use.
func NewRouter(store *db.Store, rdb *redis.Client, denylist ports.TokenDenylist, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	keyring, err := cfg.Token.Keyring()
	if err != nil {
		return nil, err
	}

	codec := token.NewCodec(keyring, cfg.Token.TTL)
	hasher := password.NewHasher(cfg.BcryptCost, cfg.HashWorkers)

	users := db.NewUserRepository(store.DB)
	todos := db.NewTodoRepository(store.DB)

	authSvc := service.NewAuthService(users, hasher, codec, denylist)
	todoSvc := service.NewTodoService(todos)

	authHandler := handler.NewAuthHandler(authSvc)
	todoHandler := handler.NewTodoHandler(todoSvc)
	healthHandler := handler.NewHealthHandler()
	readyHandler := handler.NewReadinessHandler(store.DB, rdb)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddleware("todoapi"))

	requireAuth := middleware.Auth(authSvc)

	e.POST("/users", authHandler.Register)
	e.POST("/users/login", authHandler.Login)
	e.DELETE("/users/login", authHandler.Logout, requireAuth)
	e.GET("/me", authHandler.Me, requireAuth)

	t := e.Group("/todos", requireAuth)
	t.GET("", todoHandler.List)
	t.POST("", todoHandler.Create)
	t.GET("/:id", todoHandler.Get)
	t.PUT("/:id", todoHandler.Update)
	t.DELETE("/:id", todoHandler.Delete)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readyHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	if info, err := os.Stat(cfg.PublicDir); err == nil && info.IsDir() {
		e.Static("/", cfg.PublicDir)
	}

	return e, nil
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
