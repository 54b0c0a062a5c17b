package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sohhamm/personal-finance-app/docs"
	"github.com/sohhamm/personal-finance-app/internal/api/handler"
	"github.com/sohhamm/personal-finance-app/internal/api/middleware"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

// RouterDeps holds everything NewRouter wires into the Echo instance.
type RouterDeps struct {
	AuthService        ports.AuthService
	TransactionService ports.TransactionService
	OverviewService    ports.OverviewService
	Gate               *middleware.Gate
	Checks             []handler.DependencyCheck
	AllowedOrigins     []string
	Logger             zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"Idempotency-Key",
		},
		ExposeHeaders: []string{"Idempotent-Replayed"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "finance",
		Registerer: deps.Registerer,
	}))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/reset-password-request", authHandler.RequestPasswordReset)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// --- Transaction routes ---
	txHandler := handler.NewTransactionHandler(deps.TransactionService)
	e.GET("/transactions/categories", txHandler.Categories)

	tx := e.Group("/transactions", deps.Gate.Auth())
	tx.GET("", txHandler.List)
	tx.POST("", txHandler.Create)
	tx.GET("/:id", txHandler.Get)
	tx.PUT("/:id", txHandler.Update)
	tx.DELETE("/:id", txHandler.Delete)

	// --- Overview routes ---
	overviewHandler := handler.NewOverviewHandler(deps.OverviewService)
	overview := e.Group("/overview", deps.Gate.Auth())
	overview.GET("", overviewHandler.Overview)
	overview.GET("/trends", overviewHandler.Trends)

	// --- Health checks (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Logger, deps.Checks...).Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
