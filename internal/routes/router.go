package routes

import (
	"context"
	"fmt"
	"net/http"
	"people-graphql-api/internal/config"
	"people-graphql-api/internal/delivery/gql"
	"people-graphql-api/internal/logger"
	"people-graphql-api/internal/middleware"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	welcomeMessage = "Welcome to the people GraphQL API. The endpoint is served at /graphql."

	rateLimitSweepInterval = 10 * time.Minute
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// BrokerStatus reports whether the event broker connection is up.
type BrokerStatus interface {
	IsConnected() bool
}

// Services are the dependencies served over HTTP. Broker is nil when account
// events are disabled.
type Services struct {
	Users  gql.UserService
	Health HealthChecker
	Broker BrokerStatus
}

// SetupRoutes builds the router. Background work started here stops when ctx is done.
func SetupRoutes(ctx context.Context, cfg *config.Config, svc Services) (*gin.Engine, error) {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	schema, err := gql.NewSchema(gql.NewResolver(svc.Users))
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	go limiter.Run(ctx, rateLimitSweepInterval)

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, rate limit, identity
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(limiter))
	router.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, welcomeMessage)
	})
	router.GET("/health", healthHandler(svc.Health, svc.Broker))

	gql.NewHandler(&schema, !cfg.Server.IsProduction()).RegisterRoutes(router)

	logger.Info("All routes initialized",
		zap.Bool("playground", !cfg.Server.IsProduction()),
	)
	return router, nil
}

func healthHandler(health HealthChecker, broker BrokerStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		events := "disabled"
		if broker != nil {
			events = "disconnected"
			if broker.IsConnected() {
				events = "connected"
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := health.Ping(ctx); err != nil {
			logger.FromContext(c.Request.Context()).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
				"events":  events,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
			"events":  events,
		})
	}
}
