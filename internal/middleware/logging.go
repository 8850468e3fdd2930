package middleware

import (
	"people-graphql-api/internal/auth"
	"people-graphql-api/internal/logger"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware writes one access log line per request. GraphQL requests
// also log the operation and its root fields.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Bool("authenticated", auth.IsAuthenticated(c.Request.Context())),
		}
		if op, ok := graphQLOperationOf(c); ok {
			fields = append(fields,
				zap.String("graphql_type", op.Type),
				zap.Strings("graphql_fields", op.Fields),
			)
			if op.Name != "" {
				fields = append(fields, zap.String("graphql_operation", op.Name))
			}
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("error", errs))
		}

		log := logger.FromContext(c.Request.Context())
		switch {
		case status >= 500:
			log.Error("Request failed", fields...)
		case status >= 400:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
