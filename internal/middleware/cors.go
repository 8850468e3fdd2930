package middleware

import (
	"people-graphql-api/internal/config"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// GraphQL clients always need these, whatever the configuration lists.
var (
	graphQLMethods       = []string{"GET", "POST", "OPTIONS"}
	graphQLHeaders       = []string{"Content-Type", "Authorization"}
	graphQLExposeHeaders = []string{RequestIDHeader}
)

// CORSMiddleware applies cfg on top of what the GraphQL endpoint requires. With
// no allowed origins every origin is accepted, without credentials.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     union(cfg.AllowedMethods, graphQLMethods),
		AllowHeaders:     union(cfg.AllowedHeaders, graphQLHeaders),
		ExposeHeaders:    union(cfg.ExposedHeaders, graphQLExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	return cors.New(corsConfig)
}

func union(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, v := range required {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
