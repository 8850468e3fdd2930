package middleware

import (
	"context"
	"net/http"
	"people-graphql-api/internal/logger"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rateLimitMessage = "rate limit exceeded, please try again later"

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.clients[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[ip] = l
	}
	return l
}

// Sweep forgets clients whose bucket is full again at now. Reading the bucket
// does not spend tokens.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, l := range rl.clients {
		if l.TokensAt(now) >= float64(rl.burst) {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := rl.Sweep(now); n > 0 {
				logger.Debug("Idle rate limit buckets released", zap.Int("released", n))
			}
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RateLimitMiddleware rejects requests from clients that exceed rl.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rl.limiter(ip).Allow() {
			c.Next()
			return
		}

		logger.FromContext(c.Request.Context()).Warn("Rate limit exceeded",
			zap.String("ip", ip),
			zap.String("path", c.Request.URL.Path),
			zap.String("event", "rate_limited"),
		)
		c.Header("Retry-After", "1")
		AbortWithError(c, http.StatusTooManyRequests, CodeRateLimited, rateLimitMessage)
	}
}
