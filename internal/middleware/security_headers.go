package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const playgroundCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
	"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; img-src 'self' data: https://cdn.jsdelivr.net"

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()

		// Prevent MIME type sniffing
		headers.Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking attacks
		headers.Set("X-Frame-Options", "DENY")

		// Enable XSS protection
		headers.Set("X-XSS-Protection", "1; mode=block")

		// Set referrer policy
		headers.Set("Referrer-Policy", "no-referrer")

		// The playground page loads its assets from a CDN and runs inline script
		if c.Request.Method == "GET" && strings.Contains(c.GetHeader("Accept"), "text/html") {
			headers.Set("Content-Security-Policy", playgroundCSP)
		} else {
			headers.Set("Content-Security-Policy", "default-src 'self'")
		}

		c.Next()
	}
}
