package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	DefaultMaxRequestSize = 1 << 20

	requestTooLargeMessage = "request body too large"
)

// RequestSizeLimitMiddleware rejects bodies declared larger than maxSize and
// caps the rest, so handlers see an *http.MaxBytesError on overflow.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			AbortWithError(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, requestTooLargeMessage)
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
