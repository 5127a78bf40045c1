package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/surdiana/todoapi/internal/constants"
	ctxutil "github.com/surdiana/todoapi/pkg/context"
	"github.com/surdiana/todoapi/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLoggingMiddleware assigns a request ID, seeds the request context
// with tracing metadata, and logs the request line once the handler chain
// completes.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientIP(ctx, c.ClientIP())
		ctx = ctxutil.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.LogRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
			c.ClientIP(),
			c.Request.UserAgent(),
		)
	}
}

// RequestTimeout puts a deadline on the request context so store calls
// downstream (gorm, redis) are bounded. A non-positive timeout disables
// the deadline.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RecoveryMiddleware converts panics into 500 responses instead of
// dropping the connection.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.LogPanic(recovered)
				c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("internal server error", nil))
				c.Abort()
			}
		}()

		c.Next()
	}
}
