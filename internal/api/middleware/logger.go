package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/timmy/memeforge/internal/logger"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware puts a request-scoped logger into the request context and logs one line
// per request once the handler returns.
// An incoming X-Request-ID is reused when it parses as a UUID; otherwise a new one is generated.
// Parameters:
//   - log: base logger to enrich with request fields.
// Returns:
//   - gin.HandlerFunc: middleware handler.
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := logger.WithFields(log.WithContext(c.Request.Context()), logger.Fields{
			logger.FieldRequestID: requestID,
			logger.FieldComponent: "api",
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		entry := logger.With(logger.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"query":          c.Request.URL.RawQuery,
			"client_ip":      c.ClientIP(),
			logger.FieldSize: c.Writer.Size(),
		}).WithStatus(strconv.Itoa(status)).WithDuration(start)

		if status >= 500 {
			entry.Warn(ctx, "Request failed")
			return
		}
		entry.Info(ctx, "Request completed")
	}
}
