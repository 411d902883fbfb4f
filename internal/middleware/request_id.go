package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-Id"

	ctxRequestID = "request_id"
	ctxLogger    = "request_logger"
)

// RequestID tags every request with an id, echoes it in the response and
// stores a logger carrying it for handlers to use.
func RequestID(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		c.Set(ctxRequestID, requestID)
		c.Set(ctxLogger, log.With().Str("request_id", requestID).Logger())
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// Log returns the request-scoped logger, or fallback outside RequestID.
func Log(c *gin.Context, fallback zerolog.Logger) *zerolog.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return &l
		}
	}
	return &fallback
}
