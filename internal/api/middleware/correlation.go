package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationHeader carries the request's correlation ID in both directions.
	CorrelationHeader = "X-Correlation-ID"
	// CorrelationKey is the gin context key handlers and the request log read it from.
	CorrelationKey = "correlation_id"

	maxCorrelationIDLen = 128
)

// CorrelationMiddleware tags every request with a correlation ID, reusing the
// caller's when it is usable.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationHeader)
		if !validCorrelationID(id) {
			id = uuid.New().String()
		}

		c.Set(CorrelationKey, id)
		c.Header(CorrelationHeader, id)
		c.Next()
	}
}

// validCorrelationID accepts short printable ASCII tokens without spaces.
func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
