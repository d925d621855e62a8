package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request's correlation id in and out.
const CorrelationIDHeader = "X-Correlation-ID"

const (
	correlationIDKey    = "debtbook.correlation_id"
	maxCorrelationIDLen = 64
)

// CorrelationID tags the request with the id that appears in the response
// envelope and the request log. A caller's id is kept only when it is a
// short token of letters, digits, '.', '_' or '-'; anything else is
// replaced with a fresh UUID so it can't smuggle text into the logs.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if !validCorrelationID(id) {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)
		c.Next()
	}
}

// GetCorrelationID returns the request's correlation id, or "" outside the
// CorrelationID middleware.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}

func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
