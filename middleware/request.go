package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID assigns every request an id, reusing the caller's X-Request-ID when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID extracts the request id from the Gin context
func GetRequestID(c *gin.Context) (string, error) {
	value, exists := c.Get(requestIDKey)
	if !exists {
		return "", &ContextError{Code: "MISSING_REQUEST_ID", Message: "Request ID not found in context"}
	}

	requestID, ok := value.(string)
	if !ok {
		return "", &ContextError{Code: "INVALID_REQUEST_ID", Message: "Request ID is not a string"}
	}

	return requestID, nil
}

// RequestLogger logs one line per request with its status and latency
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := log.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if requestID, err := GetRequestID(c); err == nil {
			fields["request_id"] = requestID
		}

		entry := log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}

// ContextError represents a missing or malformed value in the Gin context
type ContextError struct {
	Code    string
	Message string
}

func (e *ContextError) Error() string {
	return e.Message
}
