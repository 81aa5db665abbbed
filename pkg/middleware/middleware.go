package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgerrors "audioguard/pkg/errors"
	"audioguard/pkg/logging"
)

const RequestIDHeader = "X-Request-ID"

var corsAllowHeaders = strings.Join([]string{"authorization", "x-client-info", "apikey", "content-type"}, ", ")

func LoggerMiddleware(logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"method", c.Request.Method,
			"path", path,
		}
		fields = append(fields, logging.GetLogFields(c.Request.Context())...)
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			fields = append(fields, "error", msg)
		}

		if status >= http.StatusInternalServerError {
			logger.Errorw("HTTP Request", fields...)
		} else {
			logger.Infow("HTTP Request", fields...)
		}
	}
}

// RecoveryMiddleware turns a handler panic into the generic 500 body. The
// stack trace is logged, never returned.
func RecoveryMiddleware(logger interface {
	Errorw(msg string, keysAndValues ...interface{})
}) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err := pkgerrors.RecoverPanic(recovered)
		logger.Errorw("Panic recovered",
			"error", err,
			"stack_trace", err.Details["stack_trace"],
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", logging.GetRequestID(c.Request.Context()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": pkgerrors.ErrInternal.Message,
		})
	})
}

// RequestIDMiddleware propagates X-Request-ID, generating a UUID when absent,
// and stores it in the request context for logging.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// CORSMiddleware sets the permissive CORS headers on every response.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Next()
	}
}
