package tracing

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GinMiddleware starts a server span per request. Health and metrics scrapes are skipped.
func GinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		switch c.FullPath() {
		case "/health", "/metrics":
			return false
		}
		return true
	}))
}
