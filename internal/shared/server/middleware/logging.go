package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docmanager-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
var requestLogKeys = map[string]string{
	"documentId":      "document_id",
	"ingestionId":     "ingestion_id",
	"ingestionStatus": "ingestion_status",
}

// Logging emits one request.complete line per request. 5xx responses log at error level.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"role":        string(RoleFromContext(c)),
			"client_ip":   c.ClientIP(),
		}
		for ctxKey, field := range requestLogKeys {
			if v, ok := c.Get(ctxKey); ok {
				fields[field] = v
			}
		}

		if status >= http.StatusInternalServerError {
			telemetry.Error("request.complete", fields)
			return
		}
		telemetry.Info("request.complete", fields)
	}
}
