package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request and exposes a request-scoped logger under "logger".
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := logger.With(zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path), zap.String("ip", getClientIP(c)))
		c.Set("logger", reqLogger)

		c.Next()

		reqLogger.Info("request",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
