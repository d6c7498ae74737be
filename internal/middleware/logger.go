package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidzstudio/examportal/pkg/logger"
)

// Logger writes a structured access log for each request. Successful requests
// to the quiet paths (probes, scrapes) are logged at debug level.
func Logger(quiet ...string) gin.HandlerFunc {
	quietPaths := make(map[string]struct{}, len(quiet))
	for _, path := range quiet {
		quietPaths[path] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if route := c.FullPath(); route != "" && route != path {
			fields = append(fields, zap.String("route", route))
		}
		if slug := c.Param("slug"); slug != "" {
			fields = append(fields, zap.String("menu", slug))
		}
		if subject := c.GetString(CtxSubjectKey); subject != "" {
			fields = append(fields, zap.String("subject", subject))
		}

		log := logger.WithModule("http")
		_, isQuiet := quietPaths[path]
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		case isQuiet:
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
