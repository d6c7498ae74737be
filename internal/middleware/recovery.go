package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/logger"
	"github.com/kidzstudio/examportal/pkg/metrics"
	"github.com/kidzstudio/examportal/pkg/response"
)

// Recovery converts panics into the standard 500 envelope. When a handler
// panics after it started writing (a half-rendered fragment, for example) the
// response is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			route := c.FullPath()
			if route == "" {
				route = unmatchedRoute
			}
			metrics.RecoveredPanics.WithLabelValues(route).Inc()
			logger.WithModule("http").Error("panic recovered",
				zap.String("method", c.Request.Method),
				zap.String("route", route),
				zap.String("path", c.Request.URL.Path),
				zap.Any("error", r),
				zap.Stack("stack"),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Error(c, errors.ErrInternalServer)
			c.Abort()
		}()
		c.Next()
	}
}

// NotFoundHandler returns a JSON 404 response for unknown routes.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, errors.ErrNotFound.WithMessage(fmt.Sprintf("route %s not found", c.Request.URL.Path)))
}
