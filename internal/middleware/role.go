package middleware

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/metrics"
	"github.com/kidzstudio/examportal/pkg/response"
)

// RequireRole checks that the authenticated caller holds role. It must run after Auth.
func RequireRole(role iauth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.HasRole(role) {
			metrics.AuthDecisions.WithLabelValues("denied").Inc()
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		metrics.AuthDecisions.WithLabelValues("allowed").Inc()
		c.Next()
	}
}
