package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/metrics"
	"github.com/kidzstudio/examportal/pkg/response"
)

const (
	CtxClaimsKey  = "authClaims"
	CtxSubjectKey = "subject"
)

// Auth enforces bearer token authentication using the supplied JWT service.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			metrics.AuthDecisions.WithLabelValues("missing").Inc()
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.Validate(strings.TrimSpace(authz[7:]))
		if err != nil {
			// Normalise all validation failures to 401
			metrics.AuthDecisions.WithLabelValues("invalid").Inc()
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxSubjectKey, claims.Subject)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*iauth.Claims, bool) {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*iauth.Claims)
	return claims, ok && claims != nil
}
