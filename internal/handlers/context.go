package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// subjectOf returns the authenticated subject, or "" on public routes.
func subjectOf(c *gin.Context) string {
	if claims, ok := middleware.ClaimsFrom(c); ok {
		return claims.Subject
	}
	return ""
}
