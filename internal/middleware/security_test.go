package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/api/menus/:slug/render/:view", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<nav></nav>"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/menus/student-portal/render/desktop", nil))
	require.Equal(t, http.StatusOK, w.Code)

	header := w.Header()
	require.Equal(t, "DENY", header.Get("X-Frame-Options"))
	require.Equal(t, "nosniff", header.Get("X-Content-Type-Options"))
	require.Contains(t, header.Get("Content-Security-Policy"), "default-src 'none'")
	require.Contains(t, header.Get("Content-Security-Policy"), "frame-ancestors 'none'")
	require.Equal(t, "strict-origin-when-cross-origin", header.Get("Referrer-Policy"))
	require.Empty(t, header.Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/menus/student-portal/render/desktop", nil)
	req.Header.Set("X-Forwarded-Proto", "HTTPS")
	r.ServeHTTP(w, req)
	require.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}
