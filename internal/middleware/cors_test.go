package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func corsRouter(allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(allowed...))
	r.GET("/api/menus", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	r := corsRouter()

	preflight := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/menus", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	r.ServeHTTP(preflight, req)
	require.Equal(t, http.StatusNoContent, preflight.Code)
	require.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, preflight.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	require.Contains(t, preflight.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/menus", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSEchoesOnlyListedOrigins(t *testing.T) {
	r := corsRouter("https://portal.example.com/")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/menus", nil)
	req.Header.Set("Origin", "https://Portal.example.com")
	r.ServeHTTP(w, req)
	require.Equal(t, "https://Portal.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", w.Header().Get("Vary"))
	require.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/menus", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
}
