package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/kidzstudio/examportal/internal/auth"
)

func newJWT(t *testing.T) *iauth.JWTService {
	t.Helper()
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "secret",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Minute,
	})
	require.NoError(t, err)
	return jwtSvc
}

func issue(t *testing.T, jwtSvc *iauth.JWTService, role iauth.Role) string {
	t.Helper()
	token, err := jwtSvc.Issue(iauth.TokenInput{Subject: "user-123", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtSvc := newJWT(t)

	r := gin.New()
	r.GET("/secure", Auth(jwtSvc), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{
			"subject": c.GetString(CtxSubjectKey),
			"role":    string(claims.Role),
		})
	})

	// Missing Authorization header -> 401
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	// Garbage token -> 401
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token -> downstream handler executes
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, jwtSvc, iauth.RoleViewer))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Equal(t, "user-123", payload["subject"])
	require.Equal(t, "viewer", payload["role"])
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtSvc := newJWT(t)

	r := gin.New()
	r.POST("/admin", Auth(jwtSvc), RequireRole(iauth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/unguarded", RequireRole(iauth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{name: "viewer forbidden", path: "/admin", token: issue(t, jwtSvc, iauth.RoleViewer), status: http.StatusForbidden},
		{name: "admin allowed", path: "/admin", token: issue(t, jwtSvc, iauth.RoleAdmin), status: http.StatusNoContent},
		{name: "no claims", path: "/unguarded", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
		})
	}
}
