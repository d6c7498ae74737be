package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/api"
	"github.com/kidzstudio/examportal/internal/app"
	iauth "github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/internal/cache"
	sharedtestutil "github.com/kidzstudio/examportal/internal/database/testutil"
	"github.com/kidzstudio/examportal/internal/monitoring"
	"github.com/kidzstudio/examportal/internal/monitoring/checks"
	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/realtime"
	"github.com/kidzstudio/examportal/internal/render"
	"github.com/kidzstudio/examportal/internal/services"
	"github.com/kidzstudio/examportal/pkg/response"
	"github.com/kidzstudio/examportal/web"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T          *testing.T
	DB         *gorm.DB
	Router     *gin.Engine
	JWT        *iauth.JWTService
	Menus      *services.MenuService
	Cache      *cache.MemoryStore
	Hub        *realtime.Hub
	Monitoring *monitoring.Module
}

// NewEnv provisions a fresh handler test environment with migrations and seed menus applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	cfg := &app.Config{
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	store := cache.NewMemoryStore()
	hub := realtime.NewHub()
	icons, _ := navigation.NewIconTable(map[string]string{"award": "trophy"}, "")

	menus, err := services.NewMenuService(db,
		services.WithTreeCache(store, time.Minute),
		services.WithPublisher(hub),
		services.WithIconTable(icons),
	)
	require.NoError(t, err)

	renderer, err := render.NewRenderer(web.Templates(), icons)
	require.NoError(t, err)

	mon, err := monitoring.NewModule(monitoring.Options{Version: "test"})
	require.NoError(t, err)
	monitoring.SetModule(mon)
	mon.Health().RegisterLiveness(checks.Realtime(hub, 0, realtime.StreamMenus))
	mon.Health().RegisterReadiness(checks.Database(db, time.Second))
	mon.Health().RegisterReadiness(checks.Cache(store, time.Second))

	router, err := api.NewRouter(api.Dependencies{
		Config:     cfg,
		JWT:        jwtSvc,
		Menus:      menus,
		Renderer:   renderer,
		Icons:      icons,
		Hub:        hub,
		Monitoring: mon,
	})
	require.NoError(t, err)

	return &Env{
		T:          t,
		DB:         db,
		Router:     router,
		JWT:        jwtSvc,
		Menus:      menus,
		Cache:      store,
		Hub:        hub,
		Monitoring: mon,
	}
}

// Token issues an access token for subject with the given role.
func (e *Env) Token(subject string, role iauth.Role) string {
	e.T.Helper()
	token, err := e.JWT.Issue(iauth.TokenInput{Subject: subject, Role: role})
	require.NoError(e.T, err)
	return token
}

// AdminToken issues an admin access token.
func (e *Env) AdminToken() string {
	return e.Token("admin@example.com", iauth.RoleAdmin)
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return e.RequestRaw(method, path, contentType, reader, token)
}

// RequestRaw executes a request with a pre-encoded body.
func (e *Env) RequestRaw(method, path, contentType string, body io.Reader, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(e.T, err)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
