package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	iauth "github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/internal/handlers/testutil"
	"github.com/kidzstudio/examportal/internal/services"
)

type menuList struct {
	Menus   []services.MenuDTO `json:"menus"`
	Filters struct {
		Kind        string `json:"kind"`
		Placeholder string `json:"placeholder"`
	} `json:"filters"`
}

func TestMenuListAndGet(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/menus", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := testutil.DecodeResponse(t, w)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	require.Equal(t, 2, resp.Meta.Total)

	var list menuList
	testutil.DecodeInto(t, resp.Data, &list)
	require.Len(t, list.Menus, 2)
	require.Equal(t, "search", list.Filters.Kind)

	w = env.Request(http.MethodGet, "/api/menus?q=ADMIN", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &list)
	require.Len(t, list.Menus, 1)
	require.Equal(t, "admin-sidebar", list.Menus[0].Slug)

	w = env.Request(http.MethodGet, "/api/menus/student-portal", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var menu services.MenuDTO
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &menu)
	require.Equal(t, int64(7), menu.ItemCount)

	w = env.Request(http.MethodGet, "/api/menus/missing", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	resp = testutil.DecodeResponse(t, w)
	require.False(t, resp.Success)
	require.Equal(t, "menu.not_found", resp.Error.Code)
}

func TestMenuWritesRequireAdmin(t *testing.T) {
	env := testutil.NewEnv(t)
	payload := map[string]any{"slug": "footer", "name": "Footer"}

	w := env.Request(http.MethodPost, "/api/menus", payload, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = env.Request(http.MethodPost, "/api/menus", payload, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	viewer := env.Token("viewer@example.com", iauth.RoleViewer)
	w = env.Request(http.MethodPost, "/api/menus", payload, viewer)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.Request(http.MethodPost, "/api/menus", payload, env.AdminToken())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestMenuCreateUpdateDelete(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()

	w := env.Request(http.MethodPost, "/api/menus", map[string]any{"slug": "Footer", "name": "Footer", "description": "Bottom links"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var menu services.MenuDTO
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &menu)
	require.Equal(t, "footer", menu.Slug)
	require.Zero(t, menu.ItemCount)

	w = env.Request(http.MethodPost, "/api/menus", map[string]any{"slug": "footer", "name": "Again"}, token)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.Request(http.MethodPost, "/api/menus", map[string]any{"slug": "nameless"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, testutil.DecodeResponse(t, w).Error.Message, "name is required")

	w = env.RequestRaw(http.MethodPost, "/api/menus", "application/json", strings.NewReader("{"), token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid JSON payload", testutil.DecodeResponse(t, w).Error.Message)

	w = env.Request(http.MethodPatch, "/api/menus/footer", map[string]any{"name": "Site footer"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &menu)
	require.Equal(t, "Site footer", menu.Name)
	require.Equal(t, "Bottom links", menu.Description)

	w = env.Request(http.MethodDelete, "/api/menus/footer", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodGet, "/api/menus/footer", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
