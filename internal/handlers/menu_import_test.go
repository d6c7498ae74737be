package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kidzstudio/examportal/internal/handlers/testutil"
	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/internal/services"
)

const importDoc = `
name: Instructor portal
items:
  - id: classes
    title: Classes
    url: /classes
    icon: users
  - id: grading
    title: Grading
    kind: category
    order: 1
    children:
      - id: pending
        title: Pending
        url: /grading/pending
`

func TestImportCreatesMenuFromYAML(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()

	w := env.RequestRaw(http.MethodPut, "/api/menus/instructor-portal/import", "application/yaml", strings.NewReader(importDoc), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var menu services.MenuDTO
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &menu)
	require.Equal(t, "instructor-portal", menu.Slug)
	require.Equal(t, int64(3), menu.ItemCount)

	w = env.Request(http.MethodGet, "/api/menus/instructor-portal/tree", nil, "")
	var tree services.TreeResult
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &tree)
	require.Len(t, tree.Roots, 2)
	require.Equal(t, "pending", tree.Roots[1].Children[0].ID)
}

func TestImportRejectsBadDefinitions(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()
	path := "/api/menus/student-portal/import"

	cases := map[string]string{
		"slug mismatch":     "slug: other\nname: Other\nitems: []\n",
		"unknown field":     "name: Portal\ncolour: red\n",
		"dangling parent":   "items:\n  - id: a\n    title: A\n    parent: ghost\n",
		"duplicate item id": "items:\n  - id: a\n    title: A\n  - id: a\n    title: B\n",
		"empty body":        "",
		"script url":        "items:\n  - id: evil\n    title: Evil\n    url: \"javascript:alert(1)\"\n",
		"missing title":     "items:\n  - id: blank\n    url: /blank\n",
	}
	for name, body := range cases {
		w := env.RequestRaw(http.MethodPut, path, "application/yaml", strings.NewReader(body), token)
		require.Contains(t, []int{http.StatusBadRequest, http.StatusConflict}, w.Code, name)
	}

	w := env.RequestRaw(http.MethodPut, path, "application/yaml", strings.NewReader(cases["script url"]), token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, testutil.DecodeResponse(t, w).Error.Message, "javascript:alert(1)")

	w = env.Request(http.MethodGet, "/api/menus/student-portal", nil, "")
	var menu services.MenuDTO
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &menu)
	require.Equal(t, int64(7), menu.ItemCount)

	w = env.RequestRaw(http.MethodPut, path, "application/yaml", strings.NewReader(importDoc), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportRoundTrip(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()

	w := env.Request(http.MethodGet, "/api/menus/student-portal/export", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var def menufile.Menu
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &def)
	require.Equal(t, "student-portal", def.Slug)
	require.Len(t, def.Items, 7)

	w = env.Request(http.MethodGet, "/api/menus/student-portal/export?format=yaml", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "student-portal.yaml")

	file, err := menufile.Parse(w.Body.Bytes())
	require.NoError(t, err)
	exported, ok := file.Menu("student-portal")
	require.True(t, ok)

	exported.Slug = ""
	w = env.Request(http.MethodPut, "/api/menus/portal-copy/import", exported, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	original := env.Request(http.MethodGet, "/api/menus/student-portal/render/desktop", nil, "")
	copied := env.Request(http.MethodGet, "/api/menus/portal-copy/render/desktop", nil, "")
	require.Equal(t, original.Body.String(), copied.Body.String())
}
