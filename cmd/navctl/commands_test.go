package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kidzstudio/examportal/internal/app"
	"github.com/kidzstudio/examportal/internal/auth"
)

const definitions = `
menus:
  - slug: instructor
    name: Instructor
    items:
      - id: classes
        title: Classes
        kind: category
        order: 2
        children:
          - id: roster
            title: Roster
            url: /classes/roster
            icon: users
      - id: home
        title: Home
        url: /
        icon: home
        order: 1
      - id: drafts
        title: Drafts
        url: /drafts
        visible: false
        order: 3
      - id: stray
        title: Stray
        url: /stray
        parent: missing
        icon: trophee
`

func writeDefinitions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig() *app.Config {
	cfg := &app.Config{}
	cfg.Navigation.OrphanPolicy = "drop"
	cfg.Auth.JWT.Secret = "navctl-secret"
	cfg.Auth.JWT.Issuer = "navctl-test"
	cfg.Auth.JWT.TTL = time.Hour
	return cfg
}

func TestValidateReportsWarningsAndSuggestions(t *testing.T) {
	path := writeDefinitions(t, definitions)
	var out bytes.Buffer

	cmd := &ValidateCmd{Files: []string{path}}
	require.NoError(t, cmd.Run(&out, testConfig()))
	require.Contains(t, out.String(), `references unknown parent "missing"`)
	require.Contains(t, out.String(), `did you mean "trophy"?`)
	require.Contains(t, out.String(), "1 menus")

	out.Reset()
	strict := &ValidateCmd{Files: []string{path}, Strict: true}
	require.Error(t, strict.Run(&out, testConfig()))
}

func TestValidateFailsOnStructuralErrors(t *testing.T) {
	path := writeDefinitions(t, "menus:\n  - name: No slug\n    items: []\n")
	var out bytes.Buffer

	err := (&ValidateCmd{Files: []string{path}}).Run(&out, testConfig())
	require.Error(t, err)
	require.Contains(t, out.String(), "menu has no slug")
}

func TestValidateDefaultsToEmbeddedSeed(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&ValidateCmd{}).Run(&out, testConfig()))
	require.Contains(t, out.String(), embeddedSource+": 2 menus")
}

func TestTreePrintsFilteredMenu(t *testing.T) {
	path := writeDefinitions(t, definitions)
	var out bytes.Buffer

	cmd := &TreeCmd{Menu: "instructor", File: path, Path: "/classes/roster", URLs: true}
	require.NoError(t, cmd.Run(&out, testConfig()))

	text := out.String()
	require.Less(t, strings.Index(text, "Home"), strings.Index(text, "Classes"))
	require.Contains(t, text, "Roster")
	require.Contains(t, text, "/classes/roster")
	require.NotContains(t, text, "Drafts")
	require.NotContains(t, text, "Stray")
	require.Contains(t, text, "warning [unresolved_parent]")
}

func TestTreePromotesOrphansAndIncludesHidden(t *testing.T) {
	path := writeDefinitions(t, definitions)
	var out bytes.Buffer

	cmd := &TreeCmd{Menu: "instructor", File: path, Orphans: "promote", All: true}
	require.NoError(t, cmd.Run(&out, testConfig()))
	require.Contains(t, out.String(), "Stray")
	require.Contains(t, out.String(), "Drafts")

	require.Error(t, (&TreeCmd{Menu: "instructor", File: path, Orphans: "adopt"}).Run(&out, testConfig()))
	require.Error(t, (&TreeCmd{Menu: "student", File: path}).Run(&out, testConfig()))
}

func TestIconsListsAndSuggests(t *testing.T) {
	cfg := testConfig()
	cfg.Navigation.Icons = map[string]string{"award": "trophy"}

	var out bytes.Buffer
	require.NoError(t, (&IconsCmd{}).Run(&out, cfg))
	require.Contains(t, out.String(), " award\n")
	require.Contains(t, out.String(), "fallback: ")

	out.Reset()
	require.NoError(t, (&IconsCmd{Suggest: "dashbord"}).Run(&out, cfg))
	require.Equal(t, "dashboard\n", out.String())

	out.Reset()
	require.NoError(t, (&IconsCmd{Suggest: "award"}).Run(&out, cfg))
	require.Equal(t, "award is a known icon\n", out.String())

	require.Error(t, (&IconsCmd{Suggest: "zzzzzzzzzz"}).Run(&out, cfg))
}

func TestTokenIssuesVerifiableToken(t *testing.T) {
	cfg := testConfig()
	var out bytes.Buffer

	cmd := &TokenCmd{Subject: "ops@example.com", Role: "admin", TTL: 10 * time.Minute}
	require.NoError(t, cmd.Run(&out, cfg))

	jwtService, err := auth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)
	claims, err := jwtService.Validate(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	require.Equal(t, "ops@example.com", claims.Subject)
	require.True(t, claims.HasRole(auth.RoleAdmin))

	cfg.Auth.JWT.Secret = ""
	require.ErrorContains(t, cmd.Run(&out, cfg), "auth.jwt.secret")
}
