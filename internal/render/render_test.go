package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/web"
)

func sampleTree(t *testing.T) []*navigation.Node {
	t.Helper()

	items := []navigation.Item{
		{ID: "dashboard", Title: "Dashboard", URL: "/admin", Kind: navigation.KindInternal, Order: 0, Icon: "dashboard", Visible: true, Status: navigation.StatusActive},
		{ID: "tests", Title: "Manage Tests", Kind: navigation.KindCategory, Order: 1, Icon: "NonexistentGlyphName", Visible: true, Status: navigation.StatusActive},
		{ID: "quizzes", Title: "Quizzes", URL: "/admin/quizzes", Kind: navigation.KindInternal, ParentID: navigation.ParentRef("tests"), Order: 0, Visible: true, Status: navigation.StatusActive},
		{ID: "quiz-types", Title: "Quiz Types", URL: "/admin/quiz-types", Kind: navigation.KindInternal, ParentID: navigation.ParentRef("tests"), Order: 1, Visible: true, Status: navigation.StatusActive},
		{ID: "help", Title: "Help", URL: "https://help.example.com", Kind: navigation.KindExternal, Order: 2, Icon: "help", Visible: true, Status: navigation.StatusActive},
		{ID: "report", Title: "Report", URL: "/admin/report", Kind: navigation.KindInternal, Target: navigation.TargetBlank, Order: 3, Visible: true, Status: navigation.StatusActive},
	}

	result := navigation.Build(items)
	require.Empty(t, result.Warnings)
	return result.Roots
}

func TestDesktopFlyoutsAndActiveMatching(t *testing.T) {
	desktop := NewDesktop(sampleTree(t), "/admin/quizzes", nil)
	require.Len(t, desktop.Entries, 4)

	dashboard := desktop.Entries[0]
	require.False(t, dashboard.HasFlyout())
	require.False(t, dashboard.Active)

	tests := desktop.Entries[1]
	require.True(t, tests.HasFlyout())
	require.False(t, tests.IsLink())
	require.True(t, tests.ChildActive)
	require.Len(t, tests.Flyout, 2)
	require.True(t, tests.Flyout[0].Active)
	require.False(t, tests.Flyout[1].Active)
}

func TestUnknownIconUsesDefaultGlyph(t *testing.T) {
	desktop := NewDesktop(sampleTree(t), "/", navigation.DefaultIconTable())
	require.Equal(t, navigation.DefaultGlyph, desktop.Entries[1].Glyph)
	require.Equal(t, navigation.IconDashboard.Glyph(), desktop.Entries[0].Glyph)
}

func TestLinkTargets(t *testing.T) {
	desktop := NewDesktop(sampleTree(t), "/", nil)

	external := desktop.Entries[2]
	require.True(t, external.External)
	require.True(t, external.NewTab)
	require.Equal(t, "_blank", external.Target())
	require.Equal(t, "noopener noreferrer", external.Rel)

	report := desktop.Entries[3]
	require.False(t, report.External)
	require.True(t, report.NewTab)

	dashboard := desktop.Entries[0]
	require.Equal(t, "", dashboard.Target())
	require.Empty(t, dashboard.Rel)
}

func TestMobileListsParentsThenChildren(t *testing.T) {
	mobile := NewMobile(sampleTree(t), "/admin", nil)
	require.False(t, mobile.Open)

	var ids []string
	var depths []int
	for _, entry := range mobile.Entries {
		ids = append(ids, entry.ID)
		depths = append(depths, entry.Depth)
	}
	require.Equal(t, []string{"dashboard", "tests", "quizzes", "quiz-types", "help", "report"}, ids)
	require.Equal(t, []int{0, 0, 1, 1, 0, 0}, depths)
	require.True(t, mobile.Entries[0].Active)
}

func TestMobileActivateClosesDrawerAndNavigates(t *testing.T) {
	mobile := NewMobile(sampleTree(t), "/", nil)
	mobile.Toggle()
	require.True(t, mobile.Open)

	var gotURL string
	var gotNewTab bool
	nav := NavigatorFunc(func(url string, newTab bool) error {
		gotURL = url
		gotNewTab = newTab
		return nil
	})

	require.NoError(t, mobile.Activate("quizzes", nav))
	require.False(t, mobile.Open)
	require.Equal(t, "/admin/quizzes", gotURL)
	require.False(t, gotNewTab)

	mobile.Toggle()
	require.NoError(t, mobile.Activate("help", nav))
	require.False(t, mobile.Open)
	require.True(t, gotNewTab)
}

func TestMobileActivateCategoryKeepsDrawerOpen(t *testing.T) {
	mobile := NewMobile(sampleTree(t), "/", nil)
	mobile.Toggle()

	called := false
	require.NoError(t, mobile.Activate("tests", NavigatorFunc(func(string, bool) error {
		called = true
		return nil
	})))
	require.True(t, mobile.Open)
	require.False(t, called)
}

func TestMobileActivateErrors(t *testing.T) {
	mobile := NewMobile(sampleTree(t), "/", nil)
	require.ErrorIs(t, mobile.Activate("missing", nil), ErrUnknownEntry)

	boom := errors.New("router down")
	mobile.Toggle()
	err := mobile.Activate("dashboard", NavigatorFunc(func(string, bool) error { return boom }))
	require.ErrorIs(t, err, boom)
	require.False(t, mobile.Open)
}

func TestSidebarSingleOpenGroup(t *testing.T) {
	roots := sampleTree(t)
	require.Equal(t, []string{"tests"}, GroupIDs(roots))

	sidebar := NewSidebar(roots, "/admin", nil, nil)
	require.True(t, sidebar.Sections[1].Group)
	require.False(t, sidebar.Sections[1].Expanded)

	sidebar = sidebar.Toggle("tests")
	require.True(t, sidebar.Sections[1].Expanded)
	require.True(t, sidebar.State.IsOpen("tests"))

	sidebar = sidebar.Toggle("tests")
	require.False(t, sidebar.Sections[1].Expanded)
}

func TestSidebarDropsUnknownGroupsFromState(t *testing.T) {
	sidebar := NewSidebar(sampleTree(t), "/", navigation.GroupState{"tests": true, "gone": true}, nil)
	require.Equal(t, navigation.GroupState{"tests": true}, sidebar.State)
	require.True(t, sidebar.Sections[1].Expanded)
}

func TestRendererFragments(t *testing.T) {
	renderer, err := NewRenderer(web.Templates(), nil)
	require.NoError(t, err)
	roots := sampleTree(t)

	html, err := renderer.Desktop(roots, "/admin/quizzes")
	require.NoError(t, err)
	out := string(html)
	require.Contains(t, out, `class="nav-desktop"`)
	require.Contains(t, out, `href="/admin/quizzes" class="active" aria-current="page"`)
	require.Contains(t, out, `target="_blank" rel="noopener noreferrer"`)
	require.Contains(t, out, `data-icon="dot"`)
	require.Equal(t, 1, strings.Count(out, `aria-current="page"`))

	html, err = renderer.Mobile(roots, "/", true)
	require.NoError(t, err)
	require.Contains(t, string(html), `class="nav-drawer open"`)
	require.Contains(t, string(html), `class="depth-1"`)

	html, err = renderer.Sidebar(roots, "/admin/quiz-types", navigation.GroupState{"tests": true})
	require.NoError(t, err)
	out = string(html)
	require.Contains(t, out, `class="nav-group expanded"`)
	require.Contains(t, out, `href="/admin/quiz-types" class="active"`)

	html, err = renderer.Sidebar(roots, "/admin/quiz-types", nil)
	require.NoError(t, err)
	require.NotContains(t, string(html), "/admin/quiz-types")
}

func TestParentLinkActiveOnItsOwnPath(t *testing.T) {
	items := []navigation.Item{
		{ID: "reports", Title: "Reports", URL: "/admin/reports", Kind: navigation.KindInternal, Visible: true, Status: navigation.StatusActive},
		{ID: "daily", Title: "Daily", URL: "/admin/reports/daily", Kind: navigation.KindInternal, ParentID: navigation.ParentRef("reports"), Visible: true, Status: navigation.StatusActive},
	}
	roots := navigation.Build(items).Roots

	desktop := NewDesktop(roots, "/admin/reports", nil)
	require.True(t, desktop.Entries[0].HasFlyout())
	require.True(t, desktop.Entries[0].Active)
	require.False(t, desktop.Entries[0].ChildActive)

	renderer, err := NewRenderer(web.Templates(), nil)
	require.NoError(t, err)

	html, err := renderer.Desktop(roots, "/admin/reports")
	require.NoError(t, err)
	out := string(html)
	require.Contains(t, out, `class="nav-flyout active"`)
	require.Contains(t, out, `class="nav-trigger active" aria-current="page"`)
	require.Equal(t, 1, strings.Count(out, `aria-current="page"`))

	html, err = renderer.Sidebar(roots, "/admin/reports", nil)
	require.NoError(t, err)
	out = string(html)
	require.Contains(t, out, `class="nav-group-toggle active" aria-current="page"`)
	require.Equal(t, 1, strings.Count(out, `aria-current="page"`))

	html, err = renderer.Desktop(roots, "/admin/reports/daily")
	require.NoError(t, err)
	require.NotContains(t, string(html), `class="nav-trigger active"`)
}

func TestNewRendererRequiresFilesystem(t *testing.T) {
	_, err := NewRenderer(nil, nil)
	require.Error(t, err)
}
