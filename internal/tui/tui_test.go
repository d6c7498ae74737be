package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/kidzstudio/examportal/internal/navigation"
)

func plainTheme() Theme {
	return NewTheme(lipgloss.NewRenderer(io.Discard))
}

func sampleRoots(t *testing.T) []*navigation.Node {
	t.Helper()
	items := []navigation.Item{
		{ID: "exams", Title: "Exams", Kind: navigation.KindCategory, Order: 1, Icon: "exam", Visible: true, Status: navigation.StatusActive},
		{ID: "schedule", Title: "Schedule", URL: "/exams/schedule", ParentID: navigation.ParentRef("exams"), Order: 1, Visible: true, Status: navigation.StatusActive},
		{ID: "results", Title: "Results", URL: "/exams/results", ParentID: navigation.ParentRef("exams"), Order: 2, Visible: true, Status: navigation.StatusActive},
		{ID: "people", Title: "People", Kind: navigation.KindCategory, Order: 2, Icon: "users", Visible: true, Status: navigation.StatusActive},
		{ID: "students", Title: "Students", URL: "/people/students", ParentID: navigation.ParentRef("people"), Order: 1, Visible: true, Status: navigation.StatusActive},
		{ID: "help", Title: "Help", URL: "https://help.example.com", Kind: navigation.KindExternal, Order: 3, Icon: "no-such-icon", Visible: true, Status: navigation.StatusActive},
	}
	result := navigation.Build(items)
	require.Empty(t, result.Warnings)
	return result.Roots
}

func press(t *testing.T, m Browse, keys ...tea.KeyMsg) Browse {
	t.Helper()
	for _, key := range keys {
		next, _ := m.Update(key)
		var ok bool
		m, ok = next.(Browse)
		require.True(t, ok)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestRenderTreeDrawsConnectorsInDisplayOrder(t *testing.T) {
	out := RenderTree(sampleRoots(t), TreeOptions{Theme: plainTheme(), CurrentPath: "/exams/results", ShowURLs: true})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)

	require.True(t, strings.HasPrefix(lines[0], "├── "))
	require.Contains(t, lines[0], "Exams")
	require.True(t, strings.HasPrefix(lines[1], "│   ├── "))
	require.Contains(t, lines[1], "Schedule")
	require.Contains(t, lines[1], "/exams/schedule")
	require.True(t, strings.HasPrefix(lines[2], "│   └── "))
	require.Contains(t, lines[4], "Students")
	require.True(t, strings.HasPrefix(lines[5], "└── "))
	require.Contains(t, lines[5], "Help "+externalMarker)
	require.Contains(t, lines[5], navigation.DefaultGlyph.Rune)
}

func TestRenderWarningsIncludesKind(t *testing.T) {
	out := RenderWarnings([]navigation.Warning{{Kind: navigation.WarnUnresolvedParent, ItemID: "x", Message: "item x references missing parent y"}}, plainTheme())
	require.Equal(t, "warning [unresolved_parent]: item x references missing parent y\n", out)
}

func TestBrowseKeepsAtMostOneGroupOpen(t *testing.T) {
	m := NewBrowse("admin", sampleRoots(t), "", nil, plainTheme())
	require.Len(t, m.rows(), 3)

	m = press(t, m, keyEnter)
	require.True(t, m.Sidebar().State.IsOpen("exams"))
	require.Len(t, m.rows(), 5)
	require.Equal(t, "expanded Exams", m.Status())

	// exams, schedule, results, people
	m = press(t, m, keyDown, keyDown, keyDown, keyEnter)
	require.False(t, m.Sidebar().State.IsOpen("exams"))
	require.True(t, m.Sidebar().State.IsOpen("people"))
	require.Equal(t, 1, m.cursor)

	m = press(t, m, keyEnter)
	_, open := m.Sidebar().State.Open()
	require.False(t, open)
	require.Equal(t, "collapsed People", m.Status())
}

func TestBrowseFollowsInternalLinks(t *testing.T) {
	m := NewBrowse("admin", sampleRoots(t), "", nil, plainTheme())

	m = press(t, m, keyEnter, keyDown, keyDown, keyEnter)
	require.Equal(t, "/exams/results", m.Path())
	require.True(t, m.Sidebar().State.IsOpen("exams"))
	require.True(t, m.Sidebar().Sections[0].Items[1].Active)
	require.False(t, m.Sidebar().Sections[0].Items[0].Active)

	m = press(t, m, keyUp, keyUp, keyEnter, keyDown, keyDown, keyEnter)
	require.Equal(t, "/exams/results", m.Path())
	require.Equal(t, "Help opens https://help.example.com in a new tab", m.Status())

	view := m.View()
	require.Contains(t, view, "admin /exams/results")
	require.Contains(t, view, "› ")
}

func TestBrowseQuits(t *testing.T) {
	m := NewBrowse("admin", sampleRoots(t), "", nil, plainTheme())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
