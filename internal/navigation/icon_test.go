package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIconNormalisesNames(t *testing.T) {
	for _, name := range []string{"dashboard", "Dashboard", "layout-dashboard", "LayoutDashboard", " layout_dashboard "} {
		icon, ok := ParseIcon(name)
		require.True(t, ok, name)
		require.Equal(t, IconDashboard, icon, name)
	}

	icon, ok := ParseIcon("practice-set")
	require.True(t, ok)
	require.Equal(t, IconPracticeSet, icon)
	require.Equal(t, "practice-set", icon.String())
}

func TestUnknownIconFallsBackToDefaultGlyph(t *testing.T) {
	icon, ok := ParseIcon("unicorn")
	require.False(t, ok)
	require.Equal(t, IconDefault, icon)
	require.Equal(t, DefaultGlyph, icon.Glyph())
	require.Equal(t, DefaultGlyph, Icon(999).Glyph())

	glyph, ok := DefaultIconTable().Resolve("unicorn")
	require.False(t, ok)
	require.Equal(t, DefaultGlyph, glyph)
}

func TestEveryIconHasAGlyph(t *testing.T) {
	for _, icon := range Icons() {
		glyph := icon.Glyph()
		require.NotEqual(t, DefaultGlyph, glyph, icon.String())
		require.Equal(t, icon.String(), glyph.Name)
		require.NotEmpty(t, glyph.Path)
	}
}

func TestIconTableAliasesAndFallback(t *testing.T) {
	table, rejected := NewIconTable(map[string]string{
		"exam-paper": "exam",
		"broken":     "nope",
	}, "help")
	require.Equal(t, []string{"broken"}, rejected)

	glyph, ok := table.Resolve("ExamPaper")
	require.True(t, ok)
	require.Equal(t, IconExam.Glyph(), glyph)

	glyph, ok = table.Resolve("nothing")
	require.False(t, ok)
	require.Equal(t, IconHelp.Glyph(), glyph)
	require.Equal(t, IconHelp.Glyph(), table.Fallback())
	require.Contains(t, table.Names(), "exampaper")
}

func TestCheckIcons(t *testing.T) {
	known := link("home", 0, "")
	known.Icon = "home"
	unknown := link("mystery", 1, "")
	unknown.Icon = "sparkle"
	bare := link("bare", 2, "")

	result := Build([]Item{known, unknown, bare})
	warnings := CheckIcons(result.Roots, DefaultIconTable())
	require.Len(t, warnings, 1)
	require.Equal(t, WarnUnknownIcon, warnings[0].Kind)
	require.Equal(t, "mystery", warnings[0].ItemID)
	require.Equal(t, "sparkle", warnings[0].Ref)
}
