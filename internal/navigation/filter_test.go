package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterRemovesHiddenSubtree(t *testing.T) {
	parent := link("reports", 0, "")
	parent.Visible = false
	items := []Item{
		parent,
		link("daily", 0, "reports"),
		link("weekly", 1, "daily"),
		link("home", 1, ""),
	}

	filtered := Filter(items)
	require.Len(t, filtered, 1)
	require.Equal(t, "home", filtered[0].ID)
}

func TestFilterRemovesInactiveItems(t *testing.T) {
	inactive := link("archive", 0, "")
	inactive.Status = StatusInactive

	filtered := Filter([]Item{inactive, link("archive-2020", 0, "archive"), link("home", 0, "")})
	require.Len(t, filtered, 1)
	require.Equal(t, "home", filtered[0].ID)
}

func TestFilterKeepsOrphansForTheBuilder(t *testing.T) {
	filtered := Filter([]Item{link("orphan", 0, "missing")})
	require.Len(t, filtered, 1)
}

func TestFilterHandlesCycles(t *testing.T) {
	filtered := Filter([]Item{link("a", 0, "b"), link("b", 0, "a")})
	require.Len(t, filtered, 2)
}

func TestFilterThenBuild(t *testing.T) {
	hidden := link("hidden", 0, "settings")
	hidden.Visible = false
	items := []Item{
		link("settings", 0, ""),
		hidden,
		link("profile", 1, "settings"),
	}

	result := Build(Filter(items))
	require.Empty(t, result.Warnings)
	require.Equal(t, []string{"profile"}, rootIDs(result.Roots[0].Children))
}
