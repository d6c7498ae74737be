package menufile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kidzstudio/examportal/internal/navigation"
)

func TestValidateReportsWarnings(t *testing.T) {
	file := &File{Menus: []Menu{{
		Slug: "portal",
		Name: "Portal",
		Items: []Item{
			{ID: "home", Title: "Home", URL: "/", Icon: "hmoe"},
			{ID: "home", Title: "Home again", URL: "/"},
			{ID: "lost", Title: "Lost", URL: "/lost", Parent: "nowhere"},
			{ID: "spark", Title: "Spark", URL: "/spark", Icon: "zzzzzzzzzz"},
		},
	}}}

	report := Validate(file, nil)
	require.False(t, report.HasErrors())

	kinds := map[navigation.WarningKind]int{}
	for _, issue := range report.Warnings() {
		kinds[issue.Kind]++
	}
	require.Equal(t, 1, kinds[navigation.WarnDuplicateID])
	require.Equal(t, 1, kinds[navigation.WarnUnresolvedParent])
	require.Equal(t, 2, kinds[navigation.WarnUnknownIcon])

	var suggestions []string
	for _, issue := range report.Issues {
		if issue.Kind == navigation.WarnUnknownIcon {
			suggestions = append(suggestions, issue.Suggestion)
		}
	}
	require.Equal(t, []string{"home", ""}, suggestions)
}

func TestValidateReportsStructuralErrors(t *testing.T) {
	file := &File{Menus: []Menu{
		{Slug: "", Name: "Nameless"},
		{Slug: "Bad Slug", Name: "Bad"},
		{Slug: "dup", Items: []Item{{ID: "Upper", Title: "Upper"}}},
		{Slug: "dup"},
		{Slug: "enum", Items: []Item{{ID: "x", Title: "X", Status: "archived"}}},
	}}

	report := Validate(file, nil)
	require.True(t, report.HasErrors())

	var messages []string
	for _, issue := range report.Issues {
		require.Equal(t, SeverityError, issue.Severity)
		messages = append(messages, issue.Message)
	}
	require.Len(t, messages, 5)
}

func TestValidateUsesCustomIconTable(t *testing.T) {
	table, rejected := navigation.NewIconTable(map[string]string{"award": "trophy", "ribbon": "trophy"}, "")
	require.Empty(t, rejected)

	file := &File{Menus: []Menu{{Slug: "portal", Items: []Item{{ID: "prize", Title: "Prize", Icon: "ribbon"}}}}}
	require.Empty(t, Validate(file, table).Issues)
	require.NotEmpty(t, Validate(file, nil).Issues)
}

func TestSuggestIcon(t *testing.T) {
	names := navigation.DefaultIconTable().Names()
	require.Equal(t, "settings", SuggestIcon("setings", names))
	require.Equal(t, "dashboard", SuggestIcon("Dash-board", names))
	require.Equal(t, "", SuggestIcon("completely-unrelated", names))
	require.Equal(t, "", SuggestIcon("", names))
}

func TestIssueString(t *testing.T) {
	issue := Issue{Menu: "portal", Severity: SeverityWarning, Message: "item \"a\" uses unknown icon \"hmoe\"", Suggestion: "home"}
	require.Equal(t, `[warning] portal: item "a" uses unknown icon "hmoe" (did you mean "home"?)`, issue.String())
}
