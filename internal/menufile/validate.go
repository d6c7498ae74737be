package menufile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/pkg/validator"
)

// maxSuggestionDistance bounds how far a misspelt icon name may be from a
// known one before no suggestion is offered.
const maxSuggestionDistance = 3

// Severity separates problems that stop an import from ones that only degrade
// the rendered menu.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding of Validate.
type Issue struct {
	Menu       string                 `json:"menu"`
	Severity   Severity               `json:"severity"`
	Kind       navigation.WarningKind `json:"kind,omitempty"`
	ItemID     string                 `json:"item_id,omitempty"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", i.Severity, i.Menu, i.Message)
	if i.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", i.Suggestion)
	}
	return b.String()
}

// Report collects validation issues.
type Report struct {
	Issues []Issue `json:"issues"`
}

// HasErrors reports whether any issue is an error.
func (r Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns the warning-level issues.
func (r Report) Warnings() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			out = append(out, issue)
		}
	}
	return out
}

// Validate checks a document without failing on the first problem. Structural
// problems (missing slugs, malformed keys, bad enum values) are errors;
// unresolved parents, duplicate ids, unreachable items and unknown icons are
// warnings because the builder degrades gracefully around them.
func Validate(file *File, icons *navigation.IconTable) Report {
	if icons == nil {
		icons = navigation.DefaultIconTable()
	}

	var report Report
	if file == nil {
		return report
	}

	seen := make(map[string]struct{}, len(file.Menus))
	for idx, menu := range file.Menus {
		label := menu.Slug
		if label == "" {
			label = fmt.Sprintf("#%d", idx+1)
		}

		switch {
		case strings.TrimSpace(menu.Slug) == "":
			report.add(label, SeverityError, "", "", "menu has no slug")
		case !validator.IsMenuKey(menu.Slug):
			report.add(label, SeverityError, "", "", fmt.Sprintf("menu slug %q must be lower-case letters, digits, '-' or '_'", menu.Slug))
		}
		if _, dup := seen[menu.Slug]; dup && menu.Slug != "" {
			report.add(label, SeverityError, "", "", fmt.Sprintf("menu %q is defined more than once", menu.Slug))
		}
		seen[menu.Slug] = struct{}{}

		items, err := menu.NavigationItems()
		if err != nil {
			report.add(label, SeverityError, "", "", err.Error())
			continue
		}

		for _, item := range items {
			if !validator.IsMenuKey(item.ID) {
				report.add(label, SeverityError, "", item.ID, fmt.Sprintf("item key %q must be lower-case letters, digits, '-' or '_'", item.ID))
			}
		}

		result := navigation.Build(items)
		for _, warning := range result.Warnings {
			report.Issues = append(report.Issues, Issue{
				Menu:     label,
				Severity: SeverityWarning,
				Kind:     warning.Kind,
				ItemID:   warning.ItemID,
				Message:  warning.Message,
			})
		}

		for _, item := range items {
			if item.Icon == "" {
				continue
			}
			if _, ok := icons.Resolve(item.Icon); ok {
				continue
			}
			report.Issues = append(report.Issues, Issue{
				Menu:       label,
				Severity:   SeverityWarning,
				Kind:       navigation.WarnUnknownIcon,
				ItemID:     item.ID,
				Message:    fmt.Sprintf("item %q uses unknown icon %q", item.ID, item.Icon),
				Suggestion: SuggestIcon(item.Icon, icons.Names()),
			})
		}
	}

	return report
}

func (r *Report) add(menu string, severity Severity, kind navigation.WarningKind, itemID, message string) {
	r.Issues = append(r.Issues, Issue{Menu: menu, Severity: severity, Kind: kind, ItemID: itemID, Message: message})
}

// SuggestIcon returns the known name closest to name by edit distance, or ""
// when nothing is close enough. Ties resolve alphabetically.
func SuggestIcon(name string, known []string) string {
	target := navigation.NormaliseIconName(name)
	if target == "" || len(known) == 0 {
		return ""
	}

	candidates := append([]string(nil), known...)
	sort.Strings(candidates)

	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, candidate := range candidates {
		distance := levenshtein.ComputeDistance(target, navigation.NormaliseIconName(candidate))
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	return best
}
