package navigation

import (
	"fmt"
	"sort"
	"strings"
)

// Icon is the enumerated set of glyphs the navigation surfaces know how to draw.
type Icon int

const (
	IconDefault Icon = iota
	IconHome
	IconDashboard
	IconExam
	IconQuiz
	IconQuestion
	IconPracticeSet
	IconCategory
	IconUsers
	IconUserGroups
	IconSettings
	IconChart
	IconBook
	IconPage
	IconMenu
	IconFolder
	IconCalendar
	IconTrophy
	IconHelp
	IconExternal
	IconLogout
)

// Glyph is the drawable form of an icon: Rune for terminals, Path as SVG path
// data on a 24x24 viewbox for HTML.
type Glyph struct {
	Name string `json:"name"`
	Rune string `json:"rune"`
	Path string `json:"path"`
}

// DefaultGlyph is drawn for every icon name that cannot be resolved.
var DefaultGlyph = Glyph{Name: "dot", Rune: "•", Path: "M12 9a3 3 0 1 0 0 6a3 3 0 1 0 0-6z"}

var iconNames = map[Icon]string{
	IconDefault:     "default",
	IconHome:        "home",
	IconDashboard:   "dashboard",
	IconExam:        "exam",
	IconQuiz:        "quiz",
	IconQuestion:    "question",
	IconPracticeSet: "practice-set",
	IconCategory:    "category",
	IconUsers:       "users",
	IconUserGroups:  "user-groups",
	IconSettings:    "settings",
	IconChart:       "chart",
	IconBook:        "book",
	IconPage:        "page",
	IconMenu:        "menu",
	IconFolder:      "folder",
	IconCalendar:    "calendar",
	IconTrophy:      "trophy",
	IconHelp:        "help",
	IconExternal:    "external",
	IconLogout:      "logout",
}

// aliases map normalised names used by front-end icon packs onto icons.
var aliases = map[string]Icon{
	"house":           IconHome,
	"layoutdashboard": IconDashboard,
	"gauge":           IconDashboard,
	"clipboardlist":   IconExam,
	"clipboardcheck":  IconExam,
	"filequestion":    IconQuiz,
	"listchecks":      IconQuiz,
	"circlehelp":      IconQuestion,
	"messagequestion": IconQuestion,
	"dumbbell":        IconPracticeSet,
	"layers":          IconCategory,
	"tags":            IconCategory,
	"user":            IconUsers,
	"usersround":      IconUsers,
	"group":           IconUserGroups,
	"cog":             IconSettings,
	"gear":            IconSettings,
	"barchart":        IconChart,
	"linechart":       IconChart,
	"analytics":       IconChart,
	"bookopen":        IconBook,
	"filetext":        IconPage,
	"file":            IconPage,
	"list":            IconMenu,
	"folderopen":      IconFolder,
	"award":           IconTrophy,
	"medal":           IconTrophy,
	"helpcircle":      IconHelp,
	"lifebuoy":        IconHelp,
	"externallink":    IconExternal,
	"link":            IconExternal,
	"signout":         IconLogout,
}

func (i Icon) String() string {
	if name, ok := iconNames[i]; ok {
		return name
	}
	return iconNames[IconDefault]
}

// Glyph returns the glyph for the icon. Unknown values use DefaultGlyph.
func (i Icon) Glyph() Glyph {
	switch i {
	case IconHome:
		return Glyph{Name: "home", Rune: "⌂", Path: "M3 10l9-7 9 7v10a1 1 0 0 1-1 1h-5v-6H9v6H4a1 1 0 0 1-1-1z"}
	case IconDashboard:
		return Glyph{Name: "dashboard", Rune: "▦", Path: "M3 3h8v8H3zM13 3h8v5h-8zM13 10h8v11h-8zM3 13h8v8H3z"}
	case IconExam:
		return Glyph{Name: "exam", Rune: "✎", Path: "M9 2h6v3H9zM5 4h3v2h8V4h3v18H5zM8 11h8M8 15h6"}
	case IconQuiz:
		return Glyph{Name: "quiz", Rune: "?", Path: "M4 4h16v16H4zM8 9h8M8 13h5M8 17h3"}
	case IconQuestion:
		return Glyph{Name: "question", Rune: "¿", Path: "M12 2a10 10 0 1 0 0 20a10 10 0 1 0 0-20zM9 9a3 3 0 1 1 4 2.8c-.6.3-1 .9-1 1.6V15M12 18h.01"}
	case IconPracticeSet:
		return Glyph{Name: "practice-set", Rune: "≡", Path: "M4 6h16M4 12h16M4 18h10"}
	case IconCategory:
		return Glyph{Name: "category", Rune: "◇", Path: "M12 2l10 5-10 5L2 7zM2 12l10 5 10-5M2 17l10 5 10-5"}
	case IconUsers:
		return Glyph{Name: "users", Rune: "☺", Path: "M9 11a4 4 0 1 0 0-8a4 4 0 0 0 0 8zM2 21v-2a5 5 0 0 1 5-5h4a5 5 0 0 1 5 5v2"}
	case IconUserGroups:
		return Glyph{Name: "user-groups", Rune: "☻", Path: "M7 11a3 3 0 1 0 0-6a3 3 0 0 0 0 6zM17 11a3 3 0 1 0 0-6a3 3 0 0 0 0 6zM1 20a6 6 0 0 1 12 0M11 20a6 6 0 0 1 12 0"}
	case IconSettings:
		return Glyph{Name: "settings", Rune: "⚙", Path: "M12 8a4 4 0 1 0 0 8a4 4 0 0 0 0-8zM12 1v3M12 20v3M4.2 4.2l2.1 2.1M17.7 17.7l2.1 2.1M1 12h3M20 12h3"}
	case IconChart:
		return Glyph{Name: "chart", Rune: "▤", Path: "M3 3v18h18M7 16v-5M12 16V8M17 16v-9"}
	case IconBook:
		return Glyph{Name: "book", Rune: "▯", Path: "M4 19.5A2.5 2.5 0 0 1 6.5 17H20V3H6.5A2.5 2.5 0 0 0 4 5.5zM6.5 17A2.5 2.5 0 0 0 4 19.5A2.5 2.5 0 0 0 6.5 22H20v-5"}
	case IconPage:
		return Glyph{Name: "page", Rune: "▭", Path: "M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8zM14 2v6h6"}
	case IconMenu:
		return Glyph{Name: "menu", Rune: "☰", Path: "M3 6h18M3 12h18M3 18h18"}
	case IconFolder:
		return Glyph{Name: "folder", Rune: "▱", Path: "M3 6a2 2 0 0 1 2-2h4l2 2h8a2 2 0 0 1 2 2v10a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2z"}
	case IconCalendar:
		return Glyph{Name: "calendar", Rune: "▣", Path: "M3 5h18v16H3zM16 3v4M8 3v4M3 10h18"}
	case IconTrophy:
		return Glyph{Name: "trophy", Rune: "★", Path: "M8 21h8M12 17v4M7 4h10v5a5 5 0 0 1-10 0zM17 5h3v2a3 3 0 0 1-3 3M7 5H4v2a3 3 0 0 0 3 3"}
	case IconHelp:
		return Glyph{Name: "help", Rune: "ⓘ", Path: "M12 2a10 10 0 1 0 0 20a10 10 0 1 0 0-20zM12 16v-4M12 8h.01"}
	case IconExternal:
		return Glyph{Name: "external", Rune: "↗", Path: "M14 3h7v7M10 14L21 3M19 14v5a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V7a2 2 0 0 1 2-2h5"}
	case IconLogout:
		return Glyph{Name: "logout", Rune: "⇥", Path: "M9 21H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2h4M16 17l5-5-5-5M21 12H9"}
	default:
		return DefaultGlyph
	}
}

// NormaliseIconName lower-cases the name and strips separators so "LayoutDashboard",
// "layout-dashboard" and "layout_dashboard" compare equal.
func NormaliseIconName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case '-', '_', ' ', '.':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var byNormalisedName = func() map[string]Icon {
	out := make(map[string]Icon, len(iconNames)+len(aliases))
	for icon, name := range iconNames {
		if icon == IconDefault {
			continue
		}
		out[NormaliseIconName(name)] = icon
	}
	for alias, icon := range aliases {
		out[alias] = icon
	}
	return out
}()

// ParseIcon resolves a symbolic icon name. Unknown names return IconDefault and false.
func ParseIcon(name string) (Icon, bool) {
	icon, ok := byNormalisedName[NormaliseIconName(name)]
	if !ok {
		return IconDefault, false
	}
	return icon, true
}

// Icons lists every drawable icon in declaration order, excluding IconDefault.
func Icons() []Icon {
	out := make([]Icon, 0, len(iconNames)-1)
	for icon := IconHome; icon <= IconLogout; icon++ {
		out = append(out, icon)
	}
	return out
}

// IconTable is the host-supplied name to glyph resolution table. It layers
// host aliases over the built-in icons and falls back to a fixed glyph.
type IconTable struct {
	aliases  map[string]Icon
	fallback Glyph
}

// NewIconTable builds a table. Aliases map extra names onto built-in icon
// names (for example "award" -> "trophy"); aliases naming an unknown icon are
// ignored and returned so the caller can report them. An empty fallback name
// keeps DefaultGlyph.
func NewIconTable(extra map[string]string, fallback string) (*IconTable, []string) {
	table := &IconTable{
		aliases:  make(map[string]Icon, len(extra)),
		fallback: DefaultGlyph,
	}

	var rejected []string
	for alias, target := range extra {
		icon, ok := ParseIcon(target)
		if !ok {
			rejected = append(rejected, alias)
			continue
		}
		table.aliases[NormaliseIconName(alias)] = icon
	}
	sort.Strings(rejected)

	if strings.TrimSpace(fallback) != "" {
		if icon, ok := ParseIcon(fallback); ok {
			table.fallback = icon.Glyph()
		} else {
			rejected = append(rejected, fallback)
		}
	}

	return table, rejected
}

// DefaultIconTable resolves only the built-in names.
func DefaultIconTable() *IconTable {
	table, _ := NewIconTable(nil, "")
	return table
}

// Resolve returns the glyph for name and whether the name was known.
// Unknown names resolve to the table's fallback glyph.
func (t *IconTable) Resolve(name string) (Glyph, bool) {
	if t == nil {
		t = DefaultIconTable()
	}
	if icon, ok := t.aliases[NormaliseIconName(name)]; ok {
		return icon.Glyph(), true
	}
	if icon, ok := ParseIcon(name); ok {
		return icon.Glyph(), true
	}
	return t.fallback, false
}

// Fallback returns the glyph used for unknown names.
func (t *IconTable) Fallback() Glyph {
	if t == nil {
		return DefaultGlyph
	}
	return t.fallback
}

// Names returns every resolvable name (canonical names and aliases), sorted.
func (t *IconTable) Names() []string {
	seen := make(map[string]struct{}, len(byNormalisedName))
	for name := range byNormalisedName {
		seen[name] = struct{}{}
	}
	if t != nil {
		for name := range t.aliases {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckIcons reports every node in roots whose icon name the table cannot
// resolve. Items without an icon are not reported.
func CheckIcons(roots []*Node, table *IconTable) []Warning {
	var warnings []Warning
	Walk(roots, func(node *Node, _ int) bool {
		if strings.TrimSpace(node.Icon) == "" {
			return true
		}
		if _, ok := table.Resolve(node.Icon); !ok {
			warnings = append(warnings, Warning{
				Kind:    WarnUnknownIcon,
				ItemID:  node.ID,
				Ref:     node.Icon,
				Message: fmt.Sprintf("item %q uses unknown icon %q", node.ID, node.Icon),
			})
		}
		return true
	})
	return warnings
}
