package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/render"
)

// row addresses a visible line of the sidebar: a section, or one of an
// expanded group's items when item >= 0.
type row struct {
	section int
	item    int
}

// Browse is an interactive admin sidebar. Groups follow the same single-open
// rule as the web sidebar; following an internal link moves the active path.
type Browse struct {
	theme   Theme
	menu    string
	roots   []*navigation.Node
	icons   render.IconResolver
	path    string
	sidebar render.Sidebar
	cursor  int
	status  string
}

// NewBrowse mounts the sidebar with every group collapsed.
func NewBrowse(menu string, roots []*navigation.Node, currentPath string, icons render.IconResolver, theme Theme) Browse {
	if icons == nil {
		icons = navigation.DefaultIconTable()
	}
	return Browse{
		theme:   theme,
		menu:    menu,
		roots:   roots,
		icons:   icons,
		path:    currentPath,
		sidebar: render.NewSidebar(roots, currentPath, nil, icons),
	}
}

// Sidebar returns the current view model.
func (m Browse) Sidebar() render.Sidebar {
	return m.sidebar
}

// Path returns the active path.
func (m Browse) Path() string {
	return m.path
}

// Status returns the last feedback line.
func (m Browse) Status() string {
	return m.status
}

func (m Browse) Init() tea.Cmd {
	return nil
}

func (m Browse) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.rows())-1, 0)
	case "enter", " ":
		m = m.activate()
	}
	return m, nil
}

func (m Browse) activate() Browse {
	rows := m.rows()
	if m.cursor >= len(rows) {
		return m
	}
	r := rows[m.cursor]
	section := m.sidebar.Sections[r.section]

	if r.item >= 0 {
		return m.follow(section.Items[r.item])
	}
	if !section.Group {
		return m.follow(section.Link)
	}

	m.sidebar = m.sidebar.Toggle(section.ID)
	if m.sidebar.State.IsOpen(section.ID) {
		m.status = fmt.Sprintf("expanded %s", section.Title)
	} else {
		m.status = fmt.Sprintf("collapsed %s", section.Title)
	}
	// Collapsing a group above the cursor shifts rows; keep the cursor on
	// the group that was clicked.
	for i, candidate := range m.rows() {
		if candidate.section == r.section && candidate.item < 0 {
			m.cursor = i
			break
		}
	}
	return m
}

func (m Browse) follow(link render.Link) Browse {
	switch {
	case !link.IsLink():
		m.status = fmt.Sprintf("%s has no link", link.Title)
	case link.NewTab:
		m.status = fmt.Sprintf("%s opens %s in a new tab", link.Title, link.URL)
	default:
		m.path = link.URL
		m.sidebar = render.NewSidebar(m.roots, m.path, m.sidebar.State, m.icons)
		m.status = fmt.Sprintf("navigated to %s", link.URL)
	}
	return m
}

func (m Browse) rows() []row {
	var rows []row
	for i, section := range m.sidebar.Sections {
		rows = append(rows, row{section: i, item: -1})
		if section.Group && section.Expanded {
			for j := range section.Items {
				rows = append(rows, row{section: i, item: j})
			}
		}
	}
	return rows
}

func (m Browse) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.menu))
	if m.path != "" {
		b.WriteString(" " + m.theme.URL.Render(m.path))
	}
	b.WriteString("\n\n")

	for i, r := range m.rows() {
		cursor := "  "
		if i == m.cursor {
			cursor = m.theme.Cursor.Render("› ")
		}
		section := m.sidebar.Sections[r.section]
		if r.item >= 0 {
			b.WriteString(cursor + "    " + m.linkLabel(section.Items[r.item]) + "\n")
			continue
		}
		marker := "  "
		if section.Group {
			marker = "▸ "
			if section.Expanded {
				marker = "▾ "
			}
		}
		label := m.linkLabel(section.Link)
		if section.Group {
			label = m.theme.Group.Render(section.Glyph.Rune + " " + section.Title)
		}
		b.WriteString(cursor + marker + label + "\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.theme.Help.Render("↑/↓ move • enter toggle or open • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Browse) linkLabel(link render.Link) string {
	label := link.Glyph.Rune + " " + link.Title
	switch {
	case link.Active:
		label = m.theme.Active.Render(label)
	case link.External:
		label = m.theme.External.Render(label)
	default:
		label = m.theme.Link.Render(label)
	}
	if link.NewTab {
		label += " " + m.theme.External.Render(externalMarker)
	}
	return label
}
