package render

import "github.com/kidzstudio/examportal/internal/navigation"

// SidebarSection is a root of the admin sidebar. Roots with children are
// collapsible groups; the rest are direct links.
type SidebarSection struct {
	Link
	Group    bool   `json:"group"`
	Expanded bool   `json:"expanded"`
	Items    []Link `json:"items,omitempty"`
}

// Sidebar is the admin shell navigation.
type Sidebar struct {
	Sections []SidebarSection     `json:"sections"`
	State    navigation.GroupState `json:"state"`
}

// NewSidebar builds the sidebar. The group state is restricted to the groups
// present in the tree; unknown ids start collapsed.
func NewSidebar(roots []*navigation.Node, currentPath string, state navigation.GroupState, icons IconResolver) Sidebar {
	sections := make([]SidebarSection, 0, len(roots))
	groups := GroupIDs(roots)
	state = state.Restrict(groups)

	for _, root := range roots {
		if root == nil {
			continue
		}
		section := SidebarSection{Link: newLink(root, currentPath, icons)}
		if root.HasChildren() {
			section.Group = true
			section.Expanded = state.IsOpen(root.ID)
			for _, child := range root.Children {
				section.Items = append(section.Items, newLink(child, currentPath, icons))
			}
		}
		sections = append(sections, section)
	}
	return Sidebar{Sections: sections, State: state}
}

// Toggle applies a click on group id and returns the rebuilt sidebar.
func (s Sidebar) Toggle(id string) Sidebar {
	state := s.State.Toggle(id)
	sections := make([]SidebarSection, len(s.Sections))
	for i, section := range s.Sections {
		if section.Group {
			section.Expanded = state.IsOpen(section.ID)
		}
		sections[i] = section
	}
	return Sidebar{Sections: sections, State: state}
}

// GroupIDs lists the ids of roots that form sidebar groups, in display order.
func GroupIDs(roots []*navigation.Node) []string {
	ids := make([]string, 0, len(roots))
	for _, root := range roots {
		if root.HasChildren() {
			ids = append(ids, root.ID)
		}
	}
	return ids
}
