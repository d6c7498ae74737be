package render

import "github.com/kidzstudio/examportal/internal/navigation"

// DesktopEntry is a top-level header entry. Entries with a flyout render as a
// trigger that opens a panel listing the children; the rest are plain links.
type DesktopEntry struct {
	Link
	Flyout      []Link `json:"flyout,omitempty"`
	ChildActive bool   `json:"child_active"`
}

// HasFlyout reports whether the entry opens a flyout panel.
func (e DesktopEntry) HasFlyout() bool {
	return len(e.Flyout) > 0
}

// Desktop is the header navigation for wide layouts.
type Desktop struct {
	Entries []DesktopEntry `json:"entries"`
}

// NewDesktop builds the desktop view model. Only the first child level is
// shown; deeper descendants stay in the tree but are not rendered.
func NewDesktop(roots []*navigation.Node, currentPath string, icons IconResolver) Desktop {
	entries := make([]DesktopEntry, 0, len(roots))
	for _, root := range roots {
		if root == nil {
			continue
		}
		entry := DesktopEntry{Link: newLink(root, currentPath, icons)}
		for _, child := range root.Children {
			link := newLink(child, currentPath, icons)
			entry.ChildActive = entry.ChildActive || link.Active
			entry.Flyout = append(entry.Flyout, link)
		}
		entries = append(entries, entry)
	}
	return Desktop{Entries: entries}
}
