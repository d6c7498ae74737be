// Package render turns built navigation trees into the view models and HTML
// fragments served to the desktop header, the mobile drawer and the admin
// sidebar.
package render

import (
	"github.com/kidzstudio/examportal/internal/navigation"
)

// IconResolver maps symbolic icon names to glyphs. Unknown names must still
// return a drawable glyph; the boolean reports whether the name was known.
// *navigation.IconTable satisfies it.
type IconResolver interface {
	Resolve(name string) (navigation.Glyph, bool)
}

const relExternal = "noopener noreferrer"

// Link is the view model shared by every navigation surface.
type Link struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	URL      string           `json:"url,omitempty"`
	Kind     navigation.Kind  `json:"kind"`
	Glyph    navigation.Glyph `json:"glyph"`
	Active   bool             `json:"active"`
	NewTab   bool             `json:"new_tab"`
	Rel      string           `json:"rel,omitempty"`
	External bool             `json:"external"`
}

// IsLink reports whether activating the entry navigates.
func (l Link) IsLink() bool {
	return l.URL != ""
}

// Target returns the anchor target attribute value, or "" for same-tab links.
func (l Link) Target() string {
	if l.NewTab {
		return string(navigation.TargetBlank)
	}
	return ""
}

func newLink(node *navigation.Node, currentPath string, icons IconResolver) Link {
	link := Link{
		ID:       node.ID,
		Title:    node.Title,
		Kind:     node.Kind,
		Glyph:    resolveGlyph(icons, node.Icon),
		External: node.Kind == navigation.KindExternal,
	}
	if node.IsLink() {
		link.URL = node.URL
		link.Active = navigation.IsActive(currentPath, node.URL)
		link.NewTab = node.OpensInNewTab()
	}
	if link.External || link.NewTab {
		link.Rel = relExternal
	}
	return link
}

func resolveGlyph(icons IconResolver, name string) navigation.Glyph {
	if icons == nil {
		icons = navigation.DefaultIconTable()
	}
	glyph, _ := icons.Resolve(name)
	return glyph
}
