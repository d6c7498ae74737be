package tui

import (
	"fmt"
	"strings"

	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/render"
)

const externalMarker = "↗"

// TreeOptions controls RenderTree.
type TreeOptions struct {
	Theme       Theme
	Icons       render.IconResolver
	CurrentPath string
	ShowURLs    bool
}

// RenderTree prints the forest with box-drawing connectors, one node per line
// in display order. The node whose URL matches CurrentPath is highlighted.
func RenderTree(roots []*navigation.Node, opts TreeOptions) string {
	if opts.Icons == nil {
		opts.Icons = navigation.DefaultIconTable()
	}
	var b strings.Builder
	writeNodes(&b, roots, "", opts)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []*navigation.Node, prefix string, opts TreeOptions) {
	for i, node := range nodes {
		if node == nil {
			continue
		}
		connector, indent := "├── ", "│   "
		if i == len(nodes)-1 {
			connector, indent = "└── ", "    "
		}
		b.WriteString(opts.Theme.Branch.Render(prefix + connector))
		b.WriteString(nodeLabel(node, opts))
		b.WriteByte('\n')
		writeNodes(b, node.Children, prefix+indent, opts)
	}
}

func nodeLabel(node *navigation.Node, opts TreeOptions) string {
	glyph, _ := opts.Icons.Resolve(node.Icon)
	label := glyph.Rune + " " + node.Title

	style := opts.Theme.Link
	switch {
	case node.IsLink() && navigation.IsActive(opts.CurrentPath, node.URL):
		style = opts.Theme.Active
	case node.HasChildren() || node.Kind == navigation.KindCategory:
		style = opts.Theme.Group
	case node.Kind == navigation.KindExternal:
		style = opts.Theme.External
	}
	out := style.Render(label)

	if node.OpensInNewTab() {
		out += " " + opts.Theme.External.Render(externalMarker)
	}
	if opts.ShowURLs && node.IsLink() {
		out += "  " + opts.Theme.URL.Render(node.URL)
	}
	return out
}

// RenderWarnings lists build warnings, one per line.
func RenderWarnings(warnings []navigation.Warning, theme Theme) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(theme.Warning.Render(fmt.Sprintf("warning [%s]: %s", w.Kind, w.Message)))
		b.WriteByte('\n')
	}
	return b.String()
}
