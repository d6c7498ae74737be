package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/kidzstudio/examportal/internal/navigation"
)

const templatePattern = "templates/*.tmpl"

// Renderer renders navigation view models to HTML fragments.
type Renderer struct {
	templates *template.Template
	icons     IconResolver
}

// NewRenderer parses the navigation templates from fsys. A nil icon resolver
// uses the built-in icon table.
func NewRenderer(fsys fs.FS, icons IconResolver) (*Renderer, error) {
	if fsys == nil {
		return nil, fmt.Errorf("render: template filesystem is required")
	}
	if icons == nil {
		icons = navigation.DefaultIconTable()
	}

	tmpl, err := template.New("navigation").ParseFS(fsys, templatePattern)
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	for _, name := range []string{"desktop", "mobile", "sidebar"} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("render: template %q not defined", name)
		}
	}

	return &Renderer{templates: tmpl, icons: icons}, nil
}

// Icons returns the resolver used for glyph lookups.
func (r *Renderer) Icons() IconResolver {
	return r.icons
}

// Desktop renders the header navigation.
func (r *Renderer) Desktop(roots []*navigation.Node, currentPath string) ([]byte, error) {
	return r.execute("desktop", NewDesktop(roots, currentPath, r.icons))
}

// Mobile renders the drawer, open or closed.
func (r *Renderer) Mobile(roots []*navigation.Node, currentPath string, open bool) ([]byte, error) {
	drawer := NewMobile(roots, currentPath, r.icons)
	drawer.Open = open
	return r.execute("mobile", drawer)
}

// Sidebar renders the admin sidebar with the given group state.
func (r *Renderer) Sidebar(roots []*navigation.Node, currentPath string, state navigation.GroupState) ([]byte, error) {
	return r.execute("sidebar", NewSidebar(roots, currentPath, state, r.icons))
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render: execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
