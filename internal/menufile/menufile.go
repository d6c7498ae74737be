// Package menufile reads and writes YAML menu definition documents.
//
// A document lists menus; each menu lists items either flat (with explicit
// parent keys) or nested under a parent's children. Both forms flatten to the
// same navigation records.
package menufile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/pkg/validator"
)

// File is a menu definition document.
type File struct {
	Menus []Menu `yaml:"menus" json:"menus"`
}

// Menu is a named menu and its items.
type Menu struct {
	Slug        string `yaml:"slug" json:"slug"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Items       []Item `yaml:"items" json:"items"`
}

// Item is a menu entry as written in a definition file. Visible defaults to
// true when omitted.
type Item struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
	Kind     string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Parent   string `yaml:"parent,omitempty" json:"parent,omitempty"`
	Order    int    `yaml:"order,omitempty" json:"order,omitempty"`
	Icon     string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Visible  *bool  `yaml:"visible,omitempty" json:"visible,omitempty"`
	Status   string `yaml:"status,omitempty" json:"status,omitempty"`
	Target   string `yaml:"target,omitempty" json:"target,omitempty"`
	Children []Item `yaml:"children,omitempty" json:"children,omitempty"`
}

// Parse decodes a definition document. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a definition document from r.
func Decode(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file File
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("menufile: decode: %w", err)
	}
	return &file, nil
}

// ParseMenu decodes a single menu document, the shape used by the import
// endpoint. JSON input is accepted as YAML.
func ParseMenu(data []byte) (Menu, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var menu Menu
	if err := decoder.Decode(&menu); err != nil {
		if errors.Is(err, io.EOF) {
			return Menu{}, fmt.Errorf("menufile: empty menu document")
		}
		return Menu{}, fmt.Errorf("menufile: decode: %w", err)
	}
	return menu, nil
}

// Load reads a definition document from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("menufile: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadFS reads a definition document from fsys.
func LoadFS(fsys fs.FS, name string) (*File, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("menufile: read %s: %w", name, err)
	}
	return Parse(data)
}

// Marshal encodes the document as YAML with two-space indentation.
func Marshal(file *File) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return nil, fmt.Errorf("menufile: encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("menufile: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Menu returns the menu with the given slug.
func (f *File) Menu(slug string) (Menu, bool) {
	if f == nil {
		return Menu{}, false
	}
	for _, menu := range f.Menus {
		if menu.Slug == slug {
			return menu, true
		}
	}
	return Menu{}, false
}

// NavigationItems flattens the menu into navigation records in document
// order, parents before their nested children.
func (m Menu) NavigationItems() ([]navigation.Item, error) {
	var out []navigation.Item
	var errs []error

	var visit func(items []Item, parent string)
	visit = func(items []Item, parent string) {
		for _, item := range items {
			record, err := item.toNavigation(parent)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out = append(out, record)
			if len(item.Children) > 0 {
				visit(item.Children, record.ID)
			}
		}
	}
	visit(m.Items, "")

	if len(errs) > 0 {
		return nil, fmt.Errorf("menufile: menu %q: %w", m.Slug, multierr.Combine(errs...))
	}
	return out, nil
}

func (i Item) toNavigation(enclosing string) (navigation.Item, error) {
	id := strings.TrimSpace(i.ID)
	if id == "" {
		return navigation.Item{}, fmt.Errorf("item %q has no id", i.Title)
	}

	title := strings.TrimSpace(i.Title)
	if title == "" {
		return navigation.Item{}, fmt.Errorf("item %q has no title", id)
	}
	url := strings.TrimSpace(i.URL)
	if url != "" && !validator.IsMenuLink(url) {
		return navigation.Item{}, fmt.Errorf("item %q: url %q must be a path, a #fragment or an http, https or mailto URL", id, url)
	}

	kind, err := navigation.ParseKind(i.Kind)
	if err != nil {
		return navigation.Item{}, fmt.Errorf("item %q: %w", id, err)
	}
	status, err := navigation.ParseStatus(i.Status)
	if err != nil {
		return navigation.Item{}, fmt.Errorf("item %q: %w", id, err)
	}
	target, err := navigation.ParseTarget(i.Target)
	if err != nil {
		return navigation.Item{}, fmt.Errorf("item %q: %w", id, err)
	}

	parent := strings.TrimSpace(i.Parent)
	if enclosing != "" {
		if parent != "" && parent != enclosing {
			return navigation.Item{}, fmt.Errorf("item %q declares parent %q but is nested under %q", id, parent, enclosing)
		}
		parent = enclosing
	}

	record := navigation.Item{
		ID:      id,
		Title:   title,
		URL:     url,
		Kind:    kind,
		Order:   i.Order,
		Icon:    strings.TrimSpace(i.Icon),
		Visible: i.Visible == nil || *i.Visible,
		Status:  status,
		Target:  target,
	}
	if parent != "" {
		record.ParentID = navigation.ParentRef(parent)
	}
	return record, nil
}

// FromNavigation converts records into a flat definition menu. Defaults are
// omitted so exported files stay short.
func FromNavigation(slug, name, description string, items []navigation.Item) Menu {
	menu := Menu{Slug: slug, Name: name, Description: description, Items: make([]Item, 0, len(items))}
	for _, record := range items {
		item := Item{
			ID:     record.ID,
			Title:  record.Title,
			URL:    record.URL,
			Parent: record.Parent(),
			Order:  record.Order,
			Icon:   record.Icon,
		}
		if record.Kind != navigation.KindInternal {
			item.Kind = string(record.Kind)
		}
		if !record.Visible {
			hidden := false
			item.Visible = &hidden
		}
		if record.Status != "" && record.Status != navigation.StatusActive {
			item.Status = string(record.Status)
		}
		if record.Target == navigation.TargetBlank {
			item.Target = string(record.Target)
		}
		menu.Items = append(menu.Items, item)
	}
	return menu
}
