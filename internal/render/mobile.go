package render

import (
	"errors"
	"fmt"

	"github.com/kidzstudio/examportal/internal/navigation"
)

// ErrUnknownEntry is returned when activating an id the drawer does not list.
var ErrUnknownEntry = errors.New("render: unknown navigation entry")

// Navigator performs navigation requests on behalf of the drawer. The host
// router owns history and url state.
type Navigator interface {
	Navigate(url string, newTab bool) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string, newTab bool) error

// Navigate calls f.
func (f NavigatorFunc) Navigate(url string, newTab bool) error {
	return f(url, newTab)
}

// MobileEntry is one row of the drawer list.
type MobileEntry struct {
	Link
	Depth int `json:"depth"`
}

// Mobile is the slide-in drawer: a flat, always expanded list where every
// parent is followed by its indented children. The drawer opens and closes as
// a unit.
type Mobile struct {
	Entries []MobileEntry `json:"entries"`
	Open    bool          `json:"open"`
}

// NewMobile builds a closed drawer for the tree.
func NewMobile(roots []*navigation.Node, currentPath string, icons IconResolver) *Mobile {
	mobile := &Mobile{Entries: make([]MobileEntry, 0, navigation.Count(roots))}
	for _, root := range roots {
		if root == nil {
			continue
		}
		mobile.Entries = append(mobile.Entries, MobileEntry{Link: newLink(root, currentPath, icons)})
		for _, child := range root.Children {
			mobile.Entries = append(mobile.Entries, MobileEntry{Link: newLink(child, currentPath, icons), Depth: 1})
		}
	}
	return mobile
}

// Toggle opens a closed drawer or closes an open one.
func (m *Mobile) Toggle() {
	m.Open = !m.Open
}

// Close closes the drawer.
func (m *Mobile) Close() {
	m.Open = false
}

// Activate handles a click on entry id. Links close the drawer before the
// navigation request is forwarded; category rows do nothing.
func (m *Mobile) Activate(id string, nav Navigator) error {
	for _, entry := range m.Entries {
		if entry.ID != id {
			continue
		}
		if !entry.IsLink() {
			return nil
		}
		m.Close()
		if nav == nil {
			return nil
		}
		if err := nav.Navigate(entry.URL, entry.NewTab); err != nil {
			return fmt.Errorf("render: navigate to %q: %w", entry.URL, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownEntry, id)
}
