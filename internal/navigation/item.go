// Package navigation turns flat, parent-referencing menu records into ordered
// trees and holds the small pure helpers the renderers share: visibility
// filtering, icon resolution, active-path matching and sidebar group state.
package navigation

import (
	"fmt"
	"strings"
)

// Kind classifies what a menu item points at.
type Kind string

const (
	KindInternal Kind = "internal"
	KindExternal Kind = "external"
	KindCategory Kind = "category"
)

// Status controls whether an item participates in builds.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Target describes how an internal link opens.
type Target string

const (
	TargetSelf  Target = "_self"
	TargetBlank Target = "_blank"
)

// ParseKind validates a kind name, defaulting empty input to KindInternal.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case "", KindInternal:
		return KindInternal, nil
	case KindExternal:
		return KindExternal, nil
	case KindCategory:
		return KindCategory, nil
	default:
		return "", fmt.Errorf("navigation: unknown kind %q", value)
	}
}

// ParseStatus validates a status name, defaulting empty input to StatusActive.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", fmt.Errorf("navigation: unknown status %q", value)
	}
}

// ParseTarget validates a link target, defaulting empty input to TargetSelf.
func ParseTarget(value string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(value))) {
	case "", TargetSelf, "self", "same":
		return TargetSelf, nil
	case TargetBlank, "blank", "new":
		return TargetBlank, nil
	default:
		return "", fmt.Errorf("navigation: unknown target %q", value)
	}
}

// Item is a single navigation entry in flat record form. It deliberately has
// no children field: children only exist on the Node values Build produces.
type Item struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Kind     Kind    `json:"kind"`
	ParentID *string `json:"parent_id,omitempty"`
	Order    int     `json:"order"`
	Icon     string  `json:"icon,omitempty"`
	Visible  bool    `json:"visible"`
	Status   Status  `json:"status"`
	Target   Target  `json:"target,omitempty"`
}

// Parent returns the declared parent id, or "" for root items.
func (i Item) Parent() string {
	if i.ParentID == nil {
		return ""
	}
	return strings.TrimSpace(*i.ParentID)
}

// HasParent reports whether the item declares a parent.
func (i Item) HasParent() bool {
	return i.Parent() != ""
}

// Participates reports whether the item itself is visible and active.
func (i Item) Participates() bool {
	return i.Visible && i.Status == StatusActive
}

// IsLink reports whether activating the item navigates somewhere.
func (i Item) IsLink() bool {
	return i.Kind != KindCategory && strings.TrimSpace(i.URL) != ""
}

// OpensInNewTab reports whether the link should open in a new browsing context.
// External links always do; internal links follow their target.
func (i Item) OpensInNewTab() bool {
	switch i.Kind {
	case KindExternal:
		return true
	case KindInternal:
		return i.Target == TargetBlank
	default:
		return false
	}
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	cpy := i
	if i.ParentID != nil {
		parent := *i.ParentID
		cpy.ParentID = &parent
	}
	return cpy
}

// ParentRef is a convenience for building items with a parent.
func ParentRef(id string) *string {
	return &id
}

// Node is a built menu entry carrying its ordered children.
type Node struct {
	Item
	Children []*Node `json:"children"`
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Walk visits the node and its descendants depth-first in display order.
// Returning false from fn stops the walk.
func Walk(roots []*Node, fn func(node *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.node == nil {
			continue
		}
		if !fn(top.node, top.depth) {
			return
		}
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.Children[i], depth: top.depth + 1})
		}
	}
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	Walk(roots, func(*Node, int) bool {
		total++
		return true
	})
	return total
}
