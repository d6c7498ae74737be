package navigation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// OrphanPolicy decides what happens to items whose parent cannot be resolved.
type OrphanPolicy int

const (
	// OrphanDrop leaves orphans (and their subtrees) out of the tree.
	OrphanDrop OrphanPolicy = iota
	// OrphanPromote places orphans at the root level.
	OrphanPromote
)

func (p OrphanPolicy) String() string {
	switch p {
	case OrphanPromote:
		return "promote"
	default:
		return "drop"
	}
}

// ParseOrphanPolicy parses "drop" or "promote"; empty input means drop.
func ParseOrphanPolicy(value string) (OrphanPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "drop":
		return OrphanDrop, nil
	case "promote":
		return OrphanPromote, nil
	default:
		return OrphanDrop, fmt.Errorf("navigation: unknown orphan policy %q", value)
	}
}

// WarningKind names a non-fatal configuration problem.
type WarningKind string

const (
	WarnUnresolvedParent WarningKind = "unresolved_parent"
	WarnDuplicateID      WarningKind = "duplicate_id"
	WarnUnreachable      WarningKind = "unreachable"
	WarnUnknownIcon      WarningKind = "unknown_icon"
)

var (
	ErrUnresolvedParent = errors.New("navigation: unresolved parent")
	ErrDuplicateID      = errors.New("navigation: duplicate id")
	ErrUnreachable      = errors.New("navigation: unreachable item")
	ErrUnknownIcon      = errors.New("navigation: unknown icon")
)

// Warning describes a problem found in the input records. Warnings never stop
// a build; Result.Err converts them into errors for strict callers.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	ItemID  string      `json:"item_id"`
	Ref     string      `json:"ref,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) Error() string {
	return w.Message
}

// Unwrap maps the warning onto its sentinel error.
func (w Warning) Unwrap() error {
	switch w.Kind {
	case WarnUnresolvedParent:
		return ErrUnresolvedParent
	case WarnDuplicateID:
		return ErrDuplicateID
	case WarnUnreachable:
		return ErrUnreachable
	case WarnUnknownIcon:
		return ErrUnknownIcon
	default:
		return nil
	}
}

// Result is the output of Build.
type Result struct {
	Roots    []*Node   `json:"roots"`
	Warnings []Warning `json:"warnings"`
}

// Err combines all warnings into a single error, or nil when there are none.
func (r Result) Err() error {
	var err error
	for _, w := range r.Warnings {
		err = multierr.Append(err, w)
	}
	return err
}

// Option customises Build.
type Option func(*buildConfig)

type buildConfig struct {
	orphans OrphanPolicy
}

// WithOrphanPolicy selects how unresolved parents are handled.
func WithOrphanPolicy(policy OrphanPolicy) Option {
	return func(cfg *buildConfig) {
		cfg.orphans = policy
	}
}

// Build turns a flat list of items into an ordered forest.
//
// The input is expected to be pre-filtered (see Filter) and is never modified:
// every node holds a clone of its record. Roots and every children list are
// sorted by Order ascending with ties kept in input order. When two records
// share an id the later one wins and takes the earlier one's position.
func Build(items []Item, opts ...Option) Result {
	cfg := buildConfig{orphans: OrphanDrop}
	for _, opt := range opts {
		opt(&cfg)
	}

	index := make(map[string]*Node, len(items))
	sequence := make([]*Node, 0, len(items))
	position := make(map[string]int, len(items))
	var warnings []Warning

	for _, item := range items {
		node := &Node{Item: item.Clone(), Children: []*Node{}}
		if at, exists := position[item.ID]; exists {
			warnings = append(warnings, Warning{
				Kind:    WarnDuplicateID,
				ItemID:  item.ID,
				Message: fmt.Sprintf("item %q is defined more than once; the last definition wins", item.ID),
			})
			sequence[at] = node
			index[item.ID] = node
			continue
		}
		position[item.ID] = len(sequence)
		sequence = append(sequence, node)
		index[item.ID] = node
	}

	roots := make([]*Node, 0, len(sequence))
	orphans := make(map[*Node]struct{})

	for _, node := range sequence {
		parentID := node.Parent()
		if parentID == "" {
			roots = append(roots, node)
			continue
		}

		parent, ok := index[parentID]
		if !ok {
			warnings = append(warnings, Warning{
				Kind:    WarnUnresolvedParent,
				ItemID:  node.ID,
				Ref:     parentID,
				Message: fmt.Sprintf("item %q references unknown parent %q", node.ID, parentID),
			})
			orphans[node] = struct{}{}
			if cfg.orphans == OrphanPromote {
				roots = append(roots, node)
			}
			continue
		}

		parent.Children = append(parent.Children, node)
	}

	sortByOrder(roots)

	reached := make(map[*Node]struct{}, len(sequence))
	Walk(roots, func(node *Node, _ int) bool {
		reached[node] = struct{}{}
		sortByOrder(node.Children)
		return true
	})

	for _, node := range sequence {
		if _, ok := reached[node]; ok {
			continue
		}
		if _, isOrphan := orphans[node]; isOrphan {
			continue
		}
		warnings = append(warnings, Warning{
			Kind:    WarnUnreachable,
			ItemID:  node.ID,
			Ref:     node.Parent(),
			Message: fmt.Sprintf("item %q is not reachable from any root (parent cycle or dropped ancestor)", node.ID),
		})
	}

	// Unreachable nodes may link to each other; cut them loose so nothing
	// outside the result can observe a cycle.
	for _, node := range sequence {
		if _, ok := reached[node]; !ok {
			node.Children = []*Node{}
		}
	}

	return Result{Roots: roots, Warnings: warnings}
}

// BuildStrict builds the tree and fails when any warning was produced.
func BuildStrict(items []Item, opts ...Option) (Result, error) {
	result := Build(items, opts...)
	return result, result.Err()
}

func sortByOrder(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
}
