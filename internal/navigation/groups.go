package navigation

import "sort"

// GroupState maps sidebar group ids to their expanded flag. It is owned by
// whatever renders the group list and is rebuilt on every mount; the zero
// value (nil) means every group is collapsed.
type GroupState map[string]bool

// NewGroupState returns a state with every listed group collapsed.
func NewGroupState(ids ...string) GroupState {
	state := make(GroupState, len(ids))
	for _, id := range ids {
		state[id] = false
	}
	return state
}

// Toggle returns the state after the user clicks group id: every other group
// is collapsed, then id flips its previous value. At most one group is
// therefore expanded, and clicking the open group leaves all groups closed.
// The receiver is not modified.
func (s GroupState) Toggle(id string) GroupState {
	next := make(GroupState, len(s)+1)
	for key := range s {
		next[key] = false
	}
	next[id] = !s[id]
	return next
}

// IsOpen reports whether group id is expanded.
func (s GroupState) IsOpen(id string) bool {
	return s[id]
}

// Open returns the expanded group, if any.
func (s GroupState) Open() (string, bool) {
	keys := make([]string, 0, len(s))
	for key, open := range s {
		if open {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	return keys[0], true
}

// Restrict returns a copy containing only the listed group ids, keeping their
// current flags and collapsing ids the state did not know about.
func (s GroupState) Restrict(ids []string) GroupState {
	next := make(GroupState, len(ids))
	for _, id := range ids {
		next[id] = s[id]
	}
	return next
}
