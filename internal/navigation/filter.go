package navigation

// Filter returns the items that take part in a build: the item must be
// visible and active, and so must every resolvable ancestor. Hiding or
// deactivating a parent therefore removes its whole subtree. Items whose
// parent cannot be resolved are kept; Build decides what to do with them.
// The input slice is not modified.
func Filter(items []Item) []Item {
	byID := make(map[string]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	memo := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if participates(item, byID, memo) {
			out = append(out, item)
		}
	}
	return out
}

func participates(item Item, byID map[string]Item, memo map[string]bool) bool {
	if !item.Participates() {
		return false
	}

	chain := []string{item.ID}
	seen := map[string]struct{}{item.ID: {}}
	result := true

	current := item
	for {
		parentID := current.Parent()
		if parentID == "" {
			break
		}
		if known, ok := memo[parentID]; ok {
			result = known
			break
		}
		parent, ok := byID[parentID]
		if !ok {
			break
		}
		if _, loop := seen[parentID]; loop {
			break
		}
		if !parent.Participates() {
			memo[parentID] = false
			result = false
			break
		}
		seen[parentID] = struct{}{}
		chain = append(chain, parentID)
		current = parent
	}

	for _, id := range chain {
		memo[id] = result
	}
	return result
}
