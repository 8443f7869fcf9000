package element

// Selection is a set of element ids. Membership is by id, so an element
// stays selected while it is edited.
type Selection struct {
	ids   map[string]struct{}
	order []string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Set replaces the selection.
func (sel *Selection) Set(ids ...string) {
	sel.Clear()
	for _, id := range ids {
		sel.Add(id)
	}
}

// Add inserts id if absent.
func (sel *Selection) Add(id string) {
	if _, ok := sel.ids[id]; ok || id == "" {
		return
	}
	sel.ids[id] = struct{}{}
	sel.order = append(sel.order, id)
}

// Remove drops id.
func (sel *Selection) Remove(id string) {
	if _, ok := sel.ids[id]; !ok {
		return
	}
	delete(sel.ids, id)
	for i, o := range sel.order {
		if o == id {
			sel.order = append(sel.order[:i], sel.order[i+1:]...)
			break
		}
	}
}

// Toggle flips id's membership.
func (sel *Selection) Toggle(id string) {
	if sel.Contains(id) {
		sel.Remove(id)
	} else {
		sel.Add(id)
	}
}

// Contains reports membership.
func (sel *Selection) Contains(id string) bool {
	_, ok := sel.ids[id]
	return ok
}

// IDs returns the members in selection order.
func (sel *Selection) IDs() []string {
	out := make([]string, len(sel.order))
	copy(out, sel.order)
	return out
}

func (sel *Selection) Len() int { return len(sel.order) }

// Clear empties the selection.
func (sel *Selection) Clear() {
	sel.ids = make(map[string]struct{})
	sel.order = nil
}

// Prune drops ids for which exists reports false.
func (sel *Selection) Prune(exists func(id string) bool) {
	for _, id := range sel.IDs() {
		if !exists(id) {
			sel.Remove(id)
		}
	}
}

// Rename follows an id change.
func (sel *Selection) Rename(oldID, newID string) {
	if !sel.Contains(oldID) {
		return
	}
	delete(sel.ids, oldID)
	sel.ids[newID] = struct{}{}
	for i, o := range sel.order {
		if o == oldID {
			sel.order[i] = newID
		}
	}
}
