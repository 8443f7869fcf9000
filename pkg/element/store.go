package element

import (
	"log"
	"sort"

	"github.com/google/uuid"
)

// DuplicateOffset is how far copies are placed from their source.
const DuplicateOffset = 20

// LocalIDPrefix marks ids minted on the client that the server has not
// yet renamed.
const LocalIDPrefix = "local-"

// Origin says where a change came from.
type Origin int

const (
	OriginEdit    Origin = iota // user or collaborator edit
	OriginRestore               // history undo/redo
	OriginLoad                  // replaced by data from the remote store
	OriginView                  // page switch; no element changed
)

// Change is delivered to observers after every mutation.
type Change struct {
	Origin Origin
	IDs    []string
}

// Snapper rounds a canvas point, typically to the grid.
type Snapper func(x, y float64) (float64, float64)

// Store owns the ordered collection of elements. It is single-owner and
// not safe for concurrent use; every mutation goes through its methods.
type Store struct {
	elements  []Element
	seq       uint64
	page      int
	snap      Snapper
	clip      []Element
	pasteN    int
	observers []func(Change)
	newID     func() string
}

// NewStore returns an empty store editing page 1.
func NewStore() *Store {
	return &Store{
		page:  1,
		newID: func() string { return LocalIDPrefix + uuid.NewString() },
	}
}

// SetSnapper installs the function used to snap new element positions.
func (s *Store) SetSnapper(fn Snapper) { s.snap = fn }

// OnChange registers an observer called after each mutation.
func (s *Store) OnChange(fn func(Change)) {
	s.observers = append(s.observers, fn)
}

func (s *Store) emit(origin Origin, ids ...string) {
	c := Change{Origin: origin, IDs: ids}
	for _, fn := range s.observers {
		fn(c)
	}
}

// Page returns the page being edited.
func (s *Store) Page() int { return s.page }

// SetPage switches the page being edited.
func (s *Store) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.page = n
	s.emit(OriginView)
}

// Len returns the number of elements across all pages.
func (s *Store) Len() int { return len(s.elements) }

// All returns a copy of every element in insertion order.
func (s *Store) All() []Element {
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Elements returns the current page's elements in insertion order.
func (s *Store) Elements() []Element {
	var out []Element
	for _, e := range s.elements {
		if e.PageNumber == s.page {
			out = append(out, e)
		}
	}
	return out
}

// Sorted returns the current page's elements in paint order: ascending
// ZIndex, ties by insertion.
func (s *Store) Sorted() []Element {
	out := s.Elements()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex < out[j].ZIndex
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.elements {
		if s.elements[i].ID == id {
			return i
		}
	}
	return -1
}

// Resolve looks up an element by id. Every weak reference (ParentID and
// the like) is resolved through here.
func (s *Store) Resolve(id string) (Element, bool) {
	i := s.index(id)
	if i < 0 {
		return Element{}, false
	}
	return s.elements[i], true
}

// Parent resolves e's parent. A dangling reference reports false.
func (s *Store) Parent(e Element) (Element, bool) {
	if e.ParentID == "" {
		return Element{}, false
	}
	p, ok := s.Resolve(e.ParentID)
	if !ok {
		log.Printf("[STORE] element %s has dangling parent %s", e.ID, e.ParentID)
	}
	return p, ok
}

// Children returns the elements whose ParentID is id.
func (s *Store) Children(id string) []Element {
	var out []Element
	for _, e := range s.elements {
		if id != "" && e.ParentID == id {
			out = append(out, e)
		}
	}
	return out
}

// Create adds a new element of the given kind. Omitted size and colour
// come from the kind's defaults; the position is snapped when a snapper
// is installed.
func (s *Store) Create(kind Kind, props Patch) Element {
	e := Element{Kind: kind, PageNumber: s.page, Style: Style{Opacity: 1, BorderWidth: 1}}
	e.Width, e.Height = kind.DefaultSize()
	e.Radius = kindTable[kind].radius
	e.Style.Color, e.Style.BorderColor = kind.DefaultColors()
	if kind == KindShape && props.ShapeType == nil {
		e.ShapeType = "rectangle"
	}
	e = props.Apply(e)
	if s.snap != nil {
		e.X, e.Y = s.snap(e.X, e.Y)
	}
	return s.insert(e)
}

// Insert adds a fully formed element, keeping its id when it is set and
// unused. Collaborators inject domain elements through here.
func (s *Store) Insert(e Element) Element {
	if e.PageNumber == 0 {
		e.PageNumber = s.page
	}
	e.normalizeCircle()
	return s.insert(e)
}

func (s *Store) insert(e Element) Element {
	if e.ID == "" || s.index(e.ID) >= 0 {
		e.ID = s.newID()
	}
	s.seq++
	e.seq = s.seq
	s.elements = append(s.elements, e)
	s.emit(OriginEdit, e.ID)
	return e
}

// Update shallow-merges patch into the element with id. Absent ids are
// ignored.
func (s *Store) Update(id string, patch Patch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	updated := patch.Apply(s.elements[i])
	updated.ID = id
	updated.seq = s.elements[i].seq
	s.elements[i] = updated
	s.emit(OriginEdit, id)
	return true
}

// Delete removes id and, first, every element whose ParentID is id,
// recursively. It returns the removed ids.
func (s *Store) Delete(id string) []string {
	if s.index(id) < 0 {
		return nil
	}
	removed := s.collectTree(id, nil)
	gone := make(map[string]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
	}
	kept := s.elements[:0]
	for _, e := range s.elements {
		if !gone[e.ID] {
			kept = append(kept, e)
		}
	}
	s.elements = kept
	s.emit(OriginEdit, removed...)
	return removed
}

// collectTree lists id's descendants depth-first, then id itself.
func (s *Store) collectTree(id string, seen map[string]bool) []string {
	if seen == nil {
		seen = make(map[string]bool)
	}
	if seen[id] {
		return nil
	}
	seen[id] = true
	var out []string
	for _, c := range s.Children(id) {
		out = append(out, s.collectTree(c.ID, seen)...)
	}
	return append(out, id)
}

// Duplicate copies id and its descendants, offset by DuplicateOffset.
// The copy loses its ReferenceID; children are re-parented to the copy.
func (s *Store) Duplicate(id string) (Element, bool) {
	src, ok := s.Resolve(id)
	if !ok {
		return Element{}, false
	}
	return s.duplicate(src, src.ParentID, map[string]bool{}), true
}

func (s *Store) duplicate(src Element, parentID string, seen map[string]bool) Element {
	seen[src.ID] = true
	cp := src
	cp.ID = ""
	cp.X += DuplicateOffset
	cp.Y += DuplicateOffset
	cp.ReferenceID = ""
	cp.ParentID = parentID
	cp = s.insert(cp)
	for _, child := range s.Children(src.ID) {
		if !seen[child.ID] {
			s.duplicate(child, cp.ID, seen)
		}
	}
	return cp
}

// Rename changes an element's id and repoints references to it.
func (s *Store) Rename(oldID, newID string) bool {
	i := s.index(oldID)
	if i < 0 || oldID == newID || s.index(newID) >= 0 {
		return false
	}
	s.elements[i].ID = newID
	for j := range s.elements {
		if s.elements[j].ParentID == oldID {
			s.elements[j].ParentID = newID
		}
	}
	return true
}

// Replace swaps the whole collection, as a collaborator edit.
func (s *Store) Replace(elements []Element) {
	s.reset(elements)
	s.emit(OriginEdit)
}

// Load swaps the whole collection with data read from the remote store.
func (s *Store) Load(elements []Element) {
	s.reset(elements)
	s.emit(OriginLoad)
}

// Snapshot returns a deep copy of every element. Elements hold no
// references, so a value copy is deep.
func (s *Store) Snapshot() []Element {
	return s.All()
}

// Restore replaces the collection with a snapshot. Observers see
// OriginRestore, which is never recorded as history.
func (s *Store) Restore(snapshot []Element) {
	s.elements = make([]Element, len(snapshot))
	copy(s.elements, snapshot)
	for _, e := range s.elements {
		if e.seq > s.seq {
			s.seq = e.seq
		}
	}
	s.emit(OriginRestore)
}

func (s *Store) reset(elements []Element) {
	s.elements = s.elements[:0]
	for _, e := range elements {
		if e.PageNumber == 0 {
			e.PageNumber = s.page
		}
		e.normalizeCircle()
		if e.ID == "" || s.index(e.ID) >= 0 {
			e.ID = s.newID()
		}
		s.seq++
		e.seq = s.seq
		s.elements = append(s.elements, e)
	}
}
