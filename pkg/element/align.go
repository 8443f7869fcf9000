package element

import (
	"math"
	"sort"
)

// Alignment needs two members; distribution needs three.
const (
	minAlign      = 2
	minDistribute = 3
)

// members resolves ids, dropping unknown and locked elements.
func (s *Store) members(ids []string) []Element {
	var out []Element
	for _, id := range ids {
		if e, ok := s.Resolve(id); ok && !e.Locked {
			out = append(out, e)
		}
	}
	return out
}

// extent returns the bounding box of the elements.
func extent(els []Element) Rect {
	r := els[0].Bounds()
	for _, e := range els[1:] {
		r = r.Union(e.Bounds())
	}
	return r
}

// MoveBy shifts id by (dx, dy). Containers carry everything parented
// under them, directly or not.
func (s *Store) MoveBy(id string, dx, dy float64) {
	s.moveBy(id, dx, dy, nil)
}

// moveBy skips subtrees rooted at ids in skip; those move on their own.
func (s *Store) moveBy(id string, dx, dy float64, skip map[string]bool) {
	i := s.index(id)
	if i < 0 || (dx == 0 && dy == 0) {
		return
	}
	e := s.elements[i]
	s.Update(id, MoveTo(e.X+dx, e.Y+dy))
	if e.Kind.Container() {
		s.shiftDescendants(id, dx, dy, skip, map[string]bool{id: true})
	}
}

func (s *Store) shiftDescendants(id string, dx, dy float64, skip, seen map[string]bool) {
	for _, c := range s.Children(id) {
		if skip[c.ID] || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		s.Update(c.ID, MoveTo(c.X+dx, c.Y+dy))
		s.shiftDescendants(c.ID, dx, dy, skip, seen)
	}
}

// alignWith moves every member by the offset pos returns for it.
func (s *Store) alignWith(ids []string, pos func(e Element, r Rect) (float64, float64)) bool {
	els := s.members(ids)
	if len(els) < minAlign {
		return false
	}
	r := extent(els)
	moving := make(map[string]bool, len(els))
	for _, e := range els {
		moving[e.ID] = true
	}
	for _, e := range els {
		x, y := pos(e, r)
		s.moveBy(e.ID, x-e.X, y-e.Y, moving)
	}
	return true
}

// AlignLeft lines members up on the leftmost edge.
func (s *Store) AlignLeft(ids []string) bool {
	return s.alignWith(ids, func(e Element, r Rect) (float64, float64) { return r.X, e.Y })
}

// AlignRight lines members up on the rightmost edge.
func (s *Store) AlignRight(ids []string) bool {
	return s.alignWith(ids, func(e Element, r Rect) (float64, float64) { return r.Right() - e.Width, e.Y })
}

// AlignTop lines members up on the topmost edge.
func (s *Store) AlignTop(ids []string) bool {
	return s.alignWith(ids, func(e Element, r Rect) (float64, float64) { return e.X, r.Y })
}

// AlignBottom lines members up on the bottom edge.
func (s *Store) AlignBottom(ids []string) bool {
	return s.alignWith(ids, func(e Element, r Rect) (float64, float64) { return e.X, r.Bottom() - e.Height })
}

// AlignCenterHorizontal gives every member the same horizontal centre.
func (s *Store) AlignCenterHorizontal(ids []string) bool {
	return s.alignWith(ids, func(e Element, r Rect) (float64, float64) {
		cx, _ := r.Center()
		return cx - e.Width/2, e.Y
	})
}

// AlignCenterVertical gives every member the same vertical centre.
func (s *Store) AlignCenterVertical(ids []string) bool {
	return s.alignWith(ids, func(e Element, r Rect) (float64, float64) {
		_, cy := r.Center()
		return e.X, cy - e.Height/2
	})
}

// DistributeHorizontal keeps the leftmost and rightmost members fixed and
// spaces the rest evenly between them.
func (s *Store) DistributeHorizontal(ids []string) bool {
	return s.distribute(ids, func(e Element) float64 { return e.X }, func(e Element, v float64) (float64, float64) {
		return v - e.X, 0
	})
}

// DistributeVertical is DistributeHorizontal along y.
func (s *Store) DistributeVertical(ids []string) bool {
	return s.distribute(ids, func(e Element) float64 { return e.Y }, func(e Element, v float64) (float64, float64) {
		return 0, v - e.Y
	})
}

func (s *Store) distribute(ids []string, key func(Element) float64, delta func(Element, float64) (float64, float64)) bool {
	els := s.members(ids)
	if len(els) < minDistribute {
		return false
	}
	sort.SliceStable(els, func(i, j int) bool { return key(els[i]) < key(els[j]) })
	first, last := key(els[0]), key(els[len(els)-1])
	step := (last - first) / float64(len(els)-1)
	moving := make(map[string]bool, len(els))
	for _, e := range els {
		moving[e.ID] = true
	}
	for i := 1; i < len(els)-1; i++ {
		target := first + step*float64(i)
		if math.Abs(target-key(els[i])) < 1e-9 {
			continue
		}
		dx, dy := delta(els[i], target)
		s.moveBy(els[i].ID, dx, dy, moving)
	}
	return true
}
