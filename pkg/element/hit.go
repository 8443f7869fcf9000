package element

// ElementAt returns the topmost element on the current page whose shape
// contains the canvas point.
func (s *Store) ElementAt(x, y float64) (Element, bool) {
	sorted := s.Sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Shape().Contains(x, y) {
			return sorted[i], true
		}
	}
	return Element{}, false
}

// ElementsInRect returns the ids of current-page elements whose bounds
// overlap r, in paint order.
func (s *Store) ElementsInRect(r Rect) []string {
	var ids []string
	for _, e := range s.Sorted() {
		if e.Bounds().Overlaps(r) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// ContentBounds returns the bounding box of the current page.
func (s *Store) ContentBounds() (Rect, bool) {
	els := s.Elements()
	if len(els) == 0 {
		return Rect{}, false
	}
	return extent(els), true
}
