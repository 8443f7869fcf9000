package element

// BringForward raises id one step.
func (s *Store) BringForward(id string) bool {
	e, ok := s.Resolve(id)
	if !ok {
		return false
	}
	return s.setZ(e, e.ZIndex+1)
}

// SendBackward lowers id one step.
func (s *Store) SendBackward(id string) bool {
	e, ok := s.Resolve(id)
	if !ok {
		return false
	}
	return s.setZ(e, e.ZIndex-1)
}

// BringToFront places id above everything else on its page.
func (s *Store) BringToFront(id string) bool {
	e, ok := s.Resolve(id)
	if !ok {
		return false
	}
	top := e.ZIndex
	for _, o := range s.elements {
		if o.PageNumber == e.PageNumber && o.ID != e.ID && o.ParentID != e.ID && o.ZIndex >= top {
			top = o.ZIndex + 1
		}
	}
	return s.setZ(e, top)
}

// SendToBack places id below everything else on its page.
func (s *Store) SendToBack(id string) bool {
	e, ok := s.Resolve(id)
	if !ok {
		return false
	}
	bottom := e.ZIndex
	for _, o := range s.elements {
		if o.PageNumber == e.PageNumber && o.ID != e.ID && o.ParentID != e.ID && o.ZIndex <= bottom {
			bottom = o.ZIndex - 1
		}
	}
	return s.setZ(e, bottom)
}

// setZ writes z to e and, for containers, to all of its children so they
// stay on the same plane.
func (s *Store) setZ(e Element, z int) bool {
	ids := []string{e.ID}
	s.elements[s.index(e.ID)].ZIndex = z
	if e.Kind.Container() {
		for i := range s.elements {
			if s.elements[i].ParentID == e.ID {
				s.elements[i].ZIndex = z
				ids = append(ids, s.elements[i].ID)
			}
		}
	}
	s.emit(OriginEdit, ids...)
	return true
}
