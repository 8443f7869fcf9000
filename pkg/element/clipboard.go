package element

// Copy stores shallow copies of ids for a later Paste. Children are not
// included unless they are listed themselves.
func (s *Store) Copy(ids []string) int {
	s.clip = s.clip[:0]
	for _, id := range ids {
		if e, ok := s.Resolve(id); ok {
			s.clip = append(s.clip, e)
		}
	}
	s.pasteN = 0
	return len(s.clip)
}

// Clipboard returns what Copy stored.
func (s *Store) Clipboard() []Element {
	out := make([]Element, len(s.clip))
	copy(out, s.clip)
	return out
}

// Paste inserts the clipboard onto the current page. Each paste lands one
// DuplicateOffset further than the last. Parent links survive only when
// the parent was copied too.
func (s *Store) Paste() []Element {
	if len(s.clip) == 0 {
		return nil
	}
	s.pasteN++
	off := float64(DuplicateOffset * s.pasteN)
	renamed := make(map[string]string, len(s.clip))
	var out []Element
	for _, src := range s.clip {
		cp := src
		cp.ID = ""
		cp.X += off
		cp.Y += off
		cp.ReferenceID = ""
		cp.ParentID = ""
		cp.PageNumber = s.page
		cp = s.insert(cp)
		renamed[src.ID] = cp.ID
		out = append(out, cp)
	}
	for i, src := range s.clip {
		if p, ok := renamed[src.ParentID]; ok {
			s.Update(out[i].ID, Patch{ParentID: Ptr(p)})
			out[i].ParentID = p
		}
	}
	return out
}
