package interact

import (
	"fmt"
	"time"

	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/notify"
)

// HandleKey applies the editor's keyboard shortcuts. It reports whether
// the key was consumed.
func (m *Machine) HandleKey(k KeyEvent) bool {
	ctrl := k.Mods.Has(ModCtrl) || k.Mods.Has(ModMeta)
	switch k.Key {
	case KeyEscape:
		switch {
		case m.Cancel():
		case m.tool != "":
			m.DisarmTool()
			m.ctx.View.MarkDirty()
		default:
			m.ctx.Selection.Clear()
			m.ctx.View.MarkDirty()
		}
		return true
	case KeyDelete, KeyBackspace:
		return m.DeleteSelected() > 0
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		step := 1.0
		if k.Mods.Has(ModShift) {
			step = m.ctx.View.State().GridSize
		}
		dx, dy := 0.0, 0.0
		switch k.Key {
		case KeyLeft:
			dx = -step
		case KeyRight:
			dx = step
		case KeyUp:
			dy = -step
		case KeyDown:
			dy = step
		}
		return m.Nudge(dx, dy)
	case KeyRune:
	default:
		return false
	}

	if ctrl {
		switch k.Rune {
		case 'z', 'Z':
			if k.Mods.Has(ModShift) {
				return m.ctx.Redo()
			}
			return m.ctx.Undo()
		case 'y', 'Y':
			return m.ctx.Redo()
		case 'c', 'C':
			return m.CopySelection() > 0
		case 'v', 'V':
			return len(m.Paste()) > 0
		case 'd', 'D':
			return len(m.DuplicateSelection()) > 0
		case 'a', 'A':
			m.SelectAll()
			return true
		}
		return false
	}
	switch k.Rune {
	case ']':
		if k.Mods.Has(ModShift) {
			return m.ZOrder(ToFront)
		}
		return m.ZOrder(Forward)
	case '[':
		if k.Mods.Has(ModShift) {
			return m.ZOrder(ToBack)
		}
		return m.ZOrder(Backward)
	case '}':
		return m.ZOrder(ToFront)
	case '{':
		return m.ZOrder(ToBack)
	}
	return false
}

// editable returns the selected ids that are not locked.
func (m *Machine) editable() []string {
	var ids []string
	for _, e := range m.ctx.Selected() {
		if !e.Locked {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// DeleteSelected removes the unlocked selection and everything parented
// under it. It returns how many elements went.
func (m *Machine) DeleteSelected() int {
	ids := m.editable()
	if len(ids) == 0 {
		return 0
	}
	n := 0
	m.ctx.Mutate("delete", func(s *element.Store) {
		for _, id := range ids {
			n += len(s.Delete(id))
		}
	})
	m.ctx.Selection.Clear()
	m.setHover("")
	return n
}

// Nudge moves the unlocked selection by (dx, dy) canvas units.
func (m *Machine) Nudge(dx, dy float64) bool {
	ids := m.editable()
	if len(ids) == 0 {
		return false
	}
	m.ctx.Mutate("nudge", func(s *element.Store) {
		for _, id := range m.topLevel(ids) {
			s.MoveBy(id, dx, dy)
		}
	})
	return true
}

// topLevel drops ids whose container parent is also in ids; moving the
// parent already carries them.
func (m *Machine) topLevel(ids []string) []string {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var out []string
	for _, id := range ids {
		e, _ := m.ctx.Store.Resolve(id)
		if p, ok := m.ctx.Store.Parent(e); ok && in[p.ID] && p.Kind.Container() {
			continue
		}
		out = append(out, id)
	}
	return out
}

// CopySelection puts the selection on the clipboard.
func (m *Machine) CopySelection() int {
	n := m.ctx.Store.Copy(m.ctx.Selection.IDs())
	if n > 0 {
		m.ctx.Notify("Copied", plural(n, "element"), notify.Info, time.Second)
	}
	return n
}

// Paste inserts the clipboard and selects the copies.
func (m *Machine) Paste() []element.Element {
	if len(m.ctx.Store.Clipboard()) == 0 {
		return nil
	}
	var pasted []element.Element
	m.ctx.Mutate("paste", func(s *element.Store) { pasted = s.Paste() })
	m.selectAll(pasted)
	return pasted
}

// DuplicateSelection copies each selected element, with its children, at
// a fixed offset and selects the copies.
func (m *Machine) DuplicateSelection() []element.Element {
	ids := m.topLevel(m.ctx.Selection.IDs())
	if len(ids) == 0 {
		return nil
	}
	var dups []element.Element
	m.ctx.Mutate("duplicate", func(s *element.Store) {
		for _, id := range ids {
			if d, ok := s.Duplicate(id); ok {
				dups = append(dups, d)
			}
		}
	})
	m.selectAll(dups)
	return dups
}

func (m *Machine) selectAll(els []element.Element) {
	ids := make([]string, len(els))
	for i, e := range els {
		ids[i] = e.ID
	}
	m.ctx.Selection.Set(ids...)
	m.ctx.View.MarkDirty()
}

// SelectAll selects every element on the current page.
func (m *Machine) SelectAll() {
	m.selectAll(m.ctx.Store.Elements())
}

// Alignment names an align or distribute command.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignTop
	AlignBottom
	AlignCenterHorizontal
	AlignCenterVertical
	DistributeHorizontal
	DistributeVertical
)

// Align lines up the selection. Alignment needs two unlocked elements
// and distribution three; fewer is a no-op that records no history.
func (m *Machine) Align(a Alignment) bool {
	ids := m.editable()
	need := 2
	if a == DistributeHorizontal || a == DistributeVertical {
		need = 3
	}
	if len(ids) < need {
		return false
	}
	var ok bool
	m.ctx.Mutate("align", func(s *element.Store) {
		switch a {
		case AlignLeft:
			ok = s.AlignLeft(ids)
		case AlignRight:
			ok = s.AlignRight(ids)
		case AlignTop:
			ok = s.AlignTop(ids)
		case AlignBottom:
			ok = s.AlignBottom(ids)
		case AlignCenterHorizontal:
			ok = s.AlignCenterHorizontal(ids)
		case AlignCenterVertical:
			ok = s.AlignCenterVertical(ids)
		case DistributeHorizontal:
			ok = s.DistributeHorizontal(ids)
		case DistributeVertical:
			ok = s.DistributeVertical(ids)
		}
	})
	return ok
}

// Stacking names a z-order command.
type Stacking int

const (
	Forward Stacking = iota
	Backward
	ToFront
	ToBack
)

// ZOrder restacks each selected element.
func (m *Machine) ZOrder(op Stacking) bool {
	ids := m.ctx.Selection.IDs()
	if len(ids) == 0 {
		return false
	}
	m.ctx.Mutate("reorder", func(s *element.Store) {
		for _, id := range ids {
			switch op {
			case Forward:
				s.BringForward(id)
			case Backward:
				s.SendBackward(id)
			case ToFront:
				s.BringToFront(id)
			case ToBack:
				s.SendToBack(id)
			}
		}
	})
	return true
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
