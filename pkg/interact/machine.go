// Package interact turns pointer and keyboard input into edits of the
// element store and viewport.
//
// The machine is in exactly one State at a time. Pointer-down picks the
// next state; entering it first finishes whatever gesture was active.
// Pointer-up finishes the gesture and returns to Idle.
package interact

import (
	"math"

	"github.com/ha1tch/floorplan/pkg/app"
	"github.com/ha1tch/floorplan/pkg/element"
)

// State is the machine's current mode.
type State int

const (
	Idle State = iota
	Panning
	Dragging
	Resizing
	ZoomDragging
	SelectingBox
	DrawingShape
)

func (s State) String() string {
	switch s {
	case Panning:
		return "panning"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case ZoomDragging:
		return "zoom"
	case SelectingBox:
		return "select"
	case DrawingShape:
		return "draw"
	}
	return "idle"
}

// Tuning constants.
const (
	HandleRadius = 8.0   // resize handle hit radius, screen pixels
	MinSize      = 20.0  // smallest width or height a resize may produce
	ZoomDragBase = 2.0   // zoom multiplier per ZoomDragStep of travel
	ZoomDragStep = 200.0 // screen pixels
	WheelFactor  = 1.1   // zoom multiplier per wheel notch
	ClickSlop    = 3.0   // screen pixels below which a drag is a click
)

// gesture is the behaviour of one non-idle state.
type gesture interface {
	state() State
	move(p Pointer)
	finish(p Pointer)
	cancel()
}

// Machine is the interaction state machine for one editing session.
type Machine struct {
	ctx    *app.Context
	active gesture // nil while Idle
	last   Pointer
	hover  string
	tool   element.Kind

	// BoxSelect makes a drag on empty canvas select instead of pan.
	BoxSelect bool
}

// New returns an idle machine over ctx.
func New(ctx *app.Context) *Machine {
	return &Machine{ctx: ctx}
}

// State returns the current state.
func (m *Machine) State() State {
	if m.active == nil {
		return Idle
	}
	return m.active.state()
}

// HoverID returns the element under the pointer while idle.
func (m *Machine) HoverID() string { return m.hover }

// Marquee returns the rubber-band rectangle of a box selection or a shape
// being drawn, in canvas space.
func (m *Machine) Marquee() (element.Rect, bool) {
	switch g := m.active.(type) {
	case *selectingBox:
		return g.rect(), true
	case *drawingShape:
		return g.rect(), true
	}
	return element.Rect{}, false
}

// ArmTool makes the next pointer-down on empty canvas draw a kind.
func (m *Machine) ArmTool(k element.Kind) {
	m.tool = k
}

// DisarmTool returns to plain selection.
func (m *Machine) DisarmTool() { m.tool = "" }

// Tool returns the armed kind.
func (m *Machine) Tool() (element.Kind, bool) { return m.tool, m.tool != "" }

// enter makes g the active gesture, finishing the previous one first.
func (m *Machine) enter(g gesture) {
	m.exit()
	m.setHover("")
	m.active = g
	m.ctx.View.MarkDirty()
}

// exit finishes the active gesture, if any, and returns to Idle.
func (m *Machine) exit() {
	if m.active == nil {
		return
	}
	g := m.active
	m.active = nil
	g.finish(m.last)
	m.ctx.View.MarkDirty()
}

func (m *Machine) setHover(id string) {
	if m.hover != id {
		m.hover = id
		m.ctx.View.MarkDirty()
	}
}

func (m *Machine) canvas(p Pointer) (float64, float64) {
	return m.ctx.View.ScreenToCanvas(p.X, p.Y)
}

// PointerDown picks the next state from what is under the pointer.
func (m *Machine) PointerDown(p Pointer) {
	m.exit()
	m.last = p
	cx, cy := m.canvas(p)

	if p.Mods.Has(ModAlt) {
		m.enter(newZoomDrag(m, p))
		return
	}
	if p.Button == ButtonMiddle {
		m.enter(newPanning(m, p))
		return
	}
	if p.Button == ButtonPrimary {
		if id, h := m.handleAt(cx, cy); h != element.HandleNone {
			m.enter(newResizing(m, id, h))
			return
		}
	}

	hit, onElement := m.ctx.Store.ElementAt(cx, cy)
	if m.tool != "" && p.Button == ButtonPrimary && (!onElement || m.tool.Accessory()) {
		m.enter(newDrawingShape(m, p, m.tool, m.containerAt(cx, cy)))
		return
	}
	if onElement {
		additive := p.Mods.Has(ModShift) || p.Mods.Has(ModCtrl)
		if m.clickSelect(hit, additive) && p.Button == ButtonPrimary {
			if d := newDragging(m, cx, cy); d != nil {
				m.enter(d)
			}
		}
		m.ctx.View.MarkDirty()
		return
	}

	if p.Button != ButtonPrimary {
		m.ctx.Selection.Clear()
		m.ctx.View.MarkDirty()
		return
	}
	if m.BoxSelect || p.Mods.Has(ModShift) {
		m.enter(newSelectingBox(m, cx, cy, p.Mods.Has(ModShift)))
		return
	}
	m.ctx.Selection.Clear()
	m.enter(newPanning(m, p))
}

// PointerMove drives the active gesture, or updates hover while idle.
func (m *Machine) PointerMove(p Pointer) {
	m.last = p
	if m.active != nil {
		m.active.move(p)
		return
	}
	cx, cy := m.canvas(p)
	if el, ok := m.ctx.Store.ElementAt(cx, cy); ok {
		m.setHover(el.ID)
	} else {
		m.setHover("")
	}
}

// PointerUp finishes the active gesture.
func (m *Machine) PointerUp(p Pointer) {
	m.last = p
	if m.active != nil {
		m.active.move(p)
	}
	m.exit()
}

// Wheel zooms about the pointer; positive notches zoom in.
func (m *Machine) Wheel(p Pointer, notches float64) {
	if m.active != nil {
		return
	}
	m.ctx.View.ZoomBy(math.Pow(WheelFactor, notches), p.X, p.Y)
}

// Cancel abandons the active gesture, undoing its effect.
func (m *Machine) Cancel() bool {
	if m.active == nil {
		return false
	}
	g := m.active
	m.active = nil
	g.cancel()
	m.ctx.View.MarkDirty()
	return true
}

// clickSelect applies click and shift-click rules and reports whether the
// clicked element ends up selected. Group members are selected together.
func (m *Machine) clickSelect(hit element.Element, additive bool) bool {
	sel := m.ctx.Selection
	ids := m.groupOf(hit)
	if additive {
		if sel.Contains(hit.ID) {
			for _, id := range ids {
				sel.Remove(id)
			}
			return false
		}
		for _, id := range ids {
			sel.Add(id)
		}
		return true
	}
	if !sel.Contains(hit.ID) {
		sel.Set(ids...)
	}
	return true
}

func (m *Machine) groupOf(hit element.Element) []string {
	if hit.GroupID == "" {
		return []string{hit.ID}
	}
	ids := []string{hit.ID}
	for _, e := range m.ctx.Store.Elements() {
		if e.GroupID == hit.GroupID && e.ID != hit.ID {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// handleAt finds a resize handle of the single selected element. The hit
// radius is constant on screen.
func (m *Machine) handleAt(cx, cy float64) (string, element.Handle) {
	if m.ctx.Selection.Len() != 1 {
		return "", element.HandleNone
	}
	el, ok := m.ctx.Store.Resolve(m.ctx.Selection.IDs()[0])
	if !ok || el.Locked {
		return "", element.HandleNone
	}
	r := HandleRadius / m.ctx.View.Zoom()
	return el.ID, el.Bounds().HandleAt(cx, cy, r)
}

// containerAt returns the topmost container under the point.
func (m *Machine) containerAt(cx, cy float64) string {
	sorted := m.ctx.Store.Sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if e.Kind.Container() && e.Shape().Contains(cx, cy) {
			return e.ID
		}
	}
	return ""
}

// parentBounds returns the bounds an accessory element must stay in.
func (m *Machine) parentBounds(el element.Element) (element.Rect, bool) {
	if !el.Kind.Accessory() {
		return element.Rect{}, false
	}
	p, ok := m.ctx.Store.Parent(el)
	if !ok {
		return element.Rect{}, false
	}
	return p.Bounds(), true
}

// clampInside keeps a w×h box at (x, y) within r.
func clampInside(x, y, w, h float64, r element.Rect) (float64, float64) {
	return clamp(x, r.X, r.Right()-w), clamp(y, r.Y, r.Bottom()-h)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
