package interact

import (
	"math"

	"github.com/ha1tch/floorplan/pkg/element"
)

// panning moves the view with the pointer.
type panning struct {
	m              *Machine
	startX, startY float64 // screen
	panX, panY     float64
}

func newPanning(m *Machine, p Pointer) *panning {
	st := m.ctx.View.State()
	return &panning{m: m, startX: p.X, startY: p.Y, panX: st.PanX, panY: st.PanY}
}

func (g *panning) state() State { return Panning }

func (g *panning) move(p Pointer) {
	g.m.ctx.View.PanTo(g.panX+p.X-g.startX, g.panY+p.Y-g.startY)
}

func (g *panning) finish(Pointer) {}

func (g *panning) cancel() { g.m.ctx.View.PanTo(g.panX, g.panY) }

// zoomDrag maps vertical travel to an exponential zoom about the point
// where the drag started. Dragging up zooms in.
type zoomDrag struct {
	m              *Machine
	startX, startY float64
	zoom           float64
}

func newZoomDrag(m *Machine, p Pointer) *zoomDrag {
	return &zoomDrag{m: m, startX: p.X, startY: p.Y, zoom: m.ctx.View.Zoom()}
}

func (g *zoomDrag) state() State { return ZoomDragging }

func (g *zoomDrag) move(p Pointer) {
	dy := g.startY - p.Y
	z := g.zoom * math.Pow(ZoomDragBase, dy/ZoomDragStep)
	g.m.ctx.View.SetZoomAt(z, g.startX, g.startY)
}

func (g *zoomDrag) finish(Pointer) {}

func (g *zoomDrag) cancel() { g.m.ctx.View.SetZoomAt(g.zoom, g.startX, g.startY) }

// origin is an element's geometry when a gesture began.
type origin struct {
	id   string
	x, y float64
	w, h float64
}

func originOf(e element.Element) origin {
	return origin{id: e.ID, x: e.X, y: e.Y, w: e.Width, h: e.Height}
}

// dragging moves the selection. Children of a dragged container follow it
// by the same delta.
type dragging struct {
	m              *Machine
	startX, startY float64 // canvas
	leads          []origin
	followers      map[string][]origin
	saved          bool
}

// newDragging records the selection's positions; it returns nil when
// nothing selected can move.
func newDragging(m *Machine, cx, cy float64) *dragging {
	d := &dragging{m: m, startX: cx, startY: cy, followers: make(map[string][]origin)}
	sel := m.ctx.Selection
	for _, e := range m.ctx.Selected() {
		if e.Locked {
			continue
		}
		if p, ok := m.ctx.Store.Parent(e); ok && p.Kind.Container() && sel.Contains(p.ID) && !p.Locked {
			continue // moves with its parent
		}
		d.leads = append(d.leads, originOf(e))
		if e.Kind.Container() {
			d.followers[e.ID] = descendants(m.ctx.Store, e.ID, map[string]bool{e.ID: true})
		}
	}
	if len(d.leads) == 0 {
		return nil
	}
	return d
}

// descendants lists everything parented, directly or not, under id.
func descendants(s *element.Store, id string, seen map[string]bool) []origin {
	var out []origin
	for _, c := range s.Children(id) {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, originOf(c))
		out = append(out, descendants(s, c.ID, seen)...)
	}
	return out
}

func (g *dragging) state() State { return Dragging }

func (g *dragging) move(p Pointer) {
	cx, cy := g.m.canvas(p)
	dx, dy := cx-g.startX, cy-g.startY
	if !g.saved {
		if dx == 0 && dy == 0 {
			return
		}
		g.m.ctx.History.Save("move")
		g.saved = true
	}
	store, view := g.m.ctx.Store, g.m.ctx.View
	for _, o := range g.leads {
		nx, ny := view.Snap(o.x+dx, o.y+dy)
		el, ok := store.Resolve(o.id)
		if !ok {
			continue
		}
		if pb, ok := g.m.parentBounds(el); ok {
			nx, ny = clampInside(nx, ny, o.w, o.h, pb)
		} else {
			nx, ny = view.ClampToCanvas(nx, ny, o.w, o.h)
		}
		store.Update(o.id, element.MoveTo(nx, ny))
		ddx, ddy := nx-o.x, ny-o.y
		for _, c := range g.followers[o.id] {
			store.Update(c.id, element.MoveTo(c.x+ddx, c.y+ddy))
		}
	}
}

func (g *dragging) finish(Pointer) {}

func (g *dragging) cancel() {
	if !g.saved {
		return
	}
	for _, o := range g.leads {
		g.m.ctx.Store.Update(o.id, element.MoveTo(o.x, o.y))
		for _, c := range g.followers[o.id] {
			g.m.ctx.Store.Update(c.id, element.MoveTo(c.x, c.y))
		}
	}
}

// resizing drags one handle of the selected element.
type resizing struct {
	m      *Machine
	id     string
	handle element.Handle
	orig   element.Rect
	circ   bool
	parent *element.Rect
	saved  bool
}

func newResizing(m *Machine, id string, h element.Handle) *resizing {
	el, _ := m.ctx.Store.Resolve(id)
	g := &resizing{m: m, id: id, handle: h, orig: el.Bounds(), circ: el.IsCircular()}
	if pb, ok := m.parentBounds(el); ok {
		g.parent = &pb
	}
	return g
}

func (g *resizing) state() State { return Resizing }

func (g *resizing) move(p Pointer) {
	cx, cy := g.m.ctx.View.Snap(g.m.canvas(p))
	r := resizeRect(g.orig, g.handle, cx, cy, MinSize)
	if g.circ {
		r = squareUp(g.orig, r, g.handle)
	}
	if g.parent != nil {
		r = clampRect(r, *g.parent)
	}
	if r == g.orig && !g.saved {
		return
	}
	if !g.saved {
		g.m.ctx.History.Save("resize")
		g.saved = true
	}
	g.m.ctx.Store.Update(g.id, element.Resize(r))
}

func (g *resizing) finish(Pointer) {}

func (g *resizing) cancel() {
	if g.saved {
		g.m.ctx.Store.Update(g.id, element.Resize(g.orig))
	}
}

// resizeRect moves the edges that h drags to the point (x, y). When an
// edge would make the box smaller than min, the opposite edge stays put
// and the box is held at min.
func resizeRect(o element.Rect, h element.Handle, x, y, min float64) element.Rect {
	left, top, right, bottom := h.Edges()
	r := o
	if left {
		r.X, r.W = x, o.Right()-x
		if r.W < min {
			r.X, r.W = o.Right()-min, min
		}
	}
	if right {
		r.W = x - o.X
		if r.W < min {
			r.W = min
		}
	}
	if top {
		r.Y, r.H = y, o.Bottom()-y
		if r.H < min {
			r.Y, r.H = o.Bottom()-min, min
		}
	}
	if bottom {
		r.H = y - o.Y
		if r.H < min {
			r.H = min
		}
	}
	return r
}

// squareUp keeps circular elements square, anchored at the edges the
// handle does not drag.
func squareUp(o, r element.Rect, h element.Handle) element.Rect {
	left, top, right, bottom := h.Edges()
	horizontal, vertical := left || right, top || bottom
	var s float64
	switch {
	case horizontal && !vertical:
		s = r.W
	case vertical && !horizontal:
		s = r.H
	default:
		s = math.Max(r.W, r.H)
	}
	out := element.Rect{X: r.X, Y: r.Y, W: s, H: s}
	if left {
		out.X = o.Right() - s
	}
	if top {
		out.Y = o.Bottom() - s
	}
	return out
}

// clampRect trims r to lie within bounds.
func clampRect(r, bounds element.Rect) element.Rect {
	x0 := math.Max(r.X, bounds.X)
	y0 := math.Max(r.Y, bounds.Y)
	x1 := math.Min(r.Right(), bounds.Right())
	y1 := math.Min(r.Bottom(), bounds.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return element.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// selectingBox is a rubber-band selection.
type selectingBox struct {
	m              *Machine
	startX, startY float64 // canvas
	curX, curY     float64
	additive       bool
}

func newSelectingBox(m *Machine, cx, cy float64, additive bool) *selectingBox {
	return &selectingBox{m: m, startX: cx, startY: cy, curX: cx, curY: cy, additive: additive}
}

func (g *selectingBox) state() State { return SelectingBox }

func (g *selectingBox) rect() element.Rect {
	return element.RectFromPoints(g.startX, g.startY, g.curX, g.curY)
}

func (g *selectingBox) move(p Pointer) {
	g.curX, g.curY = g.m.canvas(p)
	g.m.ctx.View.MarkDirty()
}

func (g *selectingBox) finish(Pointer) {
	ids := g.m.ctx.Store.ElementsInRect(g.rect())
	sel := g.m.ctx.Selection
	if !g.additive {
		sel.Clear()
	}
	for _, id := range ids {
		sel.Add(id)
	}
}

func (g *selectingBox) cancel() {}

// drawingShape creates an element spanning the drag. A click without a
// drag creates one at the kind's default size.
type drawingShape struct {
	m              *Machine
	kind           element.Kind
	parent         string
	startX, startY float64 // canvas
	curX, curY     float64
	screenX        float64
	screenY        float64
	sticky         bool
}

func newDrawingShape(m *Machine, p Pointer, k element.Kind, parent string) *drawingShape {
	cx, cy := m.canvas(p)
	return &drawingShape{
		m: m, kind: k, parent: parent,
		startX: cx, startY: cy, curX: cx, curY: cy,
		screenX: p.X, screenY: p.Y,
		sticky: p.Mods.Has(ModShift),
	}
}

func (g *drawingShape) state() State { return DrawingShape }

func (g *drawingShape) rect() element.Rect {
	view := g.m.ctx.View
	x0, y0 := view.Snap(g.startX, g.startY)
	x1, y1 := view.Snap(g.curX, g.curY)
	return element.RectFromPoints(x0, y0, x1, y1)
}

func (g *drawingShape) move(p Pointer) {
	g.curX, g.curY = g.m.canvas(p)
	g.m.ctx.View.MarkDirty()
}

func (g *drawingShape) finish(p Pointer) {
	props := element.Patch{}
	sx, sy := g.m.ctx.View.CanvasToScreen(g.curX, g.curY)
	if math.Hypot(sx-g.screenX, sy-g.screenY) < ClickSlop {
		props.X, props.Y = element.Ptr(g.startX), element.Ptr(g.startY)
	} else {
		r := g.rect()
		if r.W < MinSize {
			r.W = MinSize
		}
		if r.H < MinSize {
			r.H = MinSize
		}
		props = element.Resize(r)
	}
	if g.parent != "" {
		props.ParentID = element.Ptr(g.parent)
	}

	var created element.Element
	g.m.ctx.Mutate("add "+string(g.kind), func(s *element.Store) {
		created = s.Create(g.kind, props)
		if p, ok := s.Parent(created); ok && g.kind.Accessory() {
			x, y := clampInside(created.X, created.Y, created.Width, created.Height, p.Bounds())
			s.Update(created.ID, element.Patch{X: &x, Y: &y, ZIndex: element.Ptr(p.ZIndex)})
		}
	})
	g.m.ctx.Selection.Set(created.ID)
	if !g.sticky {
		g.m.DisarmTool()
	}
}

func (g *drawingShape) cancel() {}
