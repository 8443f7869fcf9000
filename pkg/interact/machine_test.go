package interact

import (
	"math"
	"testing"
	"time"

	"github.com/ha1tch/floorplan/pkg/app"
	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/notify"
	"github.com/ha1tch/floorplan/pkg/viewport"
)

func newTestMachine() (*Machine, *app.Context) {
	ctx := app.New(app.Options{
		Notifier: notify.Func(func(string, string, notify.Severity, time.Duration) {}),
	})
	return New(ctx), ctx
}

func add(ctx *app.Context, e element.Element) element.Element {
	return ctx.Store.Insert(e)
}

func at(x, y float64) Pointer { return Pointer{X: x, Y: y, Button: ButtonPrimary} }

func mustGet(t *testing.T, ctx *app.Context, id string) element.Element {
	t.Helper()
	e, ok := ctx.Store.Resolve(id)
	if !ok {
		t.Fatalf("element %s missing", id)
	}
	return e
}

func TestDragCarriesContainerChildren(t *testing.T) {
	m, ctx := newTestMachine()
	room := add(ctx, element.Element{Kind: element.KindRoom, X: 100, Y: 100, Width: 200, Height: 200})
	seat := add(ctx, element.Element{Kind: element.KindSeat, X: 150, Y: 150, Width: 20, Height: 20, ParentID: room.ID})

	m.PointerDown(at(110, 110))
	if m.State() != Dragging {
		t.Fatalf("state = %v, want dragging", m.State())
	}
	m.PointerMove(at(140, 130))
	m.PointerUp(at(140, 130))

	if m.State() != Idle {
		t.Errorf("state after up = %v, want idle", m.State())
	}
	r := mustGet(t, ctx, room.ID)
	s := mustGet(t, ctx, seat.ID)
	if r.X != 130 || r.Y != 120 {
		t.Errorf("room at (%v, %v), want (130, 120)", r.X, r.Y)
	}
	if s.X != 180 || s.Y != 170 {
		t.Errorf("seat at (%v, %v), want (180, 170)", s.X, s.Y)
	}

	if !ctx.Undo() {
		t.Fatal("drag left nothing to undo")
	}
	r = mustGet(t, ctx, room.ID)
	s = mustGet(t, ctx, seat.ID)
	if r.X != 100 || s.X != 150 {
		t.Errorf("after undo room.X = %v, seat.X = %v, want 100 and 150", r.X, s.X)
	}
}

func TestDragClampsAccessoryToParent(t *testing.T) {
	m, ctx := newTestMachine()
	room := add(ctx, element.Element{Kind: element.KindRoom, X: 100, Y: 100, Width: 200, Height: 200})
	seat := add(ctx, element.Element{Kind: element.KindSeat, X: 150, Y: 150, Width: 20, Height: 20, ParentID: room.ID})

	m.PointerDown(at(160, 160))
	m.PointerMove(at(460, 160))
	m.PointerUp(at(460, 160))

	s := mustGet(t, ctx, seat.ID)
	if s.X != 280 || s.Y != 150 {
		t.Errorf("seat at (%v, %v), want (280, 150)", s.X, s.Y)
	}
	if r := mustGet(t, ctx, room.ID); r.X != 100 {
		t.Errorf("room moved to %v", r.X)
	}
}

func TestDragSnapsAndClampsToCanvas(t *testing.T) {
	m, ctx := newTestMachine()
	ctx.View.Update(viewport.Patch{SnapToGrid: element.Ptr(true)})
	box := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 60, Height: 40})

	m.PointerDown(at(110, 110))
	m.PointerMove(at(137, 112))
	if b := mustGet(t, ctx, box.ID); b.X != 120 || b.Y != 100 {
		t.Errorf("snapped to (%v, %v), want (120, 100)", b.X, b.Y)
	}
	m.PointerMove(at(-500, -500))
	m.PointerUp(at(-500, -500))
	if b := mustGet(t, ctx, box.ID); b.X != 0 || b.Y != 0 {
		t.Errorf("clamped to (%v, %v), want (0, 0)", b.X, b.Y)
	}
}

func TestClickWithoutMoveRecordsNoHistory(t *testing.T) {
	m, ctx := newTestMachine()
	add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 60, Height: 40})

	m.PointerDown(at(110, 110))
	m.PointerUp(at(110, 110))
	if ctx.History.CanUndo() {
		t.Error("a click saved a history level")
	}
	if ctx.Selection.Len() != 1 {
		t.Errorf("selection = %d, want 1", ctx.Selection.Len())
	}
}

func TestResizeRect(t *testing.T) {
	o := element.Rect{X: 100, Y: 100, W: 100, H: 50}
	tests := []struct {
		name string
		h    element.Handle
		x, y float64
		want element.Rect
	}{
		{"east", element.HandleE, 150, 0, element.Rect{X: 100, Y: 100, W: 50, H: 50}},
		{"south-east", element.HandleSE, 260, 200, element.Rect{X: 100, Y: 100, W: 160, H: 100}},
		{"west past right edge", element.HandleW, 250, 0, element.Rect{X: 180, Y: 100, W: 20, H: 50}},
		{"north floor", element.HandleN, 0, 145, element.Rect{X: 100, Y: 130, W: 100, H: 20}},
		{"north-west", element.HandleNW, 50, 80, element.Rect{X: 50, Y: 80, W: 150, H: 70}},
		{"east floor", element.HandleE, 90, 0, element.Rect{X: 100, Y: 100, W: 20, H: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resizeRect(o, tt.h, tt.x, tt.y, MinSize)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHandleRadiusScalesWithZoom(t *testing.T) {
	m, ctx := newTestMachine()
	el := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 100, Height: 100})
	ctx.Selection.Set(el.ID)

	ctx.View.SetZoom(2)
	if _, h := m.handleAt(203, 150); h != element.HandleE {
		t.Errorf("zoom 2: handle = %v, want E", h)
	}
	if _, h := m.handleAt(205, 150); h != element.HandleNone {
		t.Errorf("zoom 2: handle = %v, want none", h)
	}
	ctx.View.SetZoom(0.5)
	if _, h := m.handleAt(214, 150); h != element.HandleE {
		t.Errorf("zoom 0.5: handle = %v, want E", h)
	}
}

func TestResizeThroughPointer(t *testing.T) {
	m, ctx := newTestMachine()
	el := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 100, Height: 100})
	ctx.Selection.Set(el.ID)

	m.PointerDown(at(100, 150)) // west handle
	if m.State() != Resizing {
		t.Fatalf("state = %v, want resizing", m.State())
	}
	m.PointerMove(at(400, 150))
	m.PointerUp(at(400, 150))

	got := mustGet(t, ctx, el.ID)
	if got.X != 180 || got.Width != MinSize {
		t.Errorf("resized to x=%v w=%v, want x=180 w=%v", got.X, got.Width, MinSize)
	}
}

func TestResizeKeepsCirclesRound(t *testing.T) {
	m, ctx := newTestMachine()
	ap := add(ctx, element.Element{Kind: element.KindWirelessAP, X: 100, Y: 100, Radius: 15})
	ctx.Selection.Set(ap.ID)

	m.PointerDown(at(130, 115)) // east handle
	m.PointerMove(at(160, 115))
	m.PointerUp(at(160, 115))

	got := mustGet(t, ctx, ap.ID)
	if got.Width != 60 || got.Height != 60 || got.Radius != 30 {
		t.Errorf("got w=%v h=%v r=%v, want 60/60/30", got.Width, got.Height, got.Radius)
	}
}

func TestZoomDrag(t *testing.T) {
	m, ctx := newTestMachine()
	p := Pointer{X: 100, Y: 100, Button: ButtonPrimary, Mods: ModAlt}

	m.PointerDown(p)
	if m.State() != ZoomDragging {
		t.Fatalf("state = %v, want zoom", m.State())
	}
	m.PointerMove(Pointer{X: 100, Y: -100})
	if z := ctx.View.Zoom(); z != 2 {
		t.Errorf("zoom after 200px up = %v, want 2", z)
	}
	if x, y := ctx.View.ScreenToCanvas(100, 100); math.Abs(x-100) > 1e-9 || math.Abs(y-100) > 1e-9 {
		t.Errorf("pivot moved to (%v, %v)", x, y)
	}
	m.PointerMove(Pointer{X: 100, Y: -10000})
	if z := ctx.View.Zoom(); z != viewport.MaxZoom {
		t.Errorf("zoom = %v, want clamp at %v", z, viewport.MaxZoom)
	}
	m.PointerUp(Pointer{X: 100, Y: 10000})
	if z := ctx.View.Zoom(); z != viewport.MinZoom {
		t.Errorf("zoom = %v, want clamp at %v", z, viewport.MinZoom)
	}
}

func TestBoxSelect(t *testing.T) {
	m, ctx := newTestMachine()
	a := add(ctx, element.Element{Kind: element.KindStairs, X: 10, Y: 10, Width: 20, Height: 20})
	b := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 20, Height: 20})
	c := add(ctx, element.Element{Kind: element.KindStairs, X: 500, Y: 500, Width: 20, Height: 20})
	m.BoxSelect = true
	ctx.Selection.Set(c.ID)

	m.PointerDown(at(0, 0))
	if m.State() != SelectingBox {
		t.Fatalf("state = %v, want select", m.State())
	}
	m.PointerMove(at(150, 150))
	if r, ok := m.Marquee(); !ok || r != (element.Rect{W: 150, H: 150}) {
		t.Errorf("marquee = %+v %v", r, ok)
	}
	m.PointerUp(at(150, 150))

	ids := ctx.Selection.IDs()
	if len(ids) != 2 || ids[0] != a.ID || ids[1] != b.ID {
		t.Errorf("selection = %v, want [%s %s]", ids, a.ID, b.ID)
	}
	if _, ok := m.Marquee(); ok {
		t.Error("marquee still shown when idle")
	}
}

func TestShiftBoxSelectAdds(t *testing.T) {
	m, ctx := newTestMachine()
	add(ctx, element.Element{Kind: element.KindStairs, X: 10, Y: 10, Width: 20, Height: 20})
	c := add(ctx, element.Element{Kind: element.KindStairs, X: 500, Y: 500, Width: 20, Height: 20})
	ctx.Selection.Set(c.ID)

	p := Pointer{X: 0, Y: 0, Button: ButtonPrimary, Mods: ModShift}
	m.PointerDown(p)
	p.X, p.Y = 50, 50
	m.PointerMove(p)
	m.PointerUp(p)

	if ctx.Selection.Len() != 2 || !ctx.Selection.Contains(c.ID) {
		t.Errorf("selection = %v, want two including %s", ctx.Selection.IDs(), c.ID)
	}
}

func TestEmptyDragPans(t *testing.T) {
	m, ctx := newTestMachine()
	el := add(ctx, element.Element{Kind: element.KindStairs, X: 10, Y: 10, Width: 20, Height: 20})
	ctx.Selection.Set(el.ID)

	m.PointerDown(at(500, 500))
	if m.State() != Panning {
		t.Fatalf("state = %v, want panning", m.State())
	}
	if ctx.Selection.Len() != 0 {
		t.Error("clicking empty canvas kept the selection")
	}
	m.PointerMove(at(520, 490))
	m.PointerUp(at(520, 490))
	st := ctx.View.State()
	if st.PanX != 20 || st.PanY != -10 {
		t.Errorf("pan = (%v, %v), want (20, -10)", st.PanX, st.PanY)
	}
}

func TestMiddleButtonPansOverElements(t *testing.T) {
	m, ctx := newTestMachine()
	add(ctx, element.Element{Kind: element.KindStairs, X: 0, Y: 0, Width: 100, Height: 100})

	m.PointerDown(Pointer{X: 50, Y: 50, Button: ButtonMiddle})
	if m.State() != Panning {
		t.Errorf("state = %v, want panning", m.State())
	}
}

func TestOneStateAtATime(t *testing.T) {
	m, _ := newTestMachine()
	m.PointerDown(at(500, 500))
	if m.State() != Panning {
		t.Fatalf("state = %v, want panning", m.State())
	}
	m.PointerDown(Pointer{X: 500, Y: 500, Button: ButtonPrimary, Mods: ModAlt})
	if m.State() != ZoomDragging {
		t.Errorf("state = %v, want zoom", m.State())
	}
}

func TestHoverOnlyWhileIdle(t *testing.T) {
	m, ctx := newTestMachine()
	el := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 50, Height: 50})

	m.PointerMove(at(120, 120))
	if m.HoverID() != el.ID {
		t.Fatalf("hover = %q, want %q", m.HoverID(), el.ID)
	}
	m.PointerDown(at(120, 120))
	if m.HoverID() != "" {
		t.Error("hover kept after drag started")
	}
	m.PointerMove(at(130, 130))
	if m.HoverID() != "" {
		t.Error("hover set while dragging")
	}
	m.PointerUp(at(130, 130))
	m.PointerMove(at(900, 900))
	if m.HoverID() != "" {
		t.Errorf("hover = %q over empty canvas", m.HoverID())
	}
}

func TestDrawShape(t *testing.T) {
	m, ctx := newTestMachine()
	m.ArmTool(element.KindStairs)

	m.PointerDown(at(100, 100))
	if m.State() != DrawingShape {
		t.Fatalf("state = %v, want draw", m.State())
	}
	m.PointerMove(at(180, 160))
	m.PointerUp(at(180, 160))

	els := ctx.Store.Elements()
	if len(els) != 1 {
		t.Fatalf("created %d elements, want 1", len(els))
	}
	got := els[0]
	if got.X != 100 || got.Y != 100 || got.Width != 80 || got.Height != 60 {
		t.Errorf("got %+v", got.Bounds())
	}
	if !ctx.Selection.Contains(got.ID) {
		t.Error("new element not selected")
	}
	if _, armed := m.Tool(); armed {
		t.Error("tool still armed")
	}
	if !ctx.History.CanUndo() {
		t.Error("draw left nothing to undo")
	}
}

func TestClickPlacesDefaultSize(t *testing.T) {
	m, ctx := newTestMachine()
	m.ArmTool(element.KindWirelessAP)
	m.PointerDown(at(300, 300))
	m.PointerUp(at(301, 301))

	els := ctx.Store.Elements()
	if len(els) != 1 {
		t.Fatalf("created %d elements, want 1", len(els))
	}
	ap := els[0]
	if ap.X != 300 || ap.Y != 300 || ap.Radius != 15 || ap.Width != 30 {
		t.Errorf("got x=%v y=%v r=%v w=%v", ap.X, ap.Y, ap.Radius, ap.Width)
	}
}

func TestDrawAccessoryInsideContainer(t *testing.T) {
	m, ctx := newTestMachine()
	room := add(ctx, element.Element{Kind: element.KindRoom, X: 100, Y: 100, Width: 200, Height: 200})
	m.ArmTool(element.KindSeat)

	m.PointerDown(Pointer{X: 295, Y: 295, Button: ButtonPrimary, Mods: ModShift})
	m.PointerUp(Pointer{X: 295, Y: 295, Button: ButtonPrimary, Mods: ModShift})

	seat, ok := ctx.Store.Resolve(ctx.Selection.IDs()[0])
	if !ok || seat.Kind != element.KindSeat {
		t.Fatalf("selected %+v, want the new seat", seat)
	}
	if seat.ParentID != room.ID {
		t.Errorf("parent = %q, want %q", seat.ParentID, room.ID)
	}
	if seat.X != 270 || seat.Y != 270 {
		t.Errorf("seat at (%v, %v), want (270, 270)", seat.X, seat.Y)
	}
	if _, armed := m.Tool(); !armed {
		t.Error("shift should keep the tool armed")
	}
}

func TestEscapeCancelsDrag(t *testing.T) {
	m, ctx := newTestMachine()
	el := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 50, Height: 50})

	m.PointerDown(at(110, 110))
	m.PointerMove(at(200, 200))
	if !m.HandleKey(KeyEvent{Key: KeyEscape}) {
		t.Fatal("escape not handled")
	}
	if m.State() != Idle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if got := mustGet(t, ctx, el.ID); got.X != 100 || got.Y != 100 {
		t.Errorf("element at (%v, %v), want (100, 100)", got.X, got.Y)
	}
	m.PointerUp(at(200, 200))
	if got := mustGet(t, ctx, el.ID); got.X != 100 {
		t.Errorf("pointer up after cancel moved element to %v", got.X)
	}
}

func TestShiftClickToggles(t *testing.T) {
	m, ctx := newTestMachine()
	a := add(ctx, element.Element{Kind: element.KindStairs, X: 0, Y: 0, Width: 50, Height: 50})
	b := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 0, Width: 50, Height: 50})
	shift := func(x, y float64) {
		p := Pointer{X: x, Y: y, Button: ButtonPrimary, Mods: ModShift}
		m.PointerDown(p)
		m.PointerUp(p)
	}

	m.PointerDown(at(10, 10))
	m.PointerUp(at(10, 10))
	shift(110, 10)
	if ctx.Selection.Len() != 2 {
		t.Fatalf("selection = %v, want both", ctx.Selection.IDs())
	}
	shift(10, 10)
	ids := ctx.Selection.IDs()
	if len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("selection = %v, want [%s]", ids, b.ID)
	}
	if ctx.Selection.Contains(a.ID) {
		t.Error("a still selected")
	}
}

func TestClickSelectsGroup(t *testing.T) {
	m, ctx := newTestMachine()
	a := add(ctx, element.Element{Kind: element.KindStairs, X: 0, Y: 0, Width: 50, Height: 50, GroupID: "g"})
	b := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 0, Width: 50, Height: 50, GroupID: "g"})
	add(ctx, element.Element{Kind: element.KindStairs, X: 200, Y: 0, Width: 50, Height: 50})

	m.PointerDown(at(10, 10))
	m.PointerUp(at(10, 10))
	if ctx.Selection.Len() != 2 || !ctx.Selection.Contains(a.ID) || !ctx.Selection.Contains(b.ID) {
		t.Errorf("selection = %v, want the group", ctx.Selection.IDs())
	}
}

func TestLockedElementsDoNotMove(t *testing.T) {
	m, ctx := newTestMachine()
	el := add(ctx, element.Element{Kind: element.KindStairs, X: 100, Y: 100, Width: 50, Height: 50, Locked: true})

	m.PointerDown(at(110, 110))
	if m.State() != Idle {
		t.Errorf("state = %v, want idle for a locked element", m.State())
	}
	if !ctx.Selection.Contains(el.ID) {
		t.Error("locked element should still be selectable")
	}
	if m.Nudge(10, 0) {
		t.Error("nudge moved a locked element")
	}
}

func TestWheelZoomsAboutPointer(t *testing.T) {
	m, ctx := newTestMachine()
	m.Wheel(Pointer{X: 200, Y: 100}, 1)
	if z := ctx.View.Zoom(); z != WheelFactor {
		t.Errorf("zoom = %v, want %v", z, WheelFactor)
	}
	x, y := ctx.View.ScreenToCanvas(200, 100)
	if d := (x-200)*(x-200) + (y-100)*(y-100); d > 1e-12 {
		t.Errorf("pivot drifted to (%v, %v)", x, y)
	}
}
