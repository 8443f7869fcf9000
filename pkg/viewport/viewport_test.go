package viewport

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestScreenCanvasRoundTrip(t *testing.T) {
	views := []struct {
		zoom, panX, panY float64
	}{
		{1, 0, 0},
		{0.1, -300, 42.5},
		{2.5, 1000, -77},
		{5, 13.25, 0.5},
	}
	points := [][2]float64{{0, 0}, {123.4, 567.8}, {-50, 9999}, {0.001, -0.001}}

	for _, vw := range views {
		v := New(0, 0)
		v.Update(Patch{Zoom: &vw.zoom, PanX: &vw.panX, PanY: &vw.panY})
		for _, p := range points {
			cx, cy := v.ScreenToCanvas(p[0], p[1])
			sx, sy := v.CanvasToScreen(cx, cy)
			if !near(sx, p[0]) || !near(sy, p[1]) {
				t.Errorf("zoom=%v pan=(%v,%v): (%v,%v) round-tripped to (%v,%v)",
					vw.zoom, vw.panX, vw.panY, p[0], p[1], sx, sy)
			}
		}
	}
}

func TestScreenToCanvasFormula(t *testing.T) {
	v := New(0, 0)
	z, px, py := 2.0, 100.0, 40.0
	v.Update(Patch{Zoom: &z, PanX: &px, PanY: &py})
	x, y := v.ScreenToCanvas(300, 140)
	if !near(x, 100) || !near(y, 50) {
		t.Errorf("got (%v,%v), want (100,50)", x, y)
	}
}

func TestSetZoomAtPreservesAnchor(t *testing.T) {
	v := New(0, 0)
	v.PanTo(37, -12)
	tests := []struct {
		zoom, px, py float64
	}{
		{2, 400, 300},
		{0.5, 10, 10},
		{4.2, -30, 800},
		{100, 200, 200}, // clamped
	}
	for _, tt := range tests {
		bx, by := v.ScreenToCanvas(tt.px, tt.py)
		v.SetZoomAt(tt.zoom, tt.px, tt.py)
		ax, ay := v.ScreenToCanvas(tt.px, tt.py)
		if math.Abs(ax-bx) > 1e-6 || math.Abs(ay-by) > 1e-6 {
			t.Errorf("zoom %v at (%v,%v): anchor moved from (%v,%v) to (%v,%v)",
				tt.zoom, tt.px, tt.py, bx, by, ax, ay)
		}
	}
	if v.Zoom() != MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", v.Zoom(), MaxZoom)
	}
}

func TestZoomClamped(t *testing.T) {
	v := New(0, 0)
	v.SetZoom(0.001)
	if v.Zoom() != MinZoom {
		t.Errorf("zoom = %v, want %v", v.Zoom(), MinZoom)
	}
	v.SetZoom(math.NaN())
	if v.Zoom() != 1 {
		t.Errorf("NaN zoom = %v, want 1", v.Zoom())
	}
}

func TestSnap(t *testing.T) {
	v := New(0, 0)
	if x, y := v.Snap(13, 27); x != 13 || y != 27 {
		t.Errorf("snap off: got (%v,%v)", x, y)
	}
	on := true
	v.Update(Patch{SnapToGrid: &on})
	if x, y := v.Snap(13, 27); x != 20 || y != 20 {
		t.Errorf("snap on: got (%v,%v), want (20,20)", x, y)
	}
	if x, y := v.Snap(-9, 31); x != 0 || y != 40 {
		t.Errorf("snap negatives: got (%v,%v), want (0,40)", x, y)
	}
}

func TestDirtyFlag(t *testing.T) {
	v := New(0, 0)
	if !v.TakeDirty() {
		t.Error("new viewport should start dirty")
	}
	if v.Dirty() {
		t.Error("TakeDirty did not clear the flag")
	}
	v.PanBy(1, 1)
	if !v.TakeDirty() {
		t.Error("PanBy did not mark dirty")
	}
}

func TestFitToContent(t *testing.T) {
	v := New(0, 0)
	v.FitToContent(0, 0, 1000, 500, 1020, 520, 10)
	if !near(v.Zoom(), 1) {
		t.Errorf("zoom = %v, want 1", v.Zoom())
	}
	sx, sy := v.CanvasToScreen(0, 0)
	if !near(sx, 10) || !near(sy, 10) {
		t.Errorf("origin at (%v,%v), want (10,10)", sx, sy)
	}
}

func TestClampToCanvas(t *testing.T) {
	v := New(100, 100)
	x, y := v.ClampToCanvas(95, -5, 10, 10)
	if x != 90 || y != 0 {
		t.Errorf("got (%v,%v), want (90,0)", x, y)
	}
}
