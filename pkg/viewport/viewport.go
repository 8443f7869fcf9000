// Package viewport maps between screen space and canvas space and owns
// the zoom, pan and grid state of an editing session.
package viewport

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Zoom limits and defaults.
const (
	MinZoom         = 0.1
	MaxZoom         = 5.0
	DefaultGridSize = 20.0
	DefaultWidth    = 4000.0
	DefaultHeight   = 3000.0
)

// State is the viewport's full state.
type State struct {
	Zoom       float64
	PanX       float64
	PanY       float64
	Width      float64 // logical canvas size
	Height     float64
	GridSize   float64
	ShowGrid   bool
	SnapToGrid bool
}

// Patch is a shallow update to State; nil fields are untouched.
type Patch struct {
	Zoom       *float64
	PanX       *float64
	PanY       *float64
	Width      *float64
	Height     *float64
	GridSize   *float64
	ShowGrid   *bool
	SnapToGrid *bool
}

// Viewport holds the state and the dirty flag read by the render loop.
// Every mutation goes through Update.
type Viewport struct {
	state State
	dirty bool
}

// New returns a viewport at zoom 1 with the grid shown.
func New(width, height float64) *Viewport {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Viewport{
		state: State{
			Zoom:     1,
			Width:    width,
			Height:   height,
			GridSize: DefaultGridSize,
			ShowGrid: true,
		},
		dirty: true,
	}
}

// State returns a copy of the current state.
func (v *Viewport) State() State { return v.state }

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.state.Zoom }

// Update merges p into the state, clamps zoom and marks the view dirty.
func (v *Viewport) Update(p Patch) {
	s := v.state
	if p.Zoom != nil {
		s.Zoom = ClampZoom(*p.Zoom)
	}
	if p.PanX != nil {
		s.PanX = *p.PanX
	}
	if p.PanY != nil {
		s.PanY = *p.PanY
	}
	if p.Width != nil && *p.Width > 0 {
		s.Width = *p.Width
	}
	if p.Height != nil && *p.Height > 0 {
		s.Height = *p.Height
	}
	if p.GridSize != nil && *p.GridSize > 0 {
		s.GridSize = *p.GridSize
	}
	if p.ShowGrid != nil {
		s.ShowGrid = *p.ShowGrid
	}
	if p.SnapToGrid != nil {
		s.SnapToGrid = *p.SnapToGrid
	}
	v.state = s
	v.dirty = true
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Dirty reports whether a repaint is pending.
func (v *Viewport) Dirty() bool { return v.dirty }

// MarkDirty requests a repaint.
func (v *Viewport) MarkDirty() { v.dirty = true }

// TakeDirty clears the flag and reports whether it was set.
func (v *Viewport) TakeDirty() bool {
	d := v.dirty
	v.dirty = false
	return d
}

// Affine returns the canvas-to-screen transform as a 3x3 matrix.
func (v *Viewport) Affine() *mat.Dense {
	z := v.state.Zoom
	return mat.NewDense(3, 3, []float64{
		z, 0, v.state.PanX,
		0, z, v.state.PanY,
		0, 0, 1,
	})
}

// CanvasToScreen maps a canvas point to screen space.
func (v *Viewport) CanvasToScreen(x, y float64) (float64, float64) {
	var out mat.VecDense
	out.MulVec(v.Affine(), mat.NewVecDense(3, []float64{x, y, 1}))
	return out.AtVec(0), out.AtVec(1)
}

// ScreenToCanvas maps a screen point to canvas space:
// canvasX = (screenX - panX) / zoom.
func (v *Viewport) ScreenToCanvas(sx, sy float64) (float64, float64) {
	var inv mat.Dense
	if err := inv.Inverse(v.Affine()); err != nil {
		// zoom is clamped above zero, so this only trips on NaN pan
		z := v.state.Zoom
		return (sx - v.state.PanX) / z, (sy - v.state.PanY) / z
	}
	var out mat.VecDense
	out.MulVec(&inv, mat.NewVecDense(3, []float64{sx, sy, 1}))
	return out.AtVec(0), out.AtVec(1)
}

// SetZoom changes zoom about the canvas origin.
func (v *Viewport) SetZoom(z float64) {
	v.Update(Patch{Zoom: &z})
}

// SetZoomAt changes zoom so the canvas point under the screen pivot
// (px, py) stays under it.
func (v *Viewport) SetZoomAt(z, px, py float64) {
	cx, cy := v.ScreenToCanvas(px, py)
	z = ClampZoom(z)
	panX := px - cx*z
	panY := py - cy*z
	v.Update(Patch{Zoom: &z, PanX: &panX, PanY: &panY})
}

// ZoomBy multiplies zoom by factor about the pivot.
func (v *Viewport) ZoomBy(factor, px, py float64) {
	v.SetZoomAt(v.state.Zoom*factor, px, py)
}

// PanBy shifts the view by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	x := v.state.PanX + dx
	y := v.state.PanY + dy
	v.Update(Patch{PanX: &x, PanY: &y})
}

// PanTo sets the pan offset.
func (v *Viewport) PanTo(x, y float64) {
	v.Update(Patch{PanX: &x, PanY: &y})
}

// Snap rounds to the nearest grid line when snapping is on.
func (v *Viewport) Snap(x, y float64) (float64, float64) {
	if !v.state.SnapToGrid || v.state.GridSize <= 0 {
		return x, y
	}
	g := v.state.GridSize
	return math.Round(x/g) * g, math.Round(y/g) * g
}

// FitToContent zooms and pans so the canvas box (minX, minY)-(maxX, maxY)
// fills a screen of the given size, leaving margin pixels around it.
func (v *Viewport) FitToContent(minX, minY, maxX, maxY, screenW, screenH, margin float64) {
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 || screenW <= 2*margin || screenH <= 2*margin {
		return
	}
	z := ClampZoom(math.Min((screenW-2*margin)/w, (screenH-2*margin)/h))
	panX := (screenW-w*z)/2 - minX*z
	panY := (screenH-h*z)/2 - minY*z
	v.Update(Patch{Zoom: &z, PanX: &panX, PanY: &panY})
}

// ClampToCanvas keeps a w×h box at (x, y) inside the logical canvas.
func (v *Viewport) ClampToCanvas(x, y, w, h float64) (float64, float64) {
	return clamp(x, 0, v.state.Width-w), clamp(y, 0, v.state.Height-h)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
