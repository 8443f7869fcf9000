package element

import "math"

// Rect is an axis-aligned rectangle in canvas space.
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints builds a normalised rectangle spanning two corners.
func RectFromPoints(x1, y1, x2, y2 float64) Rect {
	return Rect{
		X: math.Min(x1, x2),
		Y: math.Min(y1, y2),
		W: math.Abs(x2 - x1),
		H: math.Abs(y2 - y1),
	}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Overlaps reports whether two rectangles share any area or edge.
func (r Rect) Overlaps(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() && r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{X: x, Y: y, W: math.Max(r.Right(), o.Right()) - x, H: math.Max(r.Bottom(), o.Bottom()) - y}
}

// Circle is a disc in canvas space.
type Circle struct {
	CX, CY, R float64
}

// Contains uses distance to centre.
func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.CX, y-c.CY
	return math.Hypot(dx, dy) <= c.R
}

// Bounds returns the square enclosing the circle.
func (c Circle) Bounds() Rect {
	return Rect{X: c.CX - c.R, Y: c.CY - c.R, W: 2 * c.R, H: 2 * c.R}
}

// Shape is the hit-test geometry of an element.
type Shape interface {
	Contains(x, y float64) bool
	Bounds() Rect
}

// Bounds lets a Rect act as its own Shape.
func (r Rect) Bounds() Rect { return r }

// Handle is one of the eight resize anchors around a bounding box.
type Handle int

const (
	HandleNone Handle = iota - 1
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

// Handles lists the anchors clockwise from the top-left corner.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

// HandlePoint returns where h sits on r.
func (r Rect) HandlePoint(h Handle) (float64, float64) {
	cx, cy := r.Center()
	switch h {
	case HandleNW:
		return r.X, r.Y
	case HandleN:
		return cx, r.Y
	case HandleNE:
		return r.Right(), r.Y
	case HandleE:
		return r.Right(), cy
	case HandleSE:
		return r.Right(), r.Bottom()
	case HandleS:
		return cx, r.Bottom()
	case HandleSW:
		return r.X, r.Bottom()
	case HandleW:
		return r.X, cy
	}
	return cx, cy
}

// Edges reports which edges of the box a handle drags.
func (h Handle) Edges() (left, top, right, bottom bool) {
	switch h {
	case HandleNW:
		return true, true, false, false
	case HandleN:
		return false, true, false, false
	case HandleNE:
		return false, true, true, false
	case HandleE:
		return false, false, true, false
	case HandleSE:
		return false, false, true, true
	case HandleS:
		return false, false, false, true
	case HandleSW:
		return true, false, false, true
	case HandleW:
		return true, false, false, false
	}
	return false, false, false, false
}

// HandleAt returns the handle of r within radius of the point.
func (r Rect) HandleAt(x, y, radius float64) Handle {
	for _, h := range Handles {
		hx, hy := r.HandlePoint(h)
		if math.Abs(x-hx) <= radius && math.Abs(y-hy) <= radius {
			return h
		}
	}
	return HandleNone
}
