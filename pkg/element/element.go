// Package element holds the visual elements of a floor plan and the store
// that owns them.
package element

// Style is the paint style of an element.
type Style struct {
	Color           string
	BackgroundColor string
	BorderColor     string
	BorderWidth     float64
	Opacity         float64
	Rotation        float64 // degrees, clockwise about the centre
}

// Element is a single visual unit placed on the canvas.
//
// X and Y are always the top-left corner of the bounding box. Circular
// elements also carry Radius; their centre is (X+Radius, Y+Radius) and
// Width and Height are kept at 2*Radius.
type Element struct {
	ID          string
	Kind        Kind
	X, Y        float64
	Width       float64
	Height      float64
	Radius      float64
	ShapeType   string // "rectangle" or "circle" for KindShape
	Style       Style
	ZIndex      int
	Label       string
	ParentID    string // weak reference, never ownership
	ReferenceID string // external entity such as a classroom or access point
	PageNumber  int
	GroupID     string
	Locked      bool

	seq uint64 // insertion order, breaks z ties
}

// IsCircular reports whether the element hit-tests and paints as a disc.
func (e Element) IsCircular() bool {
	switch e.Kind {
	case KindWirelessAP:
		return true
	case KindShape:
		return e.ShapeType == "circle"
	}
	return false
}

// Bounds returns the element's bounding rectangle.
func (e Element) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
}

// Center returns the centre of the bounding box.
func (e Element) Center() (float64, float64) {
	return e.Bounds().Center()
}

// Shape returns the hit-test geometry for the element.
func (e Element) Shape() Shape {
	if e.IsCircular() {
		return Circle{CX: e.X + e.Radius, CY: e.Y + e.Radius, R: e.Radius}
	}
	return e.Bounds()
}

// normalizeCircle keeps Radius, Width and Height in agreement.
func (e *Element) normalizeCircle() {
	if !e.IsCircular() {
		return
	}
	if e.Radius <= 0 {
		e.Radius = minFloat(e.Width, e.Height) / 2
	}
	e.Width = 2 * e.Radius
	e.Height = 2 * e.Radius
}

// Patch is a shallow update; nil fields are left untouched.
type Patch struct {
	Kind            *Kind
	X, Y            *float64
	Width, Height   *float64
	Radius          *float64
	ShapeType       *string
	Color           *string
	BackgroundColor *string
	BorderColor     *string
	BorderWidth     *float64
	Opacity         *float64
	Rotation        *float64
	ZIndex          *int
	Label           *string
	ParentID        *string
	ReferenceID     *string
	PageNumber      *int
	GroupID         *string
	Locked          *bool
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// Apply merges the patch into e and returns the result.
func (p Patch) Apply(e Element) Element {
	if p.Kind != nil {
		e.Kind = *p.Kind
	}
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Width != nil {
		e.Width = *p.Width
	}
	if p.Height != nil {
		e.Height = *p.Height
	}
	if p.ShapeType != nil {
		e.ShapeType = *p.ShapeType
	}
	if p.Radius != nil {
		e.Radius = *p.Radius
	} else if e.IsCircular() && (p.Width != nil || p.Height != nil) {
		e.Radius = 0 // re-derive from the new size
	}
	if p.Color != nil {
		e.Style.Color = *p.Color
	}
	if p.BackgroundColor != nil {
		e.Style.BackgroundColor = *p.BackgroundColor
	}
	if p.BorderColor != nil {
		e.Style.BorderColor = *p.BorderColor
	}
	if p.BorderWidth != nil {
		e.Style.BorderWidth = *p.BorderWidth
	}
	if p.Opacity != nil {
		e.Style.Opacity = *p.Opacity
	}
	if p.Rotation != nil {
		e.Style.Rotation = *p.Rotation
	}
	if p.ZIndex != nil {
		e.ZIndex = *p.ZIndex
	}
	if p.Label != nil {
		e.Label = *p.Label
	}
	if p.ParentID != nil {
		e.ParentID = *p.ParentID
	}
	if p.ReferenceID != nil {
		e.ReferenceID = *p.ReferenceID
	}
	if p.PageNumber != nil {
		e.PageNumber = *p.PageNumber
	}
	if p.GroupID != nil {
		e.GroupID = *p.GroupID
	}
	if p.Locked != nil {
		e.Locked = *p.Locked
	}
	e.normalizeCircle()
	return e
}

// MoveTo is a patch that only sets the position.
func MoveTo(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Resize is a patch that sets position and size together.
func Resize(r Rect) Patch {
	return Patch{X: &r.X, Y: &r.Y, Width: &r.W, Height: &r.H}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
