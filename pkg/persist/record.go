// Package persist moves a plan between the element store and a remote
// document store: the wire codec, an HTTP client with retries, the
// save/load reconciliation and a debounced autosaver.
package persist

import (
	"errors"
	"fmt"
	"math"

	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/viewport"
)

// ErrMissingCoordinates is returned before any request is made when an
// element has no usable position.
var ErrMissingCoordinates = errors.New("element has no coordinates")

// Record is one element as the remote store sees it.
type Record struct {
	ID              *string  `json:"id"`
	ElementType     string   `json:"elementType"`
	XCoordinate     *float64 `json:"xCoordinate"`
	YCoordinate     *float64 `json:"yCoordinate"`
	Width           float64  `json:"width,omitempty"`
	Height          float64  `json:"height,omitempty"`
	Radius          float64  `json:"radius,omitempty"`
	ShapeType       string   `json:"shapeType,omitempty"`
	Rotation        float64  `json:"rotation,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	Color           string   `json:"color,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	BorderColor     string   `json:"borderColor,omitempty"`
	BorderWidth     *float64 `json:"borderWidth,omitempty"`
	ZIndex          int      `json:"zIndex"`
	ParentID        *string  `json:"parentId"`
	ReferenceID     *string  `json:"referenceId,omitempty"`
	PageNumber      int      `json:"pageNumber,omitempty"`
	Label           string   `json:"label,omitempty"`
	GroupID         string   `json:"groupId,omitempty"`
	IsLocked        bool     `json:"isLocked,omitempty"`
}

// Document is the body of a save and the response of a load: the view
// settings plus the elements of one page.
type Document struct {
	Zoom       *float64 `json:"zoom,omitempty"`
	PanX       *float64 `json:"panX,omitempty"`
	PanY       *float64 `json:"panY,omitempty"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	GridSize   *float64 `json:"gridSize,omitempty"`
	ShowGrid   *bool    `json:"showGrid,omitempty"`
	SnapToGrid *bool    `json:"snapToGrid,omitempty"`
	PageNumber int      `json:"pageNumber,omitempty"`
	Elements   []Record `json:"elements"`
}

// Codec converts between elements and records.
//
// Positions are stored top-left like in memory. CenterAnchor switches
// circular kinds to a centre anchor on the wire for stores that expect
// one; the conversion is by kind, never guessed from the value.
type Codec struct {
	CenterAnchor bool
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func coord(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}

func orZero(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EncodeElement converts e to its wire form. Non-finite coordinates
// become null so Validate can reject them.
func (c Codec) EncodeElement(e element.Element) Record {
	x, y := e.X, e.Y
	if c.CenterAnchor && e.IsCircular() {
		x, y = x+e.Radius, y+e.Radius
	}
	id := e.ID
	r := Record{
		ID:              &id,
		ElementType:     string(e.Kind),
		XCoordinate:     coord(x),
		YCoordinate:     coord(y),
		Width:           orZero(e.Width),
		Height:          orZero(e.Height),
		ShapeType:       e.ShapeType,
		Rotation:        orZero(e.Style.Rotation),
		Color:           e.Style.Color,
		BackgroundColor: e.Style.BackgroundColor,
		BorderColor:     e.Style.BorderColor,
		ZIndex:          e.ZIndex,
		ParentID:        optString(e.ParentID),
		ReferenceID:     optString(e.ReferenceID),
		PageNumber:      e.PageNumber,
		Label:           e.Label,
		GroupID:         e.GroupID,
		IsLocked:        e.Locked,
	}
	if e.IsCircular() {
		r.Radius = orZero(e.Radius)
	}
	if finite(e.Style.Opacity) {
		r.Opacity = element.Ptr(e.Style.Opacity)
	}
	if finite(e.Style.BorderWidth) {
		r.BorderWidth = element.Ptr(e.Style.BorderWidth)
	}
	return r
}

// DecodeRecord converts r to an element. The id and parent are copied
// verbatim; Load resolves them.
func (c Codec) DecodeRecord(r Record) (element.Element, error) {
	kind, err := element.ParseKind(r.ElementType)
	if err != nil {
		return element.Element{}, err
	}
	if r.XCoordinate == nil || r.YCoordinate == nil {
		return element.Element{}, fmt.Errorf("%s: %w", r.ElementType, ErrMissingCoordinates)
	}
	e := element.Element{
		Kind:      kind,
		X:         *r.XCoordinate,
		Y:         *r.YCoordinate,
		Width:     r.Width,
		Height:    r.Height,
		Radius:    r.Radius,
		ShapeType: r.ShapeType,
		Style: element.Style{
			Color:           r.Color,
			BackgroundColor: r.BackgroundColor,
			BorderColor:     r.BorderColor,
			BorderWidth:     1,
			Opacity:         1,
			Rotation:        r.Rotation,
		},
		ZIndex:     r.ZIndex,
		PageNumber: r.PageNumber,
		Label:      r.Label,
		GroupID:    r.GroupID,
		Locked:     r.IsLocked,
	}
	if e.PageNumber == 0 {
		e.PageNumber = 1
	}
	if r.ID != nil {
		e.ID = *r.ID
	}
	if r.ParentID != nil {
		e.ParentID = *r.ParentID
	}
	if r.ReferenceID != nil {
		e.ReferenceID = *r.ReferenceID
	}
	if r.Opacity != nil {
		e.Style.Opacity = *r.Opacity
	}
	if r.BorderWidth != nil {
		e.Style.BorderWidth = *r.BorderWidth
	}
	if kind == element.KindShape && e.ShapeType == "" {
		e.ShapeType = "rectangle"
	}
	if e.IsCircular() {
		if e.Radius <= 0 {
			e.Radius = math.Min(e.Width, e.Height) / 2
		}
		if c.CenterAnchor {
			e.X -= e.Radius
			e.Y -= e.Radius
		}
		e.Width, e.Height = 2*e.Radius, 2*e.Radius
	}
	if e.Width == 0 && e.Height == 0 {
		e.Width, e.Height = kind.DefaultSize()
	}
	return e, nil
}

// Encode builds the save body for one page.
func (c Codec) Encode(els []element.Element, st viewport.State, page int) Document {
	doc := Document{
		Zoom:       element.Ptr(st.Zoom),
		PanX:       element.Ptr(st.PanX),
		PanY:       element.Ptr(st.PanY),
		Width:      element.Ptr(st.Width),
		Height:     element.Ptr(st.Height),
		GridSize:   element.Ptr(st.GridSize),
		ShowGrid:   element.Ptr(st.ShowGrid),
		SnapToGrid: element.Ptr(st.SnapToGrid),
		PageNumber: page,
		Elements:   make([]Record, 0, len(els)),
	}
	for _, e := range els {
		if e.PageNumber == page {
			doc.Elements = append(doc.Elements, c.EncodeElement(e))
		}
	}
	return doc
}

// Validate fails on the first record without both coordinates.
func Validate(doc Document) error {
	for i, r := range doc.Elements {
		if r.XCoordinate == nil || r.YCoordinate == nil {
			id := "<new>"
			if r.ID != nil {
				id = *r.ID
			}
			return fmt.Errorf("element %d (%s %s): %w", i, r.ElementType, id, ErrMissingCoordinates)
		}
	}
	return nil
}

// ViewPatch returns the viewport fields present in doc.
func (doc Document) ViewPatch() viewport.Patch {
	return viewport.Patch{
		Zoom:       doc.Zoom,
		PanX:       doc.PanX,
		PanY:       doc.PanY,
		Width:      doc.Width,
		Height:     doc.Height,
		GridSize:   doc.GridSize,
		ShowGrid:   doc.ShowGrid,
		SnapToGrid: doc.SnapToGrid,
	}
}
