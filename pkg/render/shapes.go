package render

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/ha1tch/floorplan/pkg/element"
)

// paintElement dispatches on kind. Each kind has one paint function.
func paintElement(dc *gg.Context, el element.Element) {
	dc.Push()
	defer dc.Pop()
	if el.Style.Rotation != 0 {
		cx, cy := el.Center()
		dc.RotateAbout(gg.Radians(el.Style.Rotation), cx, cy)
	}
	switch el.Kind {
	case element.KindRoom:
		paintRoom(dc, el)
	case element.KindBuilding:
		paintBuilding(dc, el)
	case element.KindWirelessAP:
		paintAccessPoint(dc, el)
	case element.KindShape:
		paintShape(dc, el)
	case element.KindNameBox:
		paintNameBox(dc, el)
	case element.KindSeat:
		paintSeat(dc, el)
	case element.KindDevice:
		paintDevice(dc, el)
	case element.KindEntrance:
		paintEntrance(dc, el)
	case element.KindStairs:
		paintStairs(dc, el)
	case element.KindToilet:
		paintMarked(dc, el, "WC")
	case element.KindElevator:
		paintElevator(dc, el)
	case element.KindMDFIDF:
		paintMarked(dc, el, "MDF")
	default:
		paintBox(dc, el)
	}
}

// fill returns the element's fill colour at its opacity.
func fill(el element.Element) color.Color {
	hex := el.Style.BackgroundColor
	if hex == "" {
		hex = el.Style.Color
	}
	return parseHex(hex, el.Style.Opacity, color.RGBA{207, 216, 220, 255})
}

func border(el element.Element) color.Color {
	return parseHex(el.Style.BorderColor, el.Style.Opacity, colorText)
}

func borderWidth(el element.Element) float64 {
	if el.Style.BorderWidth > 0 {
		return el.Style.BorderWidth
	}
	return 1
}

// parseHex reads #rgb or #rrggbb; anything else yields fallback.
func parseHex(hex string, opacity float64, fallback color.RGBA) color.Color {
	c := fallback
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		if v, err := strconv.ParseUint(h, 16, 32); err == nil {
			c = color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
		}
	}
	switch {
	case math.IsNaN(opacity) || opacity > 1:
		opacity = 1
	case opacity < 0:
		opacity = 0
	}
	return color.NRGBA{c.R, c.G, c.B, uint8(opacity * 255)}
}

func paintBox(dc *gg.Context, el element.Element) {
	dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
	dc.SetColor(fill(el))
	dc.FillPreserve()
	dc.SetColor(border(el))
	dc.SetLineWidth(borderWidth(el))
	dc.Stroke()
}

func paintLabel(dc *gg.Context, text string, x, y, ax, ay float64) {
	if text == "" {
		return
	}
	dc.SetColor(colorText)
	dc.DrawStringAnchored(text, x, y, ax, ay)
}

func paintRoom(dc *gg.Context, el element.Element) {
	paintBox(dc, el)
	cx, _ := el.Center()
	paintLabel(dc, el.Label, cx, el.Y+14, 0.5, 0.5)
}

func paintBuilding(dc *gg.Context, el element.Element) {
	dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
	dc.SetColor(fill(el))
	dc.FillPreserve()
	dc.SetColor(border(el))
	dc.SetLineWidth(borderWidth(el) * 3)
	dc.Stroke()
	paintLabel(dc, el.Label, el.X+8, el.Y+16, 0, 0)
}

func paintAccessPoint(dc *gg.Context, el element.Element) {
	cx, cy := el.Center()
	dc.DrawCircle(cx, cy, el.Radius)
	dc.SetColor(fill(el))
	dc.FillPreserve()
	dc.SetColor(border(el))
	dc.SetLineWidth(borderWidth(el))
	dc.Stroke()
	// signal rings
	for i := 1; i <= 2; i++ {
		dc.DrawArc(cx, cy, el.Radius*0.3*float64(i), gg.Radians(-135), gg.Radians(-45))
		dc.Stroke()
	}
	paintLabel(dc, el.Label, cx, el.Y+el.Height+10, 0.5, 0.5)
}

func paintShape(dc *gg.Context, el element.Element) {
	if el.IsCircular() {
		cx, cy := el.Center()
		dc.DrawCircle(cx, cy, el.Radius)
		dc.SetColor(fill(el))
		dc.FillPreserve()
		dc.SetColor(border(el))
		dc.SetLineWidth(borderWidth(el))
		dc.Stroke()
	} else {
		paintBox(dc, el)
	}
	cx, cy := el.Center()
	paintLabel(dc, el.Label, cx, cy, 0.5, 0.5)
}

func paintNameBox(dc *gg.Context, el element.Element) {
	paintBox(dc, el)
	cx, cy := el.Center()
	paintLabel(dc, el.Label, cx, cy, 0.5, 0.5)
}

func paintSeat(dc *gg.Context, el element.Element) {
	r := el.Width * 0.2
	dc.DrawRoundedRectangle(el.X, el.Y, el.Width, el.Height, r)
	dc.SetColor(fill(el))
	dc.FillPreserve()
	dc.SetColor(border(el))
	dc.SetLineWidth(borderWidth(el))
	dc.Stroke()
	cx, cy := el.Center()
	paintLabel(dc, el.Label, cx, cy, 0.5, 0.5)
}

func paintDevice(dc *gg.Context, el element.Element) {
	paintBox(dc, el)
	inset := el.Width * 0.25
	dc.DrawRectangle(el.X+inset, el.Y+inset, el.Width-2*inset, el.Height-2*inset)
	dc.Stroke()
}

func paintEntrance(dc *gg.Context, el element.Element) {
	paintBox(dc, el)
	// door swing
	dc.DrawArc(el.X, el.Y+el.Height, el.Width, gg.Radians(-90), 0)
	dc.Stroke()
}

func paintStairs(dc *gg.Context, el element.Element) {
	paintBox(dc, el)
	steps := 6
	for i := 1; i < steps; i++ {
		y := el.Y + el.Height*float64(i)/float64(steps)
		dc.DrawLine(el.X, y, el.X+el.Width, y)
	}
	dc.Stroke()
}

func paintElevator(dc *gg.Context, el element.Element) {
	paintBox(dc, el)
	dc.DrawLine(el.X, el.Y, el.X+el.Width, el.Y+el.Height)
	dc.DrawLine(el.X+el.Width, el.Y, el.X, el.Y+el.Height)
	dc.Stroke()
}

// paintMarked draws a box with a short centred marker when there is no label.
func paintMarked(dc *gg.Context, el element.Element, marker string) {
	paintBox(dc, el)
	text := el.Label
	if text == "" {
		text = marker
	}
	cx, cy := el.Center()
	paintLabel(dc, text, cx, cy, 0.5, 0.5)
}
