// Package render paints a floor plan with gg. Painting runs once per
// animation tick and only while the viewport is dirty.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ha1tch/floorplan/pkg/app"
	"github.com/ha1tch/floorplan/pkg/element"
)

// Overlay supplies the interaction state painted above the elements.
type Overlay interface {
	HoverID() string
	Marquee() (element.Rect, bool)
}

// HandleSize is the side of a resize handle in screen pixels.
const HandleSize = 8.0

// Colours used in rendering
var (
	colorBackground = color.RGBA{250, 250, 250, 255}
	colorGrid       = color.RGBA{224, 224, 224, 255}
	colorSelect     = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorHover      = color.RGBA{100, 181, 246, 255} // #64b5f6
	colorMarquee    = color.RGBA{21, 101, 192, 40}
	colorText       = color.RGBA{51, 51, 51, 255} // #333
	colorReadout    = color.RGBA{102, 102, 102, 255}
)

var (
	faceOnce sync.Once
	faceFont *truetype.Font
)

// newFace returns a Go Regular face at size points.
func newFace(size float64) font.Face {
	faceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			panic(err) // embedded font
		}
		faceFont = f
	})
	return truetype.NewFace(faceFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Engine paints the session held by an app.Context.
type Engine struct {
	ctx     *app.Context
	overlay Overlay
	label   font.Face
	readout font.Face
}

// New returns an engine. overlay may be nil.
func New(ctx *app.Context, overlay Overlay) *Engine {
	return &Engine{
		ctx:     ctx,
		overlay: overlay,
		label:   newFace(12),
		readout: newFace(11),
	}
}

// Paint runs the full pipeline: clear, apply zoom and pan, grid, elements
// in z order, selection and hover overlays, restore, then screen-space
// overlays.
func (e *Engine) Paint(dc *gg.Context) {
	st := e.ctx.View.State()

	dc.SetColor(colorBackground)
	dc.Clear()

	dc.Push()
	dc.Translate(st.PanX, st.PanY)
	dc.Scale(st.Zoom, st.Zoom)

	if st.ShowGrid {
		e.paintGrid(dc)
	}
	dc.SetFontFace(e.label)
	for _, el := range e.ctx.Store.Sorted() {
		paintElement(dc, el)
	}
	e.paintOverlays(dc, st.Zoom)

	dc.Pop()

	e.paintReadout(dc, st.Zoom)
}

// Tick paints only when the viewport is dirty and reports whether it did.
func (e *Engine) Tick(dc *gg.Context) bool {
	if !e.ctx.View.TakeDirty() {
		return false
	}
	e.Paint(dc)
	return true
}

// Loop ticks at the given interval until ctx is done, handing each fresh
// frame to present. Loop must run on the goroutine that owns the session.
func (e *Engine) Loop(ctx context.Context, interval time.Duration, dc *gg.Context, present func(image.Image)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.Tick(dc) && present != nil {
				present(dc.Image())
			}
		}
	}
}

// ExportPNG paints the current view at width×height and encodes it.
func (e *Engine) ExportPNG(w io.Writer, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid export size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	e.Paint(dc)
	return dc.EncodePNG(w)
}

// visible returns the canvas rectangle currently on screen.
func (e *Engine) visible(dc *gg.Context) element.Rect {
	x0, y0 := e.ctx.View.ScreenToCanvas(0, 0)
	x1, y1 := e.ctx.View.ScreenToCanvas(float64(dc.Width()), float64(dc.Height()))
	return element.RectFromPoints(x0, y0, x1, y1)
}

func (e *Engine) paintGrid(dc *gg.Context) {
	st := e.ctx.View.State()
	g := st.GridSize
	if g <= 0 || g*st.Zoom < 4 {
		return // too dense to be useful
	}
	r := e.visible(dc)
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1 / st.Zoom)
	for x := math.Floor(r.X/g) * g; x <= r.Right(); x += g {
		dc.DrawLine(x, r.Y, x, r.Bottom())
	}
	for y := math.Floor(r.Y/g) * g; y <= r.Bottom(); y += g {
		dc.DrawLine(r.X, y, r.Right(), y)
	}
	dc.Stroke()
}

func (e *Engine) paintOverlays(dc *gg.Context, zoom float64) {
	px := 1 / zoom

	if e.overlay != nil {
		if id := e.overlay.HoverID(); id != "" && !e.ctx.Selection.Contains(id) {
			if el, ok := e.ctx.Store.Resolve(id); ok {
				dc.SetColor(colorHover)
				dc.SetLineWidth(2 * px)
				strokeOutline(dc, el)
			}
		}
	}

	selected := e.ctx.Selected()
	for _, el := range selected {
		dc.SetColor(colorSelect)
		dc.SetLineWidth(1.5 * px)
		dc.SetDash(4*px, 3*px)
		strokeOutline(dc, el)
		dc.SetDash()
		if el.Locked || len(selected) > 1 {
			continue
		}
		b := el.Bounds()
		s := HandleSize * px
		for _, h := range element.Handles {
			hx, hy := b.HandlePoint(h)
			dc.DrawRectangle(hx-s/2, hy-s/2, s, s)
			dc.SetColor(color.White)
			dc.FillPreserve()
			dc.SetColor(colorSelect)
			dc.SetLineWidth(px)
			dc.Stroke()
		}
	}

	if e.overlay != nil {
		if r, ok := e.overlay.Marquee(); ok {
			dc.DrawRectangle(r.X, r.Y, r.W, r.H)
			dc.SetColor(colorMarquee)
			dc.FillPreserve()
			dc.SetColor(colorSelect)
			dc.SetLineWidth(px)
			dc.Stroke()
		}
	}
}

func strokeOutline(dc *gg.Context, el element.Element) {
	if el.IsCircular() {
		cx, cy := el.Center()
		dc.DrawCircle(cx, cy, el.Radius)
	} else {
		dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
	}
	dc.Stroke()
}

func (e *Engine) paintReadout(dc *gg.Context, zoom float64) {
	dc.SetFontFace(e.readout)
	dc.SetColor(colorReadout)
	text := fmt.Sprintf("%.0f%%", zoom*100)
	dc.DrawStringAnchored(text, float64(dc.Width())-8, float64(dc.Height())-8, 1, 0)
}
