package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/gdamore/tcell/v2"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleStatus     = tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
	styleHint       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHelpTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

const upperHalf = '▀'

func (ed *Editor) draw() {
	w, h := ed.screen.Size()
	if ed.mode == ModeHelp {
		ed.screen.Clear()
		ed.drawHelp(w, h)
		return
	}

	pw, ph := ed.canvasPixels()
	if ed.frame == nil || ed.frame.Width() != pw || ed.frame.Height() != ph {
		ed.frame = gg.NewContext(pw, ph)
		ed.ctx.View.MarkDirty()
	}
	ed.engine.Tick(ed.frame)
	ed.blit(ed.frame.Image(), w, h-2)
	ed.drawLabels(w, h-2)
	ed.drawStatusBar(w, h)

	if ed.mode == ModeInput {
		ed.drawInputBox(w, h)
	}
}

// blit copies img onto the top rows of the screen, two pixels per cell.
func (ed *Editor) blit(img image.Image, cols, rows int) {
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := img.At(col, row*2)
			bottom := img.At(col, row*2+1)
			ed.screen.SetContent(col, row, upperHalf, nil, cellStyle(top, bottom))
		}
	}
}

func cellStyle(top, bottom color.Color) tcell.Style {
	return styleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
}

func toTcell(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// contrast picks black or white text for a background.
func contrast(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
	if lum > 140 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}

// drawLabels writes element labels as text, centred on each element.
// Labels that do not fit inside the element on screen are skipped.
func (ed *Editor) drawLabels(cols, rows int) {
	img := ed.frame.Image()
	for _, el := range ed.ctx.Store.Sorted() {
		if el.Label == "" {
			continue
		}
		x0, y0 := ed.ctx.View.CanvasToScreen(el.X, el.Y)
		x1, y1 := ed.ctx.View.CanvasToScreen(el.X+el.Width, el.Y+el.Height)
		width := int(x1 - x0)
		if width < 3 || y1-y0 < 2 {
			continue
		}
		label := truncate(el.Label, width)
		col := int((x0+x1)/2) - len([]rune(label))/2
		row := int((y0 + y1) / 4)
		if row < 0 || row >= rows {
			continue
		}
		for i, r := range []rune(label) {
			c := col + i
			if c < 0 || c >= cols {
				continue
			}
			bg := img.At(c, row*2+1)
			style := styleDefault.Background(toTcell(bg)).Foreground(contrast(bg))
			ed.screen.SetContent(c, row, r, nil, style)
		}
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	hint := "?:help  r/b/a/h/n/t/d/e/x/w/l/m:draw  ^S:save  ^O:open  ^E:export  Tab:box select  q:quit"
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, h-2, ' ', nil, styleDefault)
	}
	if ed.message != "" {
		ed.drawString(1, h-2, truncate(ed.message, w-2), ed.messageStyle())
	} else {
		ed.drawString(1, h-2, truncate(hint, w-2), styleHint)
	}

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	ed.drawString(1, h-1, truncate(ed.statusLine(), w-2), styleStatus)
}

func (ed *Editor) statusLine() string {
	plan := ed.plan
	if plan == "" {
		plan = "[untitled]"
	}
	if ed.modified {
		plan += " *"
	}
	if ed.sync.Saving() {
		plan += " (saving)"
	}
	st := ed.ctx.View.State()
	parts := []string{
		plan,
		fmt.Sprintf("page %d", ed.ctx.Store.Page()),
		fmt.Sprintf("%.0f%%", st.Zoom*100),
		ed.machine.State().String(),
	}
	if kind, ok := ed.machine.Tool(); ok {
		parts = append(parts, "tool "+string(kind))
	}
	if n := ed.ctx.Selection.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if st.SnapToGrid {
		parts = append(parts, "snap")
	}
	if ed.machine.BoxSelect {
		parts = append(parts, "box")
	}
	return strings.Join(parts, " | ")
}

func (ed *Editor) messageStyle() tcell.Style {
	switch ed.messageType {
	case MsgError:
		return styleMsgError
	case MsgSuccess:
		return styleMsgSuccess
	case MsgWarning:
		return styleMsgWarning
	}
	return styleMsgInfo
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	if boxW > w-4 {
		boxW = w - 4
	}
	boxH := 3
	x := (w - boxW) / 2
	y := (h - boxH) / 2

	ed.drawBox(x, y, boxW, boxH, "")
	for i := 1; i < boxW-1; i++ {
		ed.screen.SetContent(x+i, y+1, ' ', nil, styleInput)
	}
	text := ed.inputPrompt + ed.inputBuffer + "_"
	if n := len([]rune(text)); n > boxW-2 {
		text = string([]rune(text)[n-(boxW-2):])
	}
	ed.drawString(x+1, y+1, text, styleInput)
}

func (ed *Editor) drawHelp(w, h int) {
	lines := strings.Split(helpText, "\n")
	maxScroll := len(lines) - (h - 2)
	if maxScroll < 0 {
		maxScroll = 0
	}
	if ed.helpScrollOffset > maxScroll {
		ed.helpScrollOffset = maxScroll
	}
	ed.drawString(2, 0, "Floor plan editor: keys and mouse", styleHelpTitle)
	for i := 0; i < h-2 && i+ed.helpScrollOffset < len(lines); i++ {
		ed.drawString(2, i+1, truncate(lines[i+ed.helpScrollOffset], w-4), styleHelp)
	}
	ed.drawString(2, h-1, "Up/Down/PgUp/PgDn scroll, any other key closes", styleHint)
}

const helpText = `MOUSE
  Click             select (the whole group)
  Shift/Ctrl+click  add to or remove from the selection
  Drag element      move the selection; containers carry their contents
  Drag handle       resize
  Drag empty space  pan, or box select in box mode (Tab) or with Shift
  Middle drag       pan
  Alt+drag          zoom, upward zooms in
  Wheel             zoom about the pointer

DRAWING TOOLS
  r room       b building    a access point   h shape
  n name box   t seat        d device         e entrance
  x stairs     w toilet      l elevator       m MDF/IDF
  Click to place at the default size or drag a rectangle.
  Hold Shift to keep the tool armed. Esc disarms.

EDITING
  Arrows         nudge by 1, Shift by a grid step
  Del/Backspace  delete (children too)
  Ctrl+Z         undo      Ctrl+Y, Ctrl+Shift+Z  redo
  Ctrl+C/V       copy and paste, also through the system clipboard
  Ctrl+D         duplicate
  Ctrl+A         select all on the page
  Ctrl+L         edit label
  Ctrl+K         lock or unlock
  ] [            forward and backward, } { to front and back
  F2-F5          align left, right, top, bottom
  F6 F7          align centres horizontally, vertically
  F8 F9          distribute horizontally, vertically

VIEW
  g  grid       G  snap to grid    f  fit to content
  +  zoom in    -  zoom out        0  reset
  PgUp/PgDn     previous and next page

FILES
  Ctrl+S  save      Ctrl+O  open      Ctrl+E  export PNG
  q       quit (asks when there are unsaved edits)`

func (ed *Editor) drawBox(x, y, w, h int, title string) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y, '─', nil, styleBorder)
		ed.screen.SetContent(x+i, y+h-1, '─', nil, styleBorder)
	}
	for i := 1; i < h-1; i++ {
		ed.screen.SetContent(x, y+i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, y+i, '│', nil, styleBorder)
	}
	if title != "" {
		ed.drawString(x+2, y, " "+title+" ", styleBorder)
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
