package main

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/floorplan/pkg/config"
	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/interact"
	"github.com/ha1tch/floorplan/pkg/persist"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name   string
		ev     *tcell.EventKey
		want   interact.KeyEvent
		wantOK bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, ']', tcell.ModNone),
			interact.KeyEvent{Key: interact.KeyRune, Rune: ']'}, true},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, '}', tcell.ModShift),
			interact.KeyEvent{Key: interact.KeyRune, Rune: '}', Mods: interact.ModShift}, true},
		{"ctrl z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl),
			interact.KeyEvent{Key: interact.KeyRune, Rune: 'z', Mods: interact.ModCtrl}, true},
		{"ctrl y without mod bit", tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModNone),
			interact.KeyEvent{Key: interact.KeyRune, Rune: 'y', Mods: interact.ModCtrl}, true},
		{"ctrl shift z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl|tcell.ModShift),
			interact.KeyEvent{Key: interact.KeyRune, Rune: 'z', Mods: interact.ModCtrl | interact.ModShift}, true},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone),
			interact.KeyEvent{Key: interact.KeyDelete}, true},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
			interact.KeyEvent{Key: interact.KeyBackspace}, true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			interact.KeyEvent{Key: interact.KeyEscape}, true},
		{"shift left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift),
			interact.KeyEvent{Key: interact.KeyLeft, Mods: interact.ModShift}, true},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), interact.KeyEvent{}, false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), interact.KeyEvent{}, false},
		{"f1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), interact.KeyEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.ev)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("translateKey = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTranslateMods(t *testing.T) {
	got := translateMods(tcell.ModShift | tcell.ModAlt)
	if !got.Has(interact.ModShift) || !got.Has(interact.ModAlt) || got.Has(interact.ModCtrl) {
		t.Errorf("translateMods = %b", got)
	}
	if translateMods(tcell.ModNone) != 0 {
		t.Error("no modifiers should map to zero")
	}
}

func TestPointerAt(t *testing.T) {
	x, y := pointerAt(10, 4)
	if x != 10.5 || y != 9 {
		t.Errorf("pointerAt(10, 4) = %v, %v; want 10.5, 9", x, y)
	}
}

func TestPressedButton(t *testing.T) {
	tests := []struct {
		mask tcell.ButtonMask
		want interact.Button
		ok   bool
	}{
		{tcell.ButtonPrimary, interact.ButtonPrimary, true},
		{tcell.ButtonMiddle, interact.ButtonMiddle, true},
		{tcell.ButtonSecondary, interact.ButtonSecondary, true},
		{tcell.ButtonPrimary | tcell.ButtonSecondary, interact.ButtonPrimary, true},
		{tcell.ButtonNone, 0, false},
	}
	for _, tt := range tests {
		got, ok := pressedButton(tt.mask)
		if got != tt.want || ok != tt.ok {
			t.Errorf("pressedButton(%v) = %v, %v; want %v, %v", tt.mask, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestContrast(t *testing.T) {
	if contrast(color.White) != tcell.ColorBlack {
		t.Error("white background should get black text")
	}
	if contrast(color.Black) != tcell.ColorWhite {
		t.Error("black background should get white text")
	}
}

func TestCellStyle(t *testing.T) {
	fg, bg, _ := cellStyle(color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}).Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("cellStyle fg=%v bg=%v", fg, bg)
	}
}

func TestClipboardRoundTrip(t *testing.T) {
	c := persist.Codec{}
	els := []element.Element{
		{ID: "room", Kind: element.KindRoom, X: 10, Y: 20, Width: 200, Height: 100, Label: "Lab", PageNumber: 1,
			Style: element.Style{Opacity: 1, BorderWidth: 1}},
		{ID: "seat", Kind: element.KindSeat, X: 30, Y: 40, Width: 20, Height: 20, ParentID: "room", PageNumber: 1,
			Style: element.Style{Opacity: 1, BorderWidth: 1}},
	}
	text, err := encodeClip(c, els)
	if err != nil {
		t.Fatalf("encodeClip: %v", err)
	}
	got, err := decodeClip(c, text)
	if err != nil {
		t.Fatalf("decodeClip: %v", err)
	}
	if len(got) != 2 || got[0].Label != "Lab" || got[1].ParentID != "room" {
		t.Fatalf("decodeClip = %+v", got)
	}

	s := element.NewStore()
	s.SetPage(3)
	placed := placeClip(s, got)
	if len(placed) != 2 {
		t.Fatalf("placed %d, want 2", len(placed))
	}
	if placed[0].ID == "room" || placed[0].X != 10+element.DuplicateOffset || placed[0].PageNumber != 3 {
		t.Errorf("placed room = %+v", placed[0])
	}
	seat, _ := s.Resolve(placed[1].ID)
	if seat.ParentID != placed[0].ID {
		t.Errorf("seat parent = %q, want %q", seat.ParentID, placed[0].ID)
	}
}

func TestDecodeClipRejectsForeignText(t *testing.T) {
	for _, text := range []string{"", "hello", `{"kind":"other","elements":[]}`} {
		if _, err := decodeClip(persist.Codec{}, text); err != errNotPlan {
			t.Errorf("decodeClip(%q) err = %v, want errNotPlan", text, err)
		}
	}
}

func TestDecodeClipSkipsBadRecords(t *testing.T) {
	text := `{"kind":"floorplan/elements","elements":[` +
		`{"elementType":"room","xCoordinate":1,"yCoordinate":2,"width":10,"height":10},` +
		`{"elementType":"spaceship","xCoordinate":1,"yCoordinate":2},` +
		`{"elementType":"seat"}]}`
	got, err := decodeClip(persist.Codec{}, text)
	if err != nil {
		t.Fatalf("decodeClip: %v", err)
	}
	if len(got) != 1 || got[0].Kind != element.KindRoom {
		t.Errorf("decodeClip = %+v, want one room", got)
	}
}

func TestEditorTracksEdits(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Autosave = false
	ed := newEditor(cfg, "")

	if ed.modified {
		t.Fatal("new editor should not be modified")
	}
	ed.ctx.AddElement(element.Element{Kind: element.KindRoom, X: 0, Y: 0, Width: 100, Height: 100})
	if !ed.modified {
		t.Error("adding an element should mark the editor modified")
	}
	if got := ed.ctx.View.Zoom(); got != startZoom {
		t.Errorf("zoom = %v, want %v", got, startZoom)
	}
}

func TestEditorNotifierShowsMessage(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Autosave = false
	ed := newEditor(cfg, "")

	ed.ctx.AddElement(element.Element{Kind: element.KindRoom, Width: 100, Height: 100})
	ed.ctx.Undo()
	if ed.message != "Undo: add room" || ed.messageType != MsgInfo {
		t.Errorf("message = %q (%v)", ed.message, ed.messageType)
	}
}

func TestStatusLine(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Autosave = false
	ed := newEditor(cfg, "")
	ed.plan = "hq"
	ed.modified = true
	ed.machine.ArmTool(element.KindSeat)

	want := "hq * | page 1 | 25% | idle | tool seat"
	if got := ed.statusLine(); got != want {
		t.Errorf("statusLine = %q, want %q", got, want)
	}
}
