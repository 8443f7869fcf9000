// Command floorplan is a terminal floor plan editor.
//
// The plan is painted with the same pipeline used for PNG export and
// shown with half-block characters: each cell is one pixel wide and two
// pixels tall.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/floorplan/pkg/app"
	"github.com/ha1tch/floorplan/pkg/config"
	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/interact"
	"github.com/ha1tch/floorplan/pkg/notify"
	"github.com/ha1tch/floorplan/pkg/persist"
	"github.com/ha1tch/floorplan/pkg/render"
	"github.com/ha1tch/floorplan/pkg/viewport"
)

// Editor holds all editor state
type Editor struct {
	screen  tcell.Screen
	ctx     *app.Context
	machine *interact.Machine
	engine  *render.Engine
	frame   *gg.Context
	sync    *persist.Manager
	auto    *persist.Autosaver

	config     config.Config
	configPath string
	plan       string // target id on the store
	modified   bool
	mode       Mode

	message      string
	messageType  MessageType
	messageStamp int64

	// Mouse button state from the previous event
	buttons tcell.ButtonMask

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	// Help scroll state
	helpScrollOffset int
}

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
	MsgWarning
)

// Initial zoom: a 4000 unit canvas is 1000 cells wide.
const startZoom = 0.25

// Size of exported images.
const (
	exportWidth  = 1600
	exportHeight = 1200
)

func main() {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	ed := newEditor(cfg, cfgPath)
	if len(os.Args) > 1 {
		ed.plan = os.Args[1]
	} else {
		ed.plan = cfg.LastPlan
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	if ed.plan != "" {
		ed.load(ed.plan)
	}

	ed.run()

	if ed.auto != nil {
		ed.auto.Stop()
	}
	screen.Fini()
}

func newEditor(cfg config.Config, cfgPath string) *Editor {
	ed := &Editor{config: cfg, configPath: cfgPath}
	ed.ctx = app.New(app.Options{
		CanvasWidth:  cfg.Editor.CanvasWidth,
		CanvasHeight: cfg.Editor.CanvasHeight,
		UndoLevels:   cfg.Editor.UndoLevels,
		Notifier:     notify.Func(ed.notify),
	})
	zoom := startZoom
	ed.ctx.View.Update(viewport.Patch{
		Zoom:       &zoom,
		GridSize:   &cfg.Editor.GridSize,
		ShowGrid:   &cfg.Editor.ShowGrid,
		SnapToGrid: &cfg.Editor.SnapToGrid,
	})
	ed.machine = interact.New(ed.ctx)
	ed.engine = render.New(ed.ctx, ed.machine)

	client := persist.NewClient(cfg.Server, cfg.Collection)
	ed.sync = persist.NewManager(ed.ctx, client)
	ed.sync.Codec.CenterAnchor = cfg.Editor.CenterAnchor

	if cfg.Editor.Autosave {
		ed.auto = persist.NewAutosaver(cfg.Editor.AutosaveDelay(), func() {
			ed.post(ed.autosave)
		})
	}
	ed.ctx.OnEdit(func() {
		ed.modified = true
		if ed.auto != nil && ed.plan != "" {
			ed.auto.Touch()
		}
	})
	return ed
}

// post runs fn on the event loop goroutine.
func (ed *Editor) post(fn func()) {
	if ed.screen == nil {
		fn()
		return
	}
	ed.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.frame = nil
			ed.ctx.View.MarkDirty()
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			if fn, ok := ev.Data().(func()); ok {
				fn()
			}
		case nil:
			return
		}
	}
}

func (ed *Editor) notify(title, message string, severity notify.Severity, _ time.Duration) {
	text := title
	if message != "" {
		text += ": " + message
	}
	switch severity {
	case notify.Error:
		ed.showMessage(text, MsgError)
	case notify.Warning:
		ed.showMessage(text, MsgWarning)
	case notify.Success:
		ed.showMessage(text, MsgSuccess)
	default:
		ed.showMessage(text, MsgInfo)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	stamp := time.Now().UnixMilli()
	ed.messageStamp = stamp
	time.AfterFunc(4*time.Second, func() {
		ed.post(func() {
			if ed.messageStamp == stamp {
				ed.message = ""
			}
		})
	})
}

// Sync operations

func (ed *Editor) background() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

func (ed *Editor) save() {
	if ed.plan == "" {
		ed.prompt("Save as plan: ", func(id string) {
			if id != "" {
				ed.plan = id
				ed.save()
			}
		})
		return
	}
	ctx, cancel := ed.background()
	plan := ed.plan
	ed.sync.SaveAsync(ctx, plan, ed.post, func(err error) {
		cancel()
		if err != nil {
			ed.showMessage("Save failed: "+err.Error(), MsgError)
			return
		}
		ed.modified = false
		ed.rememberPlan(plan)
		ed.showMessage("Saved: "+plan, MsgSuccess)
	})
	if ed.sync.Saving() {
		ed.showMessage("Saving "+plan+"...", MsgInfo)
	}
}

// autosave saves without telling the user unless it fails.
func (ed *Editor) autosave() {
	if ed.plan == "" || !ed.modified {
		return
	}
	ctx, cancel := ed.background()
	ed.sync.SaveAsync(ctx, ed.plan, ed.post, func(err error) {
		cancel()
		switch {
		case errors.Is(err, persist.ErrSaveInProgress):
			ed.auto.Touch()
		case err != nil:
			ed.showMessage("Autosave failed: "+err.Error(), MsgError)
		default:
			ed.modified = false
		}
	})
}

func (ed *Editor) load(plan string) {
	ctx, cancel := ed.background()
	ed.showMessage("Loading "+plan+"...", MsgInfo)
	ed.sync.LoadAsync(ctx, plan, ed.post, func(n int, err error) {
		cancel()
		if err != nil {
			ed.showMessage("Load failed: "+err.Error(), MsgError)
			return
		}
		ed.plan = plan
		ed.modified = false
		ed.rememberPlan(plan)
		ed.fitToContent()
		if n == 0 {
			ed.showMessage("New plan: "+plan, MsgInfo)
		} else {
			ed.showMessage(fmt.Sprintf("Loaded %s (%d elements)", plan, n), MsgSuccess)
		}
	})
}

func (ed *Editor) rememberPlan(plan string) {
	if ed.config.LastPlan == plan {
		return
	}
	ed.config.LastPlan = plan
	if err := config.Save(ed.configPath, ed.config); err != nil {
		ed.showMessage("Failed to save config: "+err.Error(), MsgError)
	}
}

func (ed *Editor) exportPNG() {
	name := ed.plan
	if name == "" {
		name = "floorplan"
	}
	path := filepath.Join(ed.config.LastDir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	defer f.Close()

	// Export a fitted view rather than the terminal's.
	saved := ed.ctx.View.State()
	if r, ok := ed.ctx.Store.ContentBounds(); ok {
		ed.ctx.View.FitToContent(r.X, r.Y, r.Right(), r.Bottom(), exportWidth, exportHeight, 40)
	}
	err = ed.engine.ExportPNG(f, exportWidth, exportHeight)
	ed.ctx.View.Update(viewport.Patch{Zoom: &saved.Zoom, PanX: &saved.PanX, PanY: &saved.PanY})
	if err != nil {
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Exported: "+path, MsgSuccess)
}

// View operations

func (ed *Editor) canvasPixels() (int, int) {
	w, h := ed.screen.Size()
	rows := h - 2
	if rows < 1 {
		rows = 1
	}
	return w, rows * 2
}

func (ed *Editor) fitToContent() {
	r, ok := ed.ctx.Store.ContentBounds()
	if !ok {
		return
	}
	w, h := ed.canvasPixels()
	ed.ctx.View.FitToContent(r.X, r.Y, r.Right(), r.Bottom(), float64(w), float64(h), 4)
}

func (ed *Editor) zoomCenter(factor float64) {
	w, h := ed.canvasPixels()
	ed.ctx.View.ZoomBy(factor, float64(w)/2, float64(h)/2)
}

func (ed *Editor) setPage(n int) {
	if n < 1 {
		return
	}
	ed.machine.Cancel()
	ed.ctx.Selection.Clear()

	// Pages are saved and loaded one at a time, so unsaved edits go
	// out before the next page replaces them.
	open := func() {
		ed.ctx.Store.SetPage(n)
		if ed.plan == "" {
			ed.showMessage(fmt.Sprintf("Page %d", n), MsgInfo)
			return
		}
		ed.load(ed.plan)
	}
	if ed.plan == "" || !ed.modified {
		open()
		return
	}
	ctx, cancel := ed.background()
	ed.sync.SaveAsync(ctx, ed.plan, ed.post, func(err error) {
		cancel()
		if err != nil {
			ed.showMessage("Save failed, staying on this page: "+err.Error(), MsgError)
			return
		}
		ed.modified = false
		open()
	})
}

func (ed *Editor) toggleGrid() {
	show := !ed.ctx.View.State().ShowGrid
	ed.ctx.View.Update(viewport.Patch{ShowGrid: &show})
}

func (ed *Editor) toggleSnap() {
	snap := !ed.ctx.View.State().SnapToGrid
	ed.ctx.View.Update(viewport.Patch{SnapToGrid: &snap})
	if snap {
		ed.showMessage("Snap to grid on", MsgInfo)
	} else {
		ed.showMessage("Snap to grid off", MsgInfo)
	}
}

func (ed *Editor) toggleLock() {
	sel := ed.ctx.Selected()
	if len(sel) == 0 {
		return
	}
	locked := !sel[0].Locked
	ed.ctx.Mutate("lock", func(s *element.Store) {
		for _, e := range sel {
			s.Update(e.ID, element.Patch{Locked: &locked})
		}
	})
}

func (ed *Editor) editLabel() {
	sel := ed.ctx.Selected()
	if len(sel) != 1 {
		ed.showMessage("Select one element to label", MsgWarning)
		return
	}
	id := sel[0].ID
	ed.prompt("Label: ", func(label string) {
		ed.ctx.UpdateElement(id, element.Patch{Label: &label})
	})
	ed.inputBuffer = sel[0].Label
}

func (ed *Editor) prompt(p string, action func(string)) {
	ed.inputPrompt = p
	ed.inputBuffer = ""
	ed.inputAction = action
	ed.mode = ModeInput
}
