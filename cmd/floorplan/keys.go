package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/interact"
)

// toolKeys arms a drawing tool.
var toolKeys = map[rune]element.Kind{
	'r': element.KindRoom,
	'b': element.KindBuilding,
	'a': element.KindWirelessAP,
	'h': element.KindShape,
	'n': element.KindNameBox,
	't': element.KindSeat,
	'd': element.KindDevice,
	'e': element.KindEntrance,
	'x': element.KindStairs,
	'w': element.KindToilet,
	'l': element.KindElevator,
	'm': element.KindMDFIDF,
}

// alignKeys maps function keys to align and distribute commands.
var alignKeys = map[tcell.Key]interact.Alignment{
	tcell.KeyF2: interact.AlignLeft,
	tcell.KeyF3: interact.AlignRight,
	tcell.KeyF4: interact.AlignTop,
	tcell.KeyF5: interact.AlignBottom,
	tcell.KeyF6: interact.AlignCenterHorizontal,
	tcell.KeyF7: interact.AlignCenterVertical,
	tcell.KeyF8: interact.DistributeHorizontal,
	tcell.KeyF9: interact.DistributeVertical,
}

// translateMods maps terminal modifiers onto the editor's.
func translateMods(m tcell.ModMask) interact.Modifiers {
	var out interact.Modifiers
	if m&tcell.ModShift != 0 {
		out |= interact.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= interact.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= interact.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= interact.ModMeta
	}
	return out
}

// translateKey converts a terminal key into an editor key event. Control
// letters arrive as their own key codes and become a rune plus ModCtrl.
func translateKey(ev *tcell.EventKey) (interact.KeyEvent, bool) {
	mods := translateMods(ev.Modifiers())
	switch ev.Key() {
	case tcell.KeyRune:
		return interact.KeyEvent{Key: interact.KeyRune, Rune: ev.Rune(), Mods: mods}, true
	case tcell.KeyDelete:
		return interact.KeyEvent{Key: interact.KeyDelete, Mods: mods}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return interact.KeyEvent{Key: interact.KeyBackspace, Mods: mods}, true
	case tcell.KeyEscape:
		return interact.KeyEvent{Key: interact.KeyEscape, Mods: mods}, true
	case tcell.KeyLeft:
		return interact.KeyEvent{Key: interact.KeyLeft, Mods: mods}, true
	case tcell.KeyRight:
		return interact.KeyEvent{Key: interact.KeyRight, Mods: mods}, true
	case tcell.KeyUp:
		return interact.KeyEvent{Key: interact.KeyUp, Mods: mods}, true
	case tcell.KeyDown:
		return interact.KeyEvent{Key: interact.KeyDown, Mods: mods}, true
	case tcell.KeyTab, tcell.KeyEnter:
		return interact.KeyEvent{}, false
	}
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + int(k-tcell.KeyCtrlA))
		return interact.KeyEvent{Key: interact.KeyRune, Rune: r, Mods: mods | interact.ModCtrl}, true
	}
	return interact.KeyEvent{}, false
}

// pointerAt maps a terminal cell to the centre of its pixels. A cell is
// one pixel wide and two tall.
func pointerAt(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row)*2 + 1
}

// pressedButton picks the button reported to the machine. The primary
// button wins when several are held.
func pressedButton(b tcell.ButtonMask) (interact.Button, bool) {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return interact.ButtonPrimary, true
	case b&tcell.ButtonMiddle != 0:
		return interact.ButtonMiddle, true
	case b&tcell.ButtonSecondary != 0:
		return interact.ButtonSecondary, true
	}
	return 0, false
}

const mouseButtons = tcell.ButtonPrimary | tcell.ButtonMiddle | tcell.ButtonSecondary

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeCanvas {
		return
	}
	col, row := ev.Position()
	buttons := ev.Buttons()
	x, y := pointerAt(col, row)
	p := interact.Pointer{X: x, Y: y, Mods: translateMods(ev.Modifiers())}

	if buttons&tcell.WheelUp != 0 {
		ed.machine.Wheel(p, 1)
		return
	}
	if buttons&tcell.WheelDown != 0 {
		ed.machine.Wheel(p, -1)
		return
	}

	pressed := buttons & mouseButtons
	prev := ed.buttons
	ed.buttons = pressed

	_, h := ed.screen.Size()
	switch {
	case pressed != 0 && prev == 0:
		if row >= h-2 {
			// Clicks on the status rows are ignored until release.
			ed.buttons = 0
			return
		}
		p.Button, _ = pressedButton(pressed)
		ed.machine.PointerDown(p)
	case pressed != 0:
		p.Button, _ = pressedButton(pressed)
		ed.machine.PointerMove(p)
	case prev != 0:
		p.Button, _ = pressedButton(prev)
		ed.machine.PointerUp(p)
	default:
		if row < h-2 {
			ed.machine.PointerMove(p)
		}
	}
}

// handleKey returns true when the editor should quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ed.mode {
	case ModeInput:
		ed.handleInputKey(ev)
		return false
	case ModeHelp:
		ed.handleHelpKey(ev)
		return false
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return ed.quit()
	case tcell.KeyCtrlS:
		ed.save()
		return false
	case tcell.KeyCtrlO:
		ed.prompt("Open plan: ", func(id string) {
			if id != "" {
				ed.load(id)
			}
		})
		return false
	case tcell.KeyCtrlE:
		ed.exportPNG()
		return false
	case tcell.KeyCtrlC:
		if ed.machine.CopySelection() > 0 {
			ed.mirrorClipboard()
		}
		return false
	case tcell.KeyCtrlV:
		if len(ed.ctx.Store.Clipboard()) == 0 {
			ed.pasteSystemClipboard()
			return false
		}
		ed.machine.Paste()
		return false
	case tcell.KeyCtrlL:
		ed.editLabel()
		return false
	case tcell.KeyCtrlK:
		ed.toggleLock()
		return false
	case tcell.KeyTab:
		ed.machine.BoxSelect = !ed.machine.BoxSelect
		if ed.machine.BoxSelect {
			ed.showMessage("Drag selects", MsgInfo)
		} else {
			ed.showMessage("Drag pans", MsgInfo)
		}
		return false
	case tcell.KeyPgUp:
		ed.setPage(ed.ctx.Store.Page() - 1)
		return false
	case tcell.KeyPgDn:
		ed.setPage(ed.ctx.Store.Page() + 1)
		return false
	}
	if a, ok := alignKeys[ev.Key()]; ok {
		if !ed.machine.Align(a) {
			ed.showMessage("Select more elements to align", MsgWarning)
		}
		return false
	}

	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		r := ev.Rune()
		if kind, ok := toolKeys[r]; ok {
			ed.machine.ArmTool(kind)
			ed.showMessage(fmt.Sprintf("Draw %s (Shift keeps the tool)", kind), MsgInfo)
			return false
		}
		switch r {
		case 'q':
			return ed.quit()
		case '?':
			ed.mode = ModeHelp
			ed.helpScrollOffset = 0
			return false
		case 'g':
			ed.toggleGrid()
			return false
		case 'G':
			ed.toggleSnap()
			return false
		case 'f':
			ed.fitToContent()
			return false
		case '+', '=':
			ed.zoomCenter(interact.WheelFactor * interact.WheelFactor)
			return false
		case '-':
			ed.zoomCenter(1 / (interact.WheelFactor * interact.WheelFactor))
			return false
		case '0':
			ed.ctx.View.SetZoom(startZoom)
			ed.ctx.View.PanTo(0, 0)
			return false
		}
	}

	if k, ok := translateKey(ev); ok {
		ed.machine.HandleKey(k)
	}
	return false
}

// quit asks for confirmation when there are unsaved edits.
func (ed *Editor) quit() bool {
	if !ed.modified {
		return true
	}
	ed.prompt("Unsaved changes. Quit anyway? (y/n) ", func(answer string) {
		if answer == "y" || answer == "Y" {
			ed.screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModNone))
			ed.modified = false
		}
	})
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputAction = nil
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		action := ed.inputAction
		ed.inputAction = nil
		if action != nil {
			action(ed.inputBuffer)
		}
		ed.ctx.View.MarkDirty()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

func (ed *Editor) handleHelpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.helpScrollOffset > 0 {
			ed.helpScrollOffset--
		}
	case tcell.KeyDown:
		ed.helpScrollOffset++
	case tcell.KeyPgUp:
		ed.helpScrollOffset -= 10
		if ed.helpScrollOffset < 0 {
			ed.helpScrollOffset = 0
		}
	case tcell.KeyPgDn:
		ed.helpScrollOffset += 10
	default:
		ed.mode = ModeCanvas
		ed.ctx.View.MarkDirty()
	}
}
