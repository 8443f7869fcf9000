package app

import (
	"testing"
	"time"

	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/notify"
	"github.com/ha1tch/floorplan/pkg/viewport"
)

func TestEditHooksSkipLoads(t *testing.T) {
	c := New(Options{Notifier: notify.Func(func(string, string, notify.Severity, time.Duration) {})})
	edits := 0
	c.OnEdit(func() { edits++ })

	c.AddElement(element.Element{Kind: element.KindRoom, Width: 10, Height: 10})
	if edits != 1 {
		t.Fatalf("edits = %d, want 1", edits)
	}
	c.Store.Load(nil)
	if edits != 1 {
		t.Errorf("load triggered an edit hook")
	}
	c.Undo()
	if edits != 2 {
		t.Errorf("undo should count as an edit, edits = %d", edits)
	}
}

func TestPageSwitchIsNotAnEdit(t *testing.T) {
	c := New(Options{Notifier: notify.Func(func(string, string, notify.Severity, time.Duration) {})})
	edits := 0
	c.OnEdit(func() { edits++ })
	c.View.TakeDirty()

	c.Store.SetPage(2)
	if edits != 0 {
		t.Errorf("page switch ran %d edit hooks", edits)
	}
	if !c.View.Dirty() {
		t.Error("page switch should mark the view dirty")
	}
}

func TestRemoveElementPrunesSelection(t *testing.T) {
	c := New(Options{Notifier: notify.Func(func(string, string, notify.Severity, time.Duration) {})})
	room := c.AddElement(element.Element{Kind: element.KindRoom, Width: 100, Height: 100})
	label := c.AddElement(element.Element{Kind: element.KindNameBox, ParentID: room.ID})
	c.Selection.Set(room.ID, label.ID)

	removed := c.RemoveElement(room.ID)
	if len(removed) != 2 {
		t.Fatalf("removed %d, want 2", len(removed))
	}
	if c.Selection.Len() != 0 {
		t.Errorf("selection still holds %v", c.SelectedIDs())
	}
	c.Undo()
	if len(c.Elements()) != 2 {
		t.Errorf("undo restored %d elements, want 2", len(c.Elements()))
	}
}

func TestChangesMarkDirty(t *testing.T) {
	c := New(Options{})
	c.View.TakeDirty()
	c.UpdateElement("missing", element.MoveTo(1, 1))
	if c.View.Dirty() {
		t.Error("no-op update marked the view dirty")
	}
	e := c.AddElement(element.Element{Kind: element.KindShape})
	c.View.TakeDirty()
	c.UpdateElement(e.ID, element.MoveTo(1, 1))
	if !c.View.Dirty() {
		t.Error("update did not mark the view dirty")
	}
}

func TestSnapAppliesToCreate(t *testing.T) {
	c := New(Options{})
	on := true
	c.View.Update(viewportSnap(on))
	e := c.Store.Create(element.KindShape, element.Patch{X: element.Ptr(31.0), Y: element.Ptr(9.0)})
	if e.X != 40 || e.Y != 0 {
		t.Errorf("created at (%v,%v), want (40,0)", e.X, e.Y)
	}
}

func viewportSnap(on bool) viewport.Patch {
	return viewport.Patch{SnapToGrid: &on}
}
