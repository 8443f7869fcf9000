// Package app ties the element store, viewport and history of one editing
// session into a single context that every component is handed.
package app

import (
	"time"

	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/history"
	"github.com/ha1tch/floorplan/pkg/notify"
	"github.com/ha1tch/floorplan/pkg/viewport"
)

// Context is the explicit application state of an editing session. It is
// created once and passed by reference; it is not safe for concurrent use.
type Context struct {
	Store     *element.Store
	View      *viewport.Viewport
	History   *history.Manager
	Selection *element.Selection

	notifier notify.Notifier
	onEdit   []func()
}

// Options configures a new Context.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64
	UndoLevels   int
	Notifier     notify.Notifier
}

// New builds a Context and wires store changes to the dirty flag and the
// edit hooks.
func New(opts Options) *Context {
	store := element.NewStore()
	view := viewport.New(opts.CanvasWidth, opts.CanvasHeight)
	c := &Context{
		Store:     store,
		View:      view,
		History:   history.New(store, opts.UndoLevels),
		Selection: element.NewSelection(),
		notifier:  opts.Notifier,
	}
	if c.notifier == nil {
		c.notifier = notify.Log
	}
	store.SetSnapper(view.Snap)
	store.OnChange(c.changed)
	return c
}

func (c *Context) changed(ch element.Change) {
	c.View.MarkDirty()
	if ch.Origin == element.OriginLoad || ch.Origin == element.OriginView {
		return
	}
	for _, fn := range c.onEdit {
		fn()
	}
}

// OnEdit registers fn to run after every edit or undo/redo, but not after
// a load or a page switch. Autosave hangs off this.
func (c *Context) OnEdit(fn func()) {
	c.onEdit = append(c.onEdit, fn)
}

// Notify forwards to the front end's notifier.
func (c *Context) Notify(title, message string, severity notify.Severity, duration time.Duration) {
	c.notifier.Notify(title, message, severity, duration)
}

// Mutate records a history level and then runs fn. This is the command
// path; snapshot restoration goes through Undo and Redo instead.
func (c *Context) Mutate(desc string, fn func(s *element.Store)) {
	c.History.Save(desc)
	fn(c.Store)
}

// Undo steps back one level and drops selected ids that no longer exist.
func (c *Context) Undo() bool {
	desc, ok := c.History.Undo()
	if ok {
		c.pruneSelection()
		c.Notify("Undo", desc, notify.Info, 1500*time.Millisecond)
	}
	return ok
}

// Redo steps forward one level.
func (c *Context) Redo() bool {
	desc, ok := c.History.Redo()
	if ok {
		c.pruneSelection()
		c.Notify("Redo", desc, notify.Info, 1500*time.Millisecond)
	}
	return ok
}

func (c *Context) pruneSelection() {
	c.Selection.Prune(func(id string) bool {
		_, ok := c.Store.Resolve(id)
		return ok
	})
	c.View.MarkDirty()
}

// Elements returns the current page's elements.
func (c *Context) Elements() []element.Element { return c.Store.Elements() }

// SelectedIDs returns the selection in order.
func (c *Context) SelectedIDs() []string { return c.Selection.IDs() }

// Selected resolves the selection to elements.
func (c *Context) Selected() []element.Element {
	var out []element.Element
	for _, id := range c.Selection.IDs() {
		if e, ok := c.Store.Resolve(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// SetElements replaces the plan wholesale on behalf of a collaborator.
func (c *Context) SetElements(els []element.Element) {
	c.Mutate("replace elements", func(s *element.Store) { s.Replace(els) })
	c.pruneSelection()
}

// AddElement injects a domain element such as an access point.
func (c *Context) AddElement(e element.Element) element.Element {
	var added element.Element
	c.Mutate("add "+string(e.Kind), func(s *element.Store) { added = s.Insert(e) })
	return added
}

// UpdateElement patches one element.
func (c *Context) UpdateElement(id string, p element.Patch) bool {
	if _, ok := c.Store.Resolve(id); !ok {
		return false
	}
	c.Mutate("update element", func(s *element.Store) { s.Update(id, p) })
	return true
}

// RemoveElement deletes one element and its children.
func (c *Context) RemoveElement(id string) []string {
	if _, ok := c.Store.Resolve(id); !ok {
		return nil
	}
	var removed []string
	c.Mutate("remove element", func(s *element.Store) { removed = s.Delete(id) })
	for _, r := range removed {
		c.Selection.Remove(r)
	}
	return removed
}

// RenameElement follows a server-side id change in store and selection.
func (c *Context) RenameElement(oldID, newID string) bool {
	if !c.Store.Rename(oldID, newID) {
		return false
	}
	c.Selection.Rename(oldID, newID)
	return true
}
