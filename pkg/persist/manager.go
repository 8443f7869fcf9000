package persist

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ha1tch/floorplan/pkg/app"
	"github.com/ha1tch/floorplan/pkg/element"
)

// ErrSaveInProgress is returned when a save for the session is already
// in flight.
var ErrSaveInProgress = errors.New("save already in progress")

// Manager saves and loads one editing session.
//
// Save and Load touch the store, so they run on the goroutine that owns
// the session. The Async variants do only the request on another
// goroutine and hand the result back through post.
type Manager struct {
	ctx    *app.Context
	client *Client
	Codec  Codec

	saving bool
}

// NewManager returns a manager for ctx backed by client.
func NewManager(ctx *app.Context, client *Client) *Manager {
	return &Manager{ctx: ctx, client: client}
}

// Client returns the transport.
func (m *Manager) Client() *Client { return m.client }

// Saving reports whether a save is in flight.
func (m *Manager) Saving() bool { return m.saving }

// begin encodes the current page and marks a save in flight. It returns
// the ids sent, in order, for matching against the response.
func (m *Manager) begin(target string) (Document, []string, error) {
	if m.saving {
		return Document{}, nil, ErrSaveInProgress
	}
	doc := m.Codec.Encode(m.ctx.Store.All(), m.ctx.View.State(), m.ctx.Store.Page())
	if err := Validate(doc); err != nil {
		log.Printf("[SYNC] save %s rejected: %v", target, err)
		return Document{}, nil, err
	}
	sent := make([]string, len(doc.Elements))
	for i, r := range doc.Elements {
		sent[i] = *r.ID
	}
	m.saving = true
	return doc, sent, nil
}

func (m *Manager) complete(target string, sent []string, saved *Document, err error) error {
	m.saving = false
	if err != nil {
		log.Printf("[SYNC] save %s failed: %v", target, err)
		return fmt.Errorf("save %s: %w", target, err)
	}
	n := m.adoptIDs(sent, saved)
	log.Printf("[SYNC] saved %s: %d elements, %d renamed", target, len(sent), n)
	return nil
}

// adoptIDs follows ids the store assigned. The response lists elements in
// the order they were sent.
func (m *Manager) adoptIDs(sent []string, saved *Document) int {
	if saved == nil {
		return 0
	}
	if len(saved.Elements) != len(sent) {
		log.Printf("[SYNC] save response has %d elements, sent %d; ids kept", len(saved.Elements), len(sent))
		return 0
	}
	n := 0
	for i, r := range saved.Elements {
		if r.ID == nil || *r.ID == "" || *r.ID == sent[i] {
			continue
		}
		if m.ctx.RenameElement(sent[i], *r.ID) {
			n++
		} else {
			log.Printf("[SYNC] could not rename %s to %s", sent[i], *r.ID)
		}
	}
	return n
}

// Save writes the current page and viewport to target.
func (m *Manager) Save(ctx context.Context, target string) error {
	doc, sent, err := m.begin(target)
	if err != nil {
		return err
	}
	saved, err := m.client.Save(ctx, target, doc)
	return m.complete(target, sent, saved, err)
}

// SaveAsync is Save with the request made off the calling goroutine.
// done, if set, runs through post once the result has been applied.
func (m *Manager) SaveAsync(ctx context.Context, target string, post func(func()), done func(error)) {
	doc, sent, err := m.begin(target)
	if err != nil {
		if done != nil {
			done(err)
		}
		return
	}
	go func() {
		saved, err := m.client.Save(ctx, target, doc)
		post(func() {
			err := m.complete(target, sent, saved, err)
			if done != nil {
				done(err)
			}
		})
	}()
}

// fetch reads target; a missing document is an empty one.
func (m *Manager) fetch(ctx context.Context, target string) (*Document, error) {
	doc, err := m.client.Load(ctx, target)
	if IsNotFound(err) {
		log.Printf("[SYNC] %s has no saved plan yet", target)
		return &Document{}, nil
	}
	if err != nil {
		log.Printf("[SYNC] load %s failed: %v", target, err)
		return nil, fmt.Errorf("load %s: %w", target, err)
	}
	return doc, nil
}

// apply replaces the session with doc. Loading is not an edit: it
// clears history and does not trigger autosave.
func (m *Manager) apply(doc *Document) int {
	els := m.Codec.Reconcile(*doc, m.ctx.Store.Page())
	m.ctx.Store.Load(els)
	m.ctx.View.Update(doc.ViewPatch())
	m.ctx.History.Clear()
	m.ctx.Selection.Clear()
	return len(els)
}

// Load replaces the session with target's saved plan and returns how
// many elements were loaded.
func (m *Manager) Load(ctx context.Context, target string) (int, error) {
	doc, err := m.fetch(ctx, target)
	if err != nil {
		return 0, err
	}
	n := m.apply(doc)
	log.Printf("[SYNC] loaded %s: %d elements on page %d", target, n, m.ctx.Store.Page())
	return n, nil
}

// LoadAsync is Load with the request made off the calling goroutine.
func (m *Manager) LoadAsync(ctx context.Context, target string, post func(func()), done func(int, error)) {
	go func() {
		doc, err := m.fetch(ctx, target)
		post(func() {
			n := 0
			if err == nil {
				n = m.apply(doc)
			}
			if done != nil {
				done(n, err)
			}
		})
	}()
}

// Exists reports whether target has a saved plan.
func (m *Manager) Exists(ctx context.Context, target string) (bool, error) {
	return m.client.Exists(ctx, target)
}

// Delete removes target's saved plan.
func (m *Manager) Delete(ctx context.Context, target string) error {
	return m.client.Delete(ctx, target)
}

// Reconcile turns a loaded document into the elements of one page.
//
// Element ids are the store's ids. Records without one get a local id
// when loaded into the store. Each parentId is resolved against the
// records kept for the page, records on other pages are dropped and,
// where two records share an id, the first wins. Unparseable records and
// dangling parents are logged and tolerated.
func (c Codec) Reconcile(doc Document, page int) []element.Element {
	kept := make(map[string]bool, len(doc.Elements))
	var out []element.Element
	for i, r := range doc.Elements {
		e, err := c.DecodeRecord(r)
		if err != nil {
			log.Printf("[SYNC] skipping record %d: %v", i, err)
			continue
		}
		if e.PageNumber != page {
			continue
		}
		if e.ID != "" {
			if kept[e.ID] {
				log.Printf("[SYNC] duplicate element %s dropped", e.ID)
				continue
			}
			kept[e.ID] = true
		}
		out = append(out, e)
	}

	for i := range out {
		pid := out[i].ParentID
		if pid == "" || kept[pid] {
			continue
		}
		log.Printf("[SYNC] element %s: parent %s not found, orphaned", out[i].ID, pid)
		out[i].ParentID = ""
	}
	return out
}
