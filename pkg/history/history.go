// Package history implements snapshot-based undo and redo for the
// element store.
package history

import (
	"time"

	"github.com/ha1tch/floorplan/pkg/element"
)

// DefaultCapacity is how many undo levels are kept.
const DefaultCapacity = 50

// Snapshot captures the element collection before an action.
type Snapshot struct {
	Elements    []element.Element
	Description string
	Time        time.Time
}

// Target is the copy/restore contract the manager needs from a store.
// Restore is a distinct operation from ordinary edits and never records
// history itself.
type Target interface {
	Snapshot() []element.Element
	Restore([]element.Element)
}

// Manager holds the undo and redo stacks.
type Manager struct {
	target    Target
	undoStack []Snapshot
	redoStack []Snapshot
	capacity  int
	now       func() time.Time
}

// New returns a manager over target keeping at most capacity undo levels.
func New(target Target, capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{target: target, capacity: capacity, now: time.Now}
}

func (m *Manager) capture(desc string) Snapshot {
	return Snapshot{Elements: m.target.Snapshot(), Description: desc, Time: m.now()}
}

// Save records the current state before a mutating action. The oldest
// level is dropped past capacity, and the redo stack is cleared.
func (m *Manager) Save(desc string) {
	m.undoStack = append(m.undoStack, m.capture(desc))
	if len(m.undoStack) > m.capacity {
		m.undoStack = m.undoStack[1:]
	}
	m.redoStack = nil
}

// Undo restores the most recent snapshot, pushing the current state onto
// the redo stack. It returns the description of the undone action.
func (m *Manager) Undo() (string, bool) {
	if len(m.undoStack) == 0 {
		return "", false
	}
	snap := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, m.capture(snap.Description))
	m.apply(snap)
	return snap.Description, true
}

// Redo reapplies the most recently undone snapshot.
func (m *Manager) Redo() (string, bool) {
	if len(m.redoStack) == 0 {
		return "", false
	}
	snap := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, m.capture(snap.Description))
	m.apply(snap)
	return snap.Description, true
}

// apply is the only path from a snapshot back into the store.
func (m *Manager) apply(snap Snapshot) {
	m.target.Restore(snap.Elements)
}

func (m *Manager) CanUndo() bool { return len(m.undoStack) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redoStack) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (m *Manager) Depth() (undo, redo int) {
	return len(m.undoStack), len(m.redoStack)
}

// Clear drops all history, e.g. after loading a different plan.
func (m *Manager) Clear() {
	m.undoStack = nil
	m.redoStack = nil
}
