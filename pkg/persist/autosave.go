package persist

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long edits must pause before an autosave.
const DefaultQuietPeriod = 2 * time.Second

// Autosaver runs fire once edits have been quiet for a period. Every
// Touch restarts the single pending timer.
//
// fire runs on the timer's goroutine; front ends pass a function that
// posts the save back to the goroutine owning the session.
type Autosaver struct {
	mu      sync.Mutex
	timer   *time.Timer
	quiet   time.Duration
	fire    func()
	gen     uint64
	stopped bool
}

// NewAutosaver returns an idle autosaver.
func NewAutosaver(quiet time.Duration, fire func()) *Autosaver {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Autosaver{quiet: quiet, fire: fire}
}

// Touch records an edit.
func (a *Autosaver) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = time.AfterFunc(a.quiet, func() { a.run(gen) })
}

// run fires unless a later Touch or Stop superseded its timer.
func (a *Autosaver) run(gen uint64) {
	a.mu.Lock()
	if a.stopped || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()
	a.fire()
}

// Pending reports whether a save is scheduled.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Stop cancels any pending save; later Touches are ignored.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
