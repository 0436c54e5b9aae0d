package newsletter

import (
	"context"
	"log"
	"sync"
	"time"
)

// SaveState is the three-state save indicator surfaced to the editor
// UI: unsaved changes pending, a save in flight, or everything
// committed. Error is a transient fourth state after a failed save.
type SaveState string

const (
	SaveStateCommitted SaveState = "committed"
	SaveStatePending   SaveState = "pending"
	SaveStateSaving    SaveState = "saving"
	SaveStateError     SaveState = "error"
)

// SaveFunc persists the current document. It is supplied by the owner
// of the editing session and must capture the document itself.
type SaveFunc func(ctx context.Context) error

// Timer is the minimal surface the autosaver needs from a scheduled
// callback. Production timers wrap time.AfterFunc; tests substitute a
// manually fired implementation so no test sleeps on wall-clock time.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn after d and returns a handle to cancel it.
type TimerFactory func(d time.Duration, fn func()) Timer

type afterFuncTimer struct{ t *time.Timer }

func (a afterFuncTimer) Stop() bool { return a.t.Stop() }

func defaultTimerFactory(d time.Duration, fn func()) Timer {
	return afterFuncTimer{t: time.AfterFunc(d, fn)}
}

// DefaultQuietPeriod is how long the autosaver waits after the last
// edit before firing a save.
const DefaultQuietPeriod = 1500 * time.Millisecond

// Autosaver debounces persistence for one editing session. Every edit
// marks the document dirty and reschedules the pending save; only one
// save fires per burst of edits. A failed save leaves the edits in
// memory and the state on error — retry is the next edit or an explicit
// Flush, never an automatic backoff.
//
// Concurrent sessions editing the same document are not reconciled
// here: the last writer to complete the round trip wins.
type Autosaver struct {
	mu       sync.Mutex
	quiet    time.Duration
	save     SaveFunc
	newTimer TimerFactory

	timer    Timer
	state    SaveState
	lastErr  error
	editedAt time.Time
	// dirty records edits that arrived while a save was in flight; the
	// completing save reschedules for them.
	dirty bool
}

// NewAutosaver creates an autosaver with the given quiet period. Zero
// quiet falls back to DefaultQuietPeriod; a nil factory uses real
// timers.
func NewAutosaver(quiet time.Duration, save SaveFunc, factory TimerFactory) *Autosaver {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if factory == nil {
		factory = defaultTimerFactory
	}
	return &Autosaver{
		quiet:    quiet,
		save:     save,
		newTimer: factory,
		state:    SaveStateCommitted,
	}
}

// MarkDirty records an edit: the save state moves to pending and the
// quiet-period timer restarts. An edit arriving during an in-flight
// save is remembered and rescheduled when that save completes.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.editedAt = time.Now()
	if a.state == SaveStateSaving {
		a.dirty = true
		return
	}

	a.state = SaveStatePending
	a.reschedule()
}

// reschedule cancels any pending timer and starts a fresh quiet period.
// Caller holds the mutex.
func (a *Autosaver) reschedule() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.newTimer(a.quiet, func() {
		a.Flush(context.Background())
	})
}

// Flush runs the save immediately, cancelling any pending timer. It is
// both the timer callback and the explicit "save now" action. The save
// itself runs synchronously; callers wanting fire-and-forget wrap it in
// a goroutine.
func (a *Autosaver) Flush(ctx context.Context) {
	a.mu.Lock()
	if a.state == SaveStateSaving {
		a.mu.Unlock()
		return
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.state = SaveStateSaving
	a.dirty = false
	save := a.save
	a.mu.Unlock()

	err := save(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		log.Printf("autosave: save failed (edits retained): %v", err)
		a.lastErr = err
		a.state = SaveStateError
	} else {
		a.lastErr = nil
		a.state = SaveStateCommitted
	}
	if a.dirty {
		// Edits arrived mid-save; schedule the next burst.
		a.dirty = false
		a.state = SaveStatePending
		a.reschedule()
	}
}

// State returns the current indicator state and the last save error, if
// any.
func (a *Autosaver) State() (SaveState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.lastErr
}

// Stop cancels any pending save without firing it.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
