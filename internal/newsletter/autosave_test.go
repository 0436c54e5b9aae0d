package newsletter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer collects scheduled callbacks so tests fire the quiet-period
// expiry explicitly instead of sleeping.
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) factory(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fireLatest runs the most recent non-stopped timer, as the real clock
// would after the quiet period.
func (s *fakeScheduler) fireLatest() {
	s.mu.Lock()
	var latest *fakeTimer
	for _, t := range s.timers {
		if !t.stopped {
			latest = t
		}
	}
	s.mu.Unlock()
	if latest != nil {
		latest.fn()
	}
}

func (s *fakeScheduler) scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func TestAutosaverDebouncesBurstToOneSave(t *testing.T) {
	var saves int
	sched := &fakeScheduler{}
	a := NewAutosaver(time.Second, func(ctx context.Context) error {
		saves++
		return nil
	}, sched.factory)

	// A burst of edits: each one reschedules, cancelling the previous
	// timer.
	a.MarkDirty()
	a.MarkDirty()
	a.MarkDirty()

	state, _ := a.State()
	assert.Equal(t, SaveStatePending, state)
	assert.Equal(t, 3, sched.scheduled())

	sched.fireLatest()

	assert.Equal(t, 1, saves, "one save per burst")
	state, err := a.State()
	assert.NoError(t, err)
	assert.Equal(t, SaveStateCommitted, state)

	// Earlier timers were all stopped; firing again does nothing.
	sched.fireLatest()
	assert.Equal(t, 1, saves)
}

func TestAutosaverSaveFailureKeepsErrorStateUntilNextEdit(t *testing.T) {
	fail := true
	var saves int
	sched := &fakeScheduler{}
	a := NewAutosaver(time.Second, func(ctx context.Context) error {
		saves++
		if fail {
			return errors.New("storage unavailable")
		}
		return nil
	}, sched.factory)

	a.MarkDirty()
	sched.fireLatest()

	state, err := a.State()
	assert.Equal(t, SaveStateError, state)
	require.Error(t, err)

	// No automatic retry: nothing new was scheduled by the failure.
	assert.Equal(t, 1, saves)

	// The next edit is the manual retry path.
	fail = false
	a.MarkDirty()
	sched.fireLatest()

	state, err = a.State()
	assert.NoError(t, err)
	assert.Equal(t, SaveStateCommitted, state)
	assert.Equal(t, 2, saves)
}

func TestAutosaverEditDuringInFlightSaveReschedules(t *testing.T) {
	sched := &fakeScheduler{}
	entered := make(chan struct{})
	release := make(chan struct{})
	var saves int

	a := NewAutosaver(time.Second, func(ctx context.Context) error {
		saves++
		if saves == 1 {
			close(entered)
			<-release
		}
		return nil
	}, sched.factory)

	a.MarkDirty()
	done := make(chan struct{})
	go func() {
		sched.fireLatest()
		close(done)
	}()

	<-entered
	state, _ := a.State()
	assert.Equal(t, SaveStateSaving, state)

	// Edit lands while the save is in flight.
	a.MarkDirty()
	close(release)
	<-done

	// The completing save noticed the edit and went back to pending
	// with a fresh timer.
	state, _ = a.State()
	assert.Equal(t, SaveStatePending, state)

	sched.fireLatest()
	assert.Equal(t, 2, saves)
	state, _ = a.State()
	assert.Equal(t, SaveStateCommitted, state)
}

func TestAutosaverExplicitFlush(t *testing.T) {
	var saves int
	sched := &fakeScheduler{}
	a := NewAutosaver(time.Second, func(ctx context.Context) error {
		saves++
		return nil
	}, sched.factory)

	a.MarkDirty()
	a.Flush(context.Background())

	assert.Equal(t, 1, saves)
	state, _ := a.State()
	assert.Equal(t, SaveStateCommitted, state)

	// The pending timer was cancelled by the flush.
	sched.fireLatest()
	assert.Equal(t, 1, saves)
}

func TestAutosaverStopCancelsPendingSave(t *testing.T) {
	var saves int
	sched := &fakeScheduler{}
	a := NewAutosaver(time.Second, func(ctx context.Context) error {
		saves++
		return nil
	}, sched.factory)

	a.MarkDirty()
	a.Stop()
	sched.fireLatest()

	assert.Equal(t, 0, saves)
}
