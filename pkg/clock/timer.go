// Package clock provides the shared playback position that every stream of a
// player synchronizes against.
package clock

import (
	"fmt"
	"sync"
	"time"
)

type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Observer receives playback state changes synchronously, on the goroutine
// that called Play, Pause or Stop. WillPlay runs before the clock starts so
// observers can get their first frame ready.
type Observer interface {
	WillPlay()
	DidPlay(previous Status)
	DidPause(previous Status)
	DidStop(previous Status)
}

// Timer is a pausable playback clock. Offset is safe to call from several
// goroutines, typically one per stream.
type Timer struct {
	status    Status
	elapsed   time.Duration
	startedAt time.Time
	now       func() time.Time
	mux       sync.RWMutex

	// transitionMux serializes Play, Pause and Stop including their
	// observer callbacks. Observers must not call them back.
	transitionMux sync.Mutex

	observers    []Observer
	observersMux sync.Mutex
}

type TimerOption = func(*Timer)

// WithNow replaces the wall clock the timer reads.
func WithNow(now func() time.Time) TimerOption {
	return func(t *Timer) {
		t.now = now
	}
}

func NewTimer(options ...TimerOption) *Timer {
	t := &Timer{now: time.Now}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *Timer) AddObserver(observer Observer) {
	t.observersMux.Lock()
	defer t.observersMux.Unlock()

	t.observers = append(t.observers, observer)
}

func (t *Timer) RemoveObserver(observer Observer) {
	t.observersMux.Lock()
	defer t.observersMux.Unlock()

	for i, o := range t.observers {
		if o == observer {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Timer) Status() Status {
	t.mux.RLock()
	defer t.mux.RUnlock()

	return t.status
}

// Offset is the playback position: time spent playing since the last stop.
func (t *Timer) Offset() time.Duration {
	t.mux.RLock()
	defer t.mux.RUnlock()

	if t.status == Playing {
		return t.elapsed + t.now().Sub(t.startedAt)
	}
	return t.elapsed
}

// Play starts or resumes the clock. Playing an already playing timer is a no-op.
func (t *Timer) Play() {
	t.transitionMux.Lock()
	defer t.transitionMux.Unlock()

	if t.Status() == Playing {
		return
	}

	for _, o := range t.snapshot() {
		o.WillPlay()
	}

	t.mux.Lock()
	previous := t.status
	t.status = Playing
	t.startedAt = t.now()
	t.mux.Unlock()

	for _, o := range t.snapshot() {
		o.DidPlay(previous)
	}
}

// Pause freezes the offset. Only a playing timer can be paused.
func (t *Timer) Pause() {
	t.transitionMux.Lock()
	defer t.transitionMux.Unlock()

	t.mux.Lock()
	if t.status != Playing {
		t.mux.Unlock()
		return
	}
	previous := t.status
	t.elapsed += t.now().Sub(t.startedAt)
	t.status = Paused
	t.mux.Unlock()

	for _, o := range t.snapshot() {
		o.DidPause(previous)
	}
}

// Stop rewinds the offset to zero.
func (t *Timer) Stop() {
	t.transitionMux.Lock()
	defer t.transitionMux.Unlock()

	t.mux.Lock()
	if t.status == Stopped {
		t.mux.Unlock()
		return
	}
	previous := t.status
	t.elapsed = 0
	t.status = Stopped
	t.mux.Unlock()

	for _, o := range t.snapshot() {
		o.DidStop(previous)
	}
}

func (t *Timer) snapshot() []Observer {
	t.observersMux.Lock()
	defer t.observersMux.Unlock()

	observers := make([]Observer, len(t.observers))
	copy(observers, t.observers)
	return observers
}
