// Package gesture recognizes the "modifier held + double middle-click"
// gesture from merged pointer and keyboard event streams.
//
// The detector has two states. WAITING: no armed first click
// (lastCandidate is zero or stale). FIRST_CLICK_SEEN: a qualifying press was
// recorded less than the threshold ago. A second qualifying press inside the
// threshold emits a Trigger and returns to WAITING.
package gesture

import (
	"sync"
	"time"

	"gitlab.com/tinyland/lab/hotclick/pkg/input"
)

// DefaultThreshold is the maximum gap between the two presses of a double
// click.
const DefaultThreshold = 500 * time.Millisecond

// Trigger is emitted when the gesture is recognized.
type Trigger struct {
	// X, Y are the screen coordinates of the second press.
	X, Y int
	// At is the timestamp of the second press.
	At time.Time
	// FirstX, FirstY are the coordinates of the arming press.
	FirstX, FirstY int
}

// State is a copy of the detector's internal state.
type State struct {
	ModifierHeld  bool
	LastCandidate time.Time
	LastX, LastY  int
}

// Armed reports whether a first click is pending.
func (s State) Armed() bool {
	return !s.LastCandidate.IsZero()
}

// Config controls a Detector.
type Config struct {
	// Modifier is the key that must be held. Defaults to shift.
	Modifier input.Modifier
	// Threshold is the double-click window. Defaults to DefaultThreshold.
	Threshold time.Duration
	// Now supplies timestamps for events that carry none.
	Now func() time.Time
}

// Detector is safe for concurrent use: button and key events may arrive on
// different goroutines.
type Detector struct {
	modifier  input.Modifier
	threshold time.Duration
	now       func() time.Time

	mu    sync.Mutex
	state State
}

// NewDetector returns a Detector in the WAITING state.
func NewDetector(cfg Config) *Detector {
	if cfg.Modifier == 0 {
		cfg.Modifier = input.ModShift
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Detector{
		modifier:  cfg.Modifier,
		threshold: cfg.Threshold,
		now:       cfg.Now,
	}
}

// Handle feeds one event into the state machine and returns a Trigger when
// the event completes the gesture. It never blocks on anything but the state
// lock.
func (d *Detector) Handle(ev input.Event) (Trigger, bool) {
	switch e := ev.(type) {
	case input.KeyEvent:
		d.handleKey(e)
	case input.ButtonEvent:
		return d.handleButton(e)
	}
	return Trigger{}, false
}

func (d *Detector) handleKey(e input.KeyEvent) {
	if !d.modifier.Matches(e.Key) {
		return
	}
	d.mu.Lock()
	d.state.ModifierHeld = e.Pressed
	if !e.Pressed {
		// A release between the two presses breaks the gesture.
		d.state.LastCandidate = time.Time{}
	}
	d.mu.Unlock()
}

func (d *Detector) handleButton(e input.ButtonEvent) (Trigger, bool) {
	if e.Button != input.ButtonMiddle || !e.Pressed {
		return Trigger{}, false
	}

	now := e.When
	if now.IsZero() {
		now = d.now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Presses without the modifier leave the armed click untouched.
	if !d.state.ModifierHeld {
		return Trigger{}, false
	}

	if !d.state.LastCandidate.IsZero() {
		delta := now.Sub(d.state.LastCandidate)
		if delta >= 0 && delta < d.threshold {
			t := Trigger{
				X:      e.X,
				Y:      e.Y,
				At:     now,
				FirstX: d.state.LastX,
				FirstY: d.state.LastY,
			}
			d.state.LastCandidate = time.Time{}
			return t, true
		}
	}

	d.state.LastCandidate = now
	d.state.LastX, d.state.LastY = e.X, e.Y
	return Trigger{}, false
}

// Snapshot returns a copy of the current state.
func (d *Detector) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Reset returns the detector to WAITING with the modifier released.
func (d *Detector) Reset() {
	d.mu.Lock()
	d.state = State{}
	d.mu.Unlock()
}
