package input

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// ErrHookUnavailable is returned when the OS input hook cannot be installed.
var ErrHookUnavailable = errors.New("input hook unavailable")

// Source delivers input events until it is stopped or its context is
// cancelled. The returned channel is closed when delivery ends.
type Source interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop()
}

// libuiohook event kinds as exposed by gohook. gohook's names are shifted
// against what they mean: KeyHold is the physical key press and MouseHold is
// the physical button press.
const (
	kindKeyPressed    = hook.KeyHold
	kindKeyReleased   = hook.KeyUp
	kindMousePressed  = hook.MouseHold
	kindMouseReleased = hook.MouseDown
)

// libuiohook button numbers.
const (
	uioButtonLeft   = 1
	uioButtonRight  = 2
	uioButtonMiddle = 3
)

// libuiohook virtual key codes for the modifier keys.
const (
	vcShiftL   = 0x002A
	vcShiftR   = 0x0036
	vcControlL = 0x001D
	vcControlR = 0x0E1D
	vcAltL     = 0x0038
	vcAltR     = 0x0E38
	vcMetaL    = 0x0E5B
	vcMetaR    = 0x0E5C
)

// Seams over the gohook package-level API.
var (
	hookStart = hook.Start
	hookEnd   = hook.End
)

// HookSource is a Source backed by the global libuiohook hook (gohook). Only
// one HookSource may be started per process.
type HookSource struct {
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

// NewHookSource returns a HookSource that logs to logger.
func NewHookSource(logger *slog.Logger) *HookSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &HookSource{logger: logger, done: make(chan struct{})}
}

// Start installs the global mouse and keyboard hooks and begins translating
// their events. Cancelling ctx is equivalent to calling Stop.
func (s *HookSource) Start(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil, errors.New("input: hook source already started")
	}
	s.started = true
	s.mu.Unlock()

	raw := hookStart()
	if raw == nil {
		return nil, ErrHookUnavailable
	}

	out := make(chan Event, 64)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				s.Stop()
				return
			case <-s.done:
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				translated, keep := translate(ev)
				if !keep {
					continue
				}
				select {
				case out <- translated:
				default:
					// The consumer is the gesture detector, which never blocks;
					// a full buffer means it is gone.
					s.logger.Debug("input event dropped", "kind", ev.Kind)
				}
			}
		}
	}()

	s.logger.Debug("input hooks installed")
	return out, nil
}

// Stop releases the hooks. It is safe to call more than once.
func (s *HookSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.started {
		return
	}
	s.stopped = true
	close(s.done)
	hookEnd()
	s.logger.Debug("input hooks released")
}

// translate converts a gohook event into an Event. Events hotclick has no use
// for (moves, wheel, typed characters) are dropped.
func translate(ev hook.Event) (Event, bool) {
	switch ev.Kind {
	case kindMousePressed, kindMouseReleased:
		when := ev.When
		if when.IsZero() {
			when = time.Now()
		}
		return ButtonEvent{
			Button:  buttonFromHook(ev.Button),
			Pressed: ev.Kind == kindMousePressed,
			X:       int(ev.X),
			Y:       int(ev.Y),
			When:    when,
		}, true
	case kindKeyPressed, kindKeyReleased:
		return KeyEvent{
			Key:     keyFromHook(ev.Keycode),
			Pressed: ev.Kind == kindKeyPressed,
		}, true
	default:
		return nil, false
	}
}

func buttonFromHook(b uint16) Button {
	switch b {
	case uioButtonLeft:
		return ButtonLeft
	case uioButtonRight:
		return ButtonRight
	case uioButtonMiddle:
		return ButtonMiddle
	default:
		return ButtonOther
	}
}

func keyFromHook(code uint16) Key {
	switch code {
	case vcShiftL:
		return KeyShiftLeft
	case vcShiftR:
		return KeyShiftRight
	case vcControlL:
		return KeyCtrlLeft
	case vcControlR:
		return KeyCtrlRight
	case vcAltL:
		return KeyAltLeft
	case vcAltR:
		return KeyAltRight
	case vcMetaL:
		return KeyMetaLeft
	case vcMetaR:
		return KeyMetaRight
	default:
		return KeyOther
	}
}
