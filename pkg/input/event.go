// Package input defines the global pointer and keyboard events hotclick
// consumes, and the Source implementations that deliver them from the
// operating system's input hooks.
package input

import (
	"fmt"
	"strings"
	"time"
)

// Event is a single input event. It is either a ButtonEvent or a KeyEvent.
// Events are values and are never mutated after creation.
type Event interface {
	isEvent()
}

// Button identifies a pointer button.
type Button uint8

const (
	// ButtonOther is any button hotclick does not care about.
	ButtonOther Button = iota
	// ButtonLeft is the primary button.
	ButtonLeft
	// ButtonMiddle is the wheel button.
	ButtonMiddle
	// ButtonRight is the secondary button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "other"
	}
}

// ButtonEvent is a pointer button press or release at screen coordinates.
type ButtonEvent struct {
	Button  Button
	Pressed bool
	X, Y    int
	When    time.Time
}

func (ButtonEvent) isEvent() {}

// Key identifies a keyboard key. Only the modifier keys are distinguished.
type Key uint8

const (
	KeyOther Key = iota
	KeyShiftLeft
	KeyShiftRight
	KeyCtrlLeft
	KeyCtrlRight
	KeyAltLeft
	KeyAltRight
	KeyMetaLeft
	KeyMetaRight
)

// String returns a string representation of the key.
func (k Key) String() string {
	switch k {
	case KeyShiftLeft:
		return "shift_l"
	case KeyShiftRight:
		return "shift_r"
	case KeyCtrlLeft:
		return "ctrl_l"
	case KeyCtrlRight:
		return "ctrl_r"
	case KeyAltLeft:
		return "alt_l"
	case KeyAltRight:
		return "alt_r"
	case KeyMetaLeft:
		return "meta_l"
	case KeyMetaRight:
		return "meta_r"
	default:
		return "other"
	}
}

// KeyEvent is a key press or release.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

func (KeyEvent) isEvent() {}

// Modifier is a modifier key regardless of side.
type Modifier uint8

const (
	ModShift Modifier = iota + 1
	ModCtrl
	ModAlt
	ModMeta
)

// String returns the config name of the modifier.
func (m Modifier) String() string {
	switch m {
	case ModShift:
		return "shift"
	case ModCtrl:
		return "ctrl"
	case ModAlt:
		return "alt"
	case ModMeta:
		return "meta"
	default:
		return "none"
	}
}

// Matches reports whether k is the left or right key of this modifier.
func (m Modifier) Matches(k Key) bool {
	switch m {
	case ModShift:
		return k == KeyShiftLeft || k == KeyShiftRight
	case ModCtrl:
		return k == KeyCtrlLeft || k == KeyCtrlRight
	case ModAlt:
		return k == KeyAltLeft || k == KeyAltRight
	case ModMeta:
		return k == KeyMetaLeft || k == KeyMetaRight
	default:
		return false
	}
}

// ParseModifier maps a config name ("shift", "ctrl", "alt", "meta") to a
// Modifier. Common aliases such as "control", "option", "win" and "cmd" are
// accepted.
func ParseModifier(name string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shift":
		return ModShift, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "alt", "option":
		return ModAlt, nil
	case "meta", "win", "super", "cmd", "command":
		return ModMeta, nil
	default:
		return 0, fmt.Errorf("unknown modifier %q (supported: shift, ctrl, alt, meta)", name)
	}
}
