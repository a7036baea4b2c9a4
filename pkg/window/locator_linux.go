//go:build linux

package window

import (
	"fmt"
	"image"
	"os/exec"
	"strconv"
)

// x11Locator queries an X11 session through xdotool, xwininfo and xprop.
// Wayland sessions expose no global window lookup and fall through to the
// empty Context.
type x11Locator struct {
	run func(name string, args ...string) ([]byte, error)
}

// NewLocator returns the X11 Locator.
func NewLocator() Locator {
	return x11Locator{run: func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).Output()
	}}
}

// WindowAt returns the window under the pointer. xdotool has no arbitrary
// point lookup, so this relies on the pointer still being where the gesture
// ended; a pointer that moved by more than a few pixels is treated as a miss.
func (l x11Locator) WindowAt(x, y int) (Handle, error) {
	out, err := l.run("xdotool", "getmouselocation", "--shell")
	if err != nil {
		return 0, fmt.Errorf("xdotool getmouselocation: %w", err)
	}
	vals := wnParseShellVars(string(out))
	px, _ := strconv.Atoi(vals["X"])
	py, _ := strconv.Atoi(vals["Y"])
	if abs(px-x)+abs(py-y) > pointerSlop {
		return 0, ErrNoWindow
	}
	id, err := strconv.ParseUint(vals["WINDOW"], 10, 64)
	if err != nil || id == 0 {
		return 0, ErrNoWindow
	}
	return Handle(id), nil
}

// Parent reports no parent for a client window. Reparenting window managers
// wrap each client in an unnamed frame; walking past the client would lose
// its pid, title and class.
func (l x11Locator) Parent(h Handle) (Handle, error) {
	if props, err := l.run("xprop", "-id", hexID(h), "WM_STATE", "_NET_WM_PID"); err == nil {
		if wnHasXprop(string(props), "WM_STATE") || wnHasXprop(string(props), "_NET_WM_PID") {
			return 0, nil
		}
	}
	out, err := l.run("xwininfo", "-children", "-id", hexID(h))
	if err != nil {
		return 0, fmt.Errorf("xwininfo: %w", err)
	}
	return wnParseXwininfoParent(string(out)), nil
}

func (l x11Locator) PID(h Handle) (int32, error) {
	out, err := l.run("xprop", "-id", hexID(h), "_NET_WM_PID")
	if err != nil {
		return 0, fmt.Errorf("xprop _NET_WM_PID: %w", err)
	}
	return wnParseXpropPID(string(out))
}

func (l x11Locator) Title(h Handle) (string, error) {
	for _, atom := range []string{"_NET_WM_NAME", "WM_NAME"} {
		out, err := l.run("xprop", "-id", hexID(h), atom)
		if err != nil {
			continue
		}
		if vals := wnParseXpropStrings(string(out)); len(vals) > 0 {
			return vals[0], nil
		}
	}
	return "", fmt.Errorf("window %s has no title", hexID(h))
}

func (l x11Locator) Class(h Handle) (string, error) {
	out, err := l.run("xprop", "-id", hexID(h), "WM_CLASS")
	if err != nil {
		return "", fmt.Errorf("xprop WM_CLASS: %w", err)
	}
	vals := wnParseXpropStrings(string(out))
	if len(vals) == 0 {
		return "", fmt.Errorf("window %s has no class", hexID(h))
	}
	// WM_CLASS is "instance", "Class"; the class half is the stable one.
	return vals[len(vals)-1], nil
}

func (l x11Locator) Bounds(h Handle) (image.Rectangle, error) {
	out, err := l.run("xdotool", "getwindowgeometry", "--shell", strconv.FormatUint(uint64(h), 10))
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("xdotool getwindowgeometry: %w", err)
	}
	return wnParseGeometry(wnParseShellVars(string(out)))
}

func hexID(h Handle) string {
	return "0x" + strconv.FormatUint(uint64(h), 16)
}
