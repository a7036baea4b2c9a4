package window

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// pointerSlop is how far (Manhattan distance, pixels) the pointer may have
// drifted between the gesture and the X11 lookup.
const pointerSlop = 8

// wnParseShellVars parses `KEY=value` lines as printed by
// `xdotool ... --shell`.
func wnParseShellVars(output string) map[string]string {
	vals := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		k, v, ok := strings.Cut(line, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = v
	}
	return vals
}

// wnParseGeometry builds a rectangle from xdotool getwindowgeometry vars.
func wnParseGeometry(vals map[string]string) (image.Rectangle, error) {
	x, errX := strconv.Atoi(vals["X"])
	y, errY := strconv.Atoi(vals["Y"])
	w, errW := strconv.Atoi(vals["WIDTH"])
	h, errH := strconv.Atoi(vals["HEIGHT"])
	if errX != nil || errY != nil || errW != nil || errH != nil {
		return image.Rectangle{}, fmt.Errorf("incomplete geometry %v", vals)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// wnParseXwininfoParent extracts the parent id from `xwininfo -children`
// output. A parent that is the root window counts as no parent.
//
// Expected line:
//
//	Parent window id: 0x1e6 (the root window) (has no name)
func wnParseXwininfoParent(output string) Handle {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "Parent window id:")
		if !ok {
			continue
		}
		if strings.Contains(rest, "(the root window)") {
			return 0
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return 0
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 64)
		if err != nil {
			return 0
		}
		return Handle(id)
	}
	return 0
}

// wnHasXprop reports whether xprop printed a value for atom. A missing
// property is printed as "ATOM:  not found.".
func wnHasXprop(output, atom string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), atom+"(") {
			return true
		}
	}
	return false
}

// wnParseXpropPID parses `_NET_WM_PID(CARDINAL) = 1234`.
func wnParseXpropPID(output string) (int32, error) {
	_, v, ok := strings.Cut(output, "=")
	if !ok {
		return 0, fmt.Errorf("no pid in %q", strings.TrimSpace(output))
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse pid: %w", err)
	}
	return int32(pid), nil
}

// wnParseXpropStrings parses the quoted values of a string property, e.g.
//
//	WM_CLASS(STRING) = "code", "Code"
//	_NET_WM_NAME(UTF8_STRING) = "main.go - hotclick - Visual Studio Code"
//
// Backslash escapes inside quotes are honored.
func wnParseXpropStrings(output string) []string {
	_, v, ok := strings.Cut(output, "=")
	if !ok {
		return nil
	}
	var (
		vals    []string
		cur     strings.Builder
		inQuote bool
		escaped bool
	)
	for _, r := range v {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			if inQuote {
				vals = append(vals, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			cur.WriteRune(r)
		}
	}
	return vals
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
