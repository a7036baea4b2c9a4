// Package config provides TOML-based configuration for hotclick.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration is a time.Duration in the config file. It accepts a Go duration
// string (double_click = "500ms") or a bare integer of milliseconds
// (double_click = 500).
type Duration struct {
	time.Duration
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Duration) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		return d.UnmarshalText([]byte(val))
	case int64:
		if val < 0 {
			return fmt.Errorf("negative duration %d not allowed", val)
		}
		d.Duration = time.Duration(val) * time.Millisecond
		return nil
	default:
		return fmt.Errorf("duration must be a string or milliseconds, got %T", v)
	}
}

// UnmarshalText parses a Go duration string. Empty means zero.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
