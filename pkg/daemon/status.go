package daemon

import (
	"fmt"
	"time"
)

// Status is the listener's self-reported state, shared with `hotclick
// status` through a file and the control socket.
type Status struct {
	PID         int       `json:"pid"`
	StartedAt   time.Time `json:"started_at"`
	Triggers    uint64    `json:"triggers"`
	Launches    uint64    `json:"launches"`
	Failures    uint64    `json:"failures"`
	Dropped     uint64    `json:"dropped"`
	Captures    uint64    `json:"captures"`
	LastTrigger time.Time `json:"last_trigger,omitempty"`
	LastDir     string    `json:"last_dir,omitempty"`
	LastRule    string    `json:"last_rule,omitempty"`
}

// WriteStatusFile publishes status at path for `hotclick status`.
func WriteStatusFile(path string, status *Status) error {
	return writeJSONFile(path, status)
}

// ReadStatusFile loads the status a listener last published at path.
func ReadStatusFile(path string) (*Status, error) {
	var status Status
	if err := readJSONFile(path, &status); err != nil {
		return nil, fmt.Errorf("status file: %w", err)
	}
	return &status, nil
}

// Uptime is the time since the listener started, truncated to seconds.
func (s *Status) Uptime(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt).Truncate(time.Second)
}
