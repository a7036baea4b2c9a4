package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestAcquireReleasePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "hotclick.pid")

	if err := AcquirePID(path); err != nil {
		t.Fatalf("AcquirePID: %v", err)
	}
	pid, err := ReadPID(path)
	if err != nil {
		t.Fatalf("ReadPID: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}

	// Re-acquiring from the same process is allowed.
	if err := AcquirePID(path); err != nil {
		t.Errorf("re-acquire: %v", err)
	}

	if err := ReleasePID(path); err != nil {
		t.Fatalf("ReleasePID: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("pid file still present: %v", err)
	}
	if err := ReleasePID(path); err != nil {
		t.Errorf("second release: %v", err)
	}
}

func TestAcquirePIDHeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotclick.pid")
	parent := os.Getppid()
	if !IsProcessAlive(parent) {
		t.Skip("parent process not visible")
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(parent)), 0o644); err != nil {
		t.Fatal(err)
	}

	err := AcquirePID(path)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v, want ErrAlreadyRunning", err)
	}
	if !strings.Contains(err.Error(), strconv.Itoa(parent)) {
		t.Errorf("error %q does not name the pid", err)
	}
	if pid, ok := Running(path); !ok || pid != parent {
		t.Errorf("Running = %d, %v", pid, ok)
	}
}

func TestAcquirePIDStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotclick.pid")
	// PIDs this large are never allocated.
	if err := os.WriteFile(path, []byte("2147483646"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := Running(path); ok {
		t.Fatal("stale pid reported as running")
	}
	if err := AcquirePID(path); err != nil {
		t.Fatalf("AcquirePID over stale file: %v", err)
	}
}

func TestReadPIDGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotclick.pid")
	os.WriteFile(path, []byte("not a pid"), 0o644)
	if _, err := ReadPID(path); err == nil {
		t.Error("expected parse error")
	}
	// A corrupt file does not block acquisition.
	if err := AcquirePID(path); err != nil {
		t.Errorf("AcquirePID: %v", err)
	}
}

func TestIsProcessAlive(t *testing.T) {
	if !IsProcessAlive(os.Getpid()) {
		t.Error("own process reported dead")
	}
	for _, pid := range []int{0, -1} {
		if IsProcessAlive(pid) {
			t.Errorf("IsProcessAlive(%d) = true", pid)
		}
	}
}

func TestStatusFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "status.json")
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := &Status{
		PID:         42,
		StartedAt:   start,
		Triggers:    3,
		Launches:    2,
		Failures:    1,
		LastTrigger: start.Add(time.Minute),
		LastDir:     "/home/me/projects/hotclick",
		LastRule:    "editor",
	}
	if err := WriteStatusFile(path, want); err != nil {
		t.Fatalf("WriteStatusFile: %v", err)
	}
	if entries, _ := os.ReadDir(filepath.Dir(path)); len(entries) != 1 {
		t.Errorf("status dir holds %d entries, want only status.json", len(entries))
	}

	got, err := ReadStatusFile(path)
	if err != nil {
		t.Fatalf("ReadStatusFile: %v", err)
	}
	if got.PID != 42 || got.Launches != 2 || got.LastDir != want.LastDir || !got.LastTrigger.Equal(want.LastTrigger) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if up := got.Uptime(start.Add(90*time.Second + 300*time.Millisecond)); up != 90*time.Second {
		t.Errorf("Uptime = %v", up)
	}
	if (&Status{}).Uptime(time.Now()) != 0 {
		t.Error("zero start should have zero uptime")
	}
}

func TestReadStatusFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadStatusFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{"), 0o644)
	if _, err := ReadStatusFile(bad); err == nil {
		t.Error("expected error for bad json")
	}
}

func TestIsListener(t *testing.T) {
	tests := []struct {
		name    string
		cmdline []string
		want    bool
	}{
		{"hotclick", []string{"/usr/bin/hotclick"}, true},
		{"hotclick", []string{"hotclick", "run"}, true},
		{"hotclick", []string{"hotclick", "--config", "x.toml", "run"}, true},
		{"hotclick", []string{"hotclick", "--config=x.toml", "stop"}, false},
		{"hotclick", []string{"hotclick", "-v", "run"}, true},
		{"HOTCLICK.EXE", []string{`C:\bin\hotclick.exe`, "run"}, true},
		{"hotclick", []string{"hotclick", "restart"}, false},
		{"hotclick", []string{"hotclick", "status"}, false},
		{"hotclick", nil, true},
		{"bash", []string{"bash", "run"}, false},
	}
	for _, tt := range tests {
		if got := IsListener(tt.name, tt.cmdline, "hotclick"); got != tt.want {
			t.Errorf("IsListener(%q, %q) = %v, want %v", tt.name, tt.cmdline, got, tt.want)
		}
	}
}

func TestFindInstancesExcludesSelf(t *testing.T) {
	self := filepath.Base(os.Args[0])
	pids, err := FindInstances(self, int32(os.Getpid()))
	if err != nil {
		t.Skipf("process table unavailable: %v", err)
	}
	for _, pid := range pids {
		if pid == int32(os.Getpid()) {
			t.Error("own pid returned")
		}
	}
}

func TestKillInstancesMissing(t *testing.T) {
	n, err := KillInstances([]int32{2147483646})
	if n != 0 || err != nil {
		t.Errorf("KillInstances = %d, %v", n, err)
	}
}
