package platform

import (
	"encoding/xml"
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"
)

// --- Test 1: Current() returns correct platform ---

func TestCurrentReturnsPlatform(t *testing.T) {
	got := Current()
	want := Platform(runtime.GOOS)
	if got != want {
		t.Errorf("Current() = %q, want %q", got, want)
	}
}

// --- Test 2: StartupEntry.Args puts --config before the command ---

func TestStartupEntryArgs(t *testing.T) {
	e := StartupEntry{BinaryPath: "/usr/bin/hotclick"}
	if got := strings.Join(e.Args(), " "); got != "run" {
		t.Errorf("Args() = %q, want run", got)
	}
	e.ConfigPath = "/home/me/.config/hotclick/config.toml"
	if got := strings.Join(e.Args(), " "); got != "--config /home/me/.config/hotclick/config.toml run" {
		t.Errorf("Args() = %q", got)
	}
}

// --- Test 3: systemd unit structure ---

func TestGenerateSystemdUnitValidStructure(t *testing.T) {
	unit := PlGenerateSystemdUnitFunc(StartupEntry{BinaryPath: "/usr/local/bin/hotclick"})
	for _, section := range []string{"[Unit]", "[Service]", "[Install]"} {
		if !strings.Contains(unit, section) {
			t.Errorf("unit should contain %s section", section)
		}
	}
	if !strings.Contains(unit, "ExecStart=/usr/local/bin/hotclick run\n") {
		t.Errorf("unexpected ExecStart in:\n%s", unit)
	}
	if !strings.Contains(unit, "Restart=on-failure") {
		t.Error("unit should restart on failure")
	}
	if !strings.Contains(unit, "WantedBy=graphical-session.target") {
		t.Error("unit should be tied to the graphical session")
	}
	if strings.Contains(unit, "StandardOutput") {
		t.Error("no log path means no StandardOutput line")
	}
}

// --- Test 4: systemd unit quotes paths with spaces and carries the log ---

func TestGenerateSystemdUnitQuoting(t *testing.T) {
	unit := PlGenerateSystemdUnitFunc(StartupEntry{
		BinaryPath: "/opt/hot click/hotclick",
		ConfigPath: "/etc/hotclick.toml",
		LogPath:    "/tmp/hc.log",
	})
	if !strings.Contains(unit, `ExecStart="/opt/hot click/hotclick" --config /etc/hotclick.toml run`) {
		t.Errorf("ExecStart not quoted:\n%s", unit)
	}
	if !strings.Contains(unit, "StandardOutput=append:/tmp/hc.log") || !strings.Contains(unit, "StandardError=append:/tmp/hc.log") {
		t.Error("unit should append output to the log path")
	}
}

// --- Test 5: systemd unit path ---

func TestSystemdUnitPathContainsSystemdUser(t *testing.T) {
	p := PlSystemdUnitPathFunc("/home/me")
	if !strings.Contains(p, "systemd") || !strings.HasSuffix(p, "hotclick.service") {
		t.Errorf("unit path = %q", p)
	}
}

// --- Test 6: launchd plist is well-formed XML ---

func TestGenerateLaunchdPlistValidXML(t *testing.T) {
	plist := PlGenerateLaunchdPlistFunc(StartupEntry{
		BinaryPath: "/Applications/Hot & Click/hotclick",
		ConfigPath: "/Users/me/.config/hotclick/config.toml",
		LogPath:    "/tmp/hc.log",
	})
	if !strings.HasPrefix(plist, "<?xml version=") {
		t.Error("plist should start with XML declaration")
	}
	dec := xml.NewDecoder(strings.NewReader(plist))
	dec.Strict = true
	for {
		_, err := dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("plist is not well-formed: %v", err)
			}
			break
		}
	}
	if !strings.Contains(plist, "<string>/Applications/Hot &amp; Click/hotclick</string>") {
		t.Error("binary path should be escaped")
	}
	if !strings.Contains(plist, "<string>"+LaunchdLabel+"</string>") {
		t.Error("plist should carry the label")
	}
	if !strings.Contains(plist, "<string>run</string>") {
		t.Error("plist should run the listener")
	}
	if !strings.Contains(plist, "StandardErrorPath") {
		t.Error("plist should carry the log path")
	}
}

// --- Test 7: launchd plist path ---

func TestLaunchdPlistPathContainsLaunchAgents(t *testing.T) {
	p := PlLaunchdPlistPathFunc("/Users/me")
	if !strings.Contains(p, "LaunchAgents") || !strings.HasSuffix(p, "com.tinyland.hotclick.plist") {
		t.Errorf("plist path = %q", p)
	}
}

// --- Test 8: Run value quotes the binary and spaced arguments ---

func TestRunValue(t *testing.T) {
	got := PlRunValueFunc(StartupEntry{
		BinaryPath: `C:\Program Files\hotclick\hotclick.exe`,
		ConfigPath: `C:\Users\me\AppData\Roaming\hotclick\config.toml`,
	})
	want := `"C:\Program Files\hotclick\hotclick.exe" --config C:\Users\me\AppData\Roaming\hotclick\config.toml run`
	if got != want {
		t.Errorf("PlRunValueFunc() = %q, want %q", got, want)
	}

	got = PlRunValueFunc(StartupEntry{BinaryPath: `C:\hc.exe`, ConfigPath: `C:\My Config\c.toml`})
	if !strings.Contains(got, `"C:\My Config\c.toml"`) {
		t.Errorf("spaced config path not quoted: %q", got)
	}
}

// --- Test 9: platform constants ---

func TestPlatformConstants(t *testing.T) {
	if Darwin != "darwin" || Linux != "linux" || Windows != "windows" {
		t.Error("platform constants changed")
	}
	if AppName != "hotclick" {
		t.Errorf("AppName = %q", AppName)
	}
}
