package platform

// This file contains pure functions that are testable cross-platform.
// The build-tagged startup_*.go files are thin wrappers around them, so the
// generated unit, plist and Run value are checked on any host.

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlGenerateSystemdUnitFunc renders the systemd user unit. The listener needs
// the graphical session for input hooks and the display.
func PlGenerateSystemdUnitFunc(e StartupEntry) string {
	exec := systemdQuote(e.BinaryPath)
	for _, a := range e.Args() {
		exec += " " + systemdQuote(a)
	}
	var out string
	if e.LogPath != "" {
		out = fmt.Sprintf("StandardOutput=append:%s\nStandardError=append:%s\n", e.LogPath, e.LogPath)
	}
	return fmt.Sprintf(`[Unit]
Description=hotclick gesture launcher
PartOf=graphical-session.target
After=graphical-session.target

[Service]
Type=simple
ExecStart=%s
Restart=on-failure
RestartSec=5
%s
[Install]
WantedBy=graphical-session.target
`, exec, out)
}

// PlSystemdUnitPathFunc returns the unit path under home.
func PlSystemdUnitPathFunc(home string) string {
	return filepath.Join(home, ".config", "systemd", "user", AppName+".service")
}

// PlGenerateLaunchdPlistFunc renders the launchd agent plist.
func PlGenerateLaunchdPlistFunc(e StartupEntry) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>` + LaunchdLabel + `</string>
	<key>ProgramArguments</key>
	<array>
`)
	for _, a := range append([]string{e.BinaryPath}, e.Args()...) {
		fmt.Fprintf(&b, "\t\t<string>%s</string>\n", xmlEscape(a))
	}
	b.WriteString(`	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<dict>
		<key>SuccessfulExit</key>
		<false/>
	</dict>
	<key>ProcessType</key>
	<string>Interactive</string>
`)
	if e.LogPath != "" {
		fmt.Fprintf(&b, "\t<key>StandardOutPath</key>\n\t<string>%s</string>\n", xmlEscape(e.LogPath))
		fmt.Fprintf(&b, "\t<key>StandardErrorPath</key>\n\t<string>%s</string>\n", xmlEscape(e.LogPath))
	}
	b.WriteString("</dict>\n</plist>\n")
	return b.String()
}

// LaunchdLabel is the agent label.
const LaunchdLabel = "com.tinyland.hotclick"

// PlLaunchdPlistPathFunc returns the plist path under home.
func PlLaunchdPlistPathFunc(home string) string {
	return filepath.Join(home, "Library", "LaunchAgents", LaunchdLabel+".plist")
}

// RunKeyPath is the per-user Run key, relative to HKEY_CURRENT_USER.
const RunKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// PlRunValueFunc renders the command line stored in the Run key. Every
// argument is quoted so paths with spaces survive.
func PlRunValueFunc(e StartupEntry) string {
	parts := []string{`"` + e.BinaryPath + `"`}
	for _, a := range e.Args() {
		if strings.ContainsAny(a, " \t") || a == "" {
			a = `"` + a + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// systemdQuote quotes s for an ExecStart line when needed.
func systemdQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
