// hotclick opens an AI coding CLI in the directory of whatever window you
// point at.
//
// Hold the modifier (Shift by default) and double middle-click any window.
// hotclick inspects the window under the pointer, infers the directory it
// is showing, and launches the configured tool in a new terminal there.
// Browser windows are captured to a PNG first and the file reference is put
// on the clipboard.
//
// Usage:
//
//	hotclick [global flags] <command> [flags]
//
// Commands:
//
//	run        Listen for the gesture (foreground)
//	inspect    Resolve the window at a screen point and print the result
//	status     Show whether a listener is running and its counters
//	stop       Stop the running listener
//	restart    Stop every listener and start a detached one
//	install    Start hotclick at login
//	uninstall  Remove the login entry
//	presets    List the built-in tool presets
//
// Global flags:
//
//	--config string  Path to configuration file (default: ~/.config/hotclick/config.toml)
//	--verbose        Enable verbose logging
package main

import (
	"fmt"
	"os"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "hotclick: %v\n", err)
		os.Exit(1)
	}
}
