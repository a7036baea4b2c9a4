package launcher

import (
	"fmt"
	"strings"
)

// Command is one terminal invocation.
type Command struct {
	// Argv is the program and its arguments.
	Argv []string
	// Dir is the child's working directory.
	Dir string
	// CmdLine, when set, is passed to CreateProcess verbatim instead of
	// quoting Argv. cmd.exe needs its own quoting rules.
	CmdLine string
}

// String renders the command for logs.
func (c Command) String() string {
	if c.CmdLine != "" {
		return c.CmdLine
	}
	return strings.Join(c.Argv, " ")
}

// TerminalCommand builds the invocation that opens a new terminal window in
// dir running tool. terminal is the Linux terminal emulator; an empty value
// means x-terminal-emulator.
func TerminalCommand(goos, terminal, title, dir, tool string) Command {
	switch goos {
	case "windows":
		inner := fmt.Sprintf(`cd /d "%s" && %s`, dir, tool)
		return Command{
			Argv:    []string{"cmd", "/c", "start", title, "cmd", "/k", inner},
			Dir:     dir,
			CmdLine: fmt.Sprintf(`cmd /c start "%s" cmd /k "%s"`, title, inner),
		}
	case "darwin":
		script := fmt.Sprintf("cd %s && %s", shellQuote(dir), tool)
		return Command{
			Argv: []string{
				"osascript",
				"-e", fmt.Sprintf(`tell application "Terminal" to do script "%s"`, appleScriptEscape(script)),
				"-e", `tell application "Terminal" to activate`,
			},
			Dir: dir,
		}
	default:
		if terminal == "" {
			terminal = "x-terminal-emulator"
		}
		script := fmt.Sprintf(`cd %s && %s; exec "${SHELL:-sh}"`, shellQuote(dir), tool)
		return Command{
			Argv: []string{terminal, "-e", "sh", "-c", script},
			Dir:  dir,
		}
	}
}

// TemplateCommand expands a user supplied terminal template such as
//
//	kitty --title {title} --directory {dir} {tool}
//
// The template is split on whitespace before substitution, so a directory
// containing spaces stays a single argument. {tool} expands to the tool's
// own words.
func TemplateCommand(template, title, dir, tool string) (Command, error) {
	fields := strings.Fields(template)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty terminal template")
	}
	var argv []string
	for _, f := range fields {
		if f == "{tool}" {
			argv = append(argv, strings.Fields(tool)...)
			continue
		}
		f = strings.ReplaceAll(f, "{dir}", dir)
		f = strings.ReplaceAll(f, "{title}", title)
		f = strings.ReplaceAll(f, "{tool}", tool)
		argv = append(argv, f)
	}
	return Command{Argv: argv, Dir: dir}, nil
}

// shellQuote wraps s in single quotes for sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func appleScriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
