package launcher

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func detach(cmd *exec.Cmd, c Command) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       c.CmdLine,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}
