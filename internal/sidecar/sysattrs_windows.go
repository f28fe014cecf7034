//go:build windows

package sidecar

import (
	"os/exec"
	"syscall"
)

const createNewProcessGroup = 0x00000200

// configureSysProcAttr starts the sidecar in a new process group so
// console control events do not propagate from the shell.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
