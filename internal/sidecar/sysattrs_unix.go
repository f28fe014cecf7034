//go:build !windows

package sidecar

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr places the sidecar in its own process group so a
// termination signal reaches the server and anything it forked.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
