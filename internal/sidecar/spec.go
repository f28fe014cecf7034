package sidecar

import (
	"os"
	"os/exec"
)

// Spec describes the sidecar server command. Unlike a general process
// manager there is no shell interpretation: the command and arguments are
// passed to the OS launcher as-is.
type Spec struct {
	Name    string
	Command string
	Args    []string
	WorkDir string
	Env     []string // extra KEY=VALUE entries appended to the shell's environment
}

func (s Spec) buildCommand() *exec.Cmd {
	// #nosec G204 -- command comes from the operator's own config
	cmd := exec.Command(s.Command, s.Args...)
	if s.WorkDir != "" {
		cmd.Dir = s.WorkDir
	}
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	configureSysProcAttr(cmd)
	return cmd
}
