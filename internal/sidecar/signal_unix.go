//go:build !windows

package sidecar

import "syscall"

// signalTerm asks pid to terminate. Signaling a PID that is gone or not
// ours returns an error the callers treat as best-effort outcome, never as
// a reason to abort.
func signalTerm(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

// killHard force-kills the sidecar's process group, falling back to the
// single process when the group is already gone.
func killHard(pid int) error {
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		return syscall.Kill(pid, syscall.SIGKILL)
	}
	return nil
}
