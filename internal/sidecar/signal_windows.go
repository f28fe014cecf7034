//go:build windows

package sidecar

import "syscall"

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess      = kernel32.NewProc("OpenProcess")
	procTerminateProcess = kernel32.NewProc("TerminateProcess")
	procCloseHandle      = kernel32.NewProc("CloseHandle")
)

const processTerminate = 0x0001

// terminateByHandle opens pid with terminate access and ends it. A PID that
// cannot be opened is assumed already gone, which counts as success for the
// best-effort callers here.
func terminateByHandle(pid int) error {
	if pid <= 0 {
		return nil
	}
	handle, _, err := procOpenProcess.Call(uintptr(processTerminate), 0, uintptr(uint32(pid)))
	if handle == 0 {
		_ = err
		return nil
	}
	defer func() { _, _, _ = procCloseHandle.Call(handle) }()
	ret, _, err := procTerminateProcess.Call(handle, uintptr(1))
	if ret == 0 {
		return err
	}
	return nil
}

// signalTerm maps the Unix SIGTERM request to TerminateProcess.
func signalTerm(pid int) error { return terminateByHandle(pid) }

// killHard is identical to signalTerm on Windows; there is no softer stop.
func killHard(pid int) error { return terminateByHandle(pid) }
