// Package sidecar spawns and supervises the single managed server process:
// ownership of the child handle, line-oriented output relaying, and
// best-effort reaping of a stale instance left by a previous run.
package sidecar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stream identifies which child pipe produced a line.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Event is one decoded output line from the sidecar.
type Event struct {
	Stream Stream
	Line   string
}

// killWait bounds how long Terminate waits for the waiter goroutine to
// reap the child after the kill signal.
const killWait = 2 * time.Second

// Handle is the exclusive ownership token over the spawned process. Once
// taken from the Sidecar slot for termination it is never put back, which
// is what makes shutdown idempotent.
type Handle struct {
	pid      int
	waitDone chan struct{} // closed by the waiter goroutine after cmd.Wait
	exitErr  error
}

// PID returns the OS identifier of the supervised process.
func (h *Handle) PID() int { return h.pid }

// Done is closed once the child has been reaped.
func (h *Handle) Done() <-chan struct{} { return h.waitDone }

// Kill force-terminates the child and briefly waits for it to be reaped.
// The wait is best-effort; a child stuck in the kernel does not block
// shutdown beyond killWait.
func (h *Handle) Kill() error {
	err := killHard(h.pid)
	select {
	case <-h.waitDone:
	case <-time.After(killWait):
	}
	return err
}

// Sidecar holds the managed child handle behind a mutex so the main
// control path and the exit path can both reach it safely. The slot holds
// at most one live handle; the mutex is held only to take or inspect the
// slot, never across blocking I/O.
type Sidecar struct {
	mu sync.Mutex
	h  *Handle
}

// Spawn launches the server described by spec and returns the ownership
// handle together with the channel of its output lines. The channel closes
// when both pipes reach EOF, i.e. when the child exits or is killed; no
// external cancellation is needed. Spawn fails when the slot is occupied
// or the executable cannot be started, both fatal to shell startup.
func (s *Sidecar) Spawn(spec Spec) (*Handle, <-chan Event, error) {
	s.mu.Lock()
	occupied := s.h != nil
	s.mu.Unlock()
	if occupied {
		return nil, nil, fmt.Errorf("sidecar already running")
	}

	cmd := spec.buildCommand()
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("pipe stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("pipe stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("spawn %s: %w", spec.Command, err)
	}

	h := &Handle{pid: cmd.Process.Pid, waitDone: make(chan struct{})}
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()

	events := make(chan Event, 64)
	var wg sync.WaitGroup
	wg.Add(2)
	go scanLines(stdout, StreamStdout, events, &wg)
	go scanLines(stderr, StreamStderr, events, &wg)

	// Single waiter: cmd.Wait may only run after both pipes are drained.
	go func() {
		wg.Wait()
		close(events)
		h.exitErr = cmd.Wait()
		close(h.waitDone)
	}()

	return h, events, nil
}

// scanLines drains one pipe line by line. Invalid UTF-8 is replaced rather
// than rejected, and read errors end the drain silently: the pipe closing
// under a kill is the normal end of life here.
func scanLines(r io.Reader, stream Stream, events chan<- Event, wg *sync.WaitGroup) {
	defer wg.Done()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		events <- Event{Stream: stream, Line: strings.ToValidUTF8(sc.Text(), "�")}
	}
}

// Take atomically empties the slot and returns the handle, or nil when the
// slot is already empty. Only one caller can ever obtain a given handle.
func (s *Sidecar) Take() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.h
	s.h = nil
	return h
}

// PID reports the supervised PID, or 0 when the slot is empty.
func (s *Sidecar) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.h == nil {
		return 0
	}
	return s.h.pid
}

// Terminate takes the handle and kills the child. Terminating an
// already-taken slot is a no-op, not an error.
func (s *Sidecar) Terminate() error {
	h := s.Take()
	if h == nil {
		return nil
	}
	return h.Kill()
}
