// Package shell drives one run of the notedock application: reap any stale
// server recorded by a previous run, spawn the sidecar, persist its PID,
// relay its output, serve the control surface, and tear everything down
// exactly once on whichever exit path fires first.
package shell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notedock/notedock/internal/config"
	"github.com/notedock/notedock/internal/history"
	"github.com/notedock/notedock/internal/lockfile"
	"github.com/notedock/notedock/internal/metrics"
	"github.com/notedock/notedock/internal/server"
	"github.com/notedock/notedock/internal/sidecar"
	"github.com/notedock/notedock/internal/ui"
)

// State names one phase of the per-run lifecycle. Transitions only move
// forward; ShuttingDown is never skipped and re-entering it is a no-op.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateBaseDirReady  State = "basedir-ready"
	StateReaped        State = "reaped"
	StateSpawnedLocked State = "spawned-locked"
	StateRunning       State = "running"
	StateShuttingDown  State = "shutting-down"
	StateTerminated    State = "terminated"
)

const historyTimeout = 2 * time.Second

// Shell owns the lock record, the sidecar slot, and the control surface
// for one application run.
type Shell struct {
	cfg       *config.Config
	log       *slog.Logger
	runID     string
	store     *lockfile.Store
	sidecar   *sidecar.Sidecar
	record    *ui.RecordMode
	commander ui.Commander
	sink      history.Sink
	console   io.Writer

	mu        sync.Mutex
	state     State
	pid       int
	startedAt time.Time

	quitOnce sync.Once
	quitCh   chan struct{}
}

// Option customizes a Shell.
type Option func(*Shell)

// WithCommander attaches the desktop layer that executes window and
// overlay effects. Defaults to a logging stub.
func WithCommander(c ui.Commander) Option {
	return func(s *Shell) { s.commander = c }
}

// WithHistory attaches a lifecycle event sink. The shell logs but never
// escalates sink failures.
func WithHistory(sink history.Sink) Option {
	return func(s *Shell) { s.sink = sink }
}

// WithConsole redirects the relayed sidecar output. Defaults to stdout.
func WithConsole(w io.Writer) Option {
	return func(s *Shell) { s.console = w }
}

// New builds a Shell for the resolved configuration. The base directory in
// cfg must already exist.
func New(cfg *config.Config, log *slog.Logger, opts ...Option) *Shell {
	s := &Shell{
		cfg:     cfg,
		log:     log,
		runID:   uuid.NewString(),
		store:   lockfile.New(cfg.BaseDir, cfg.Port),
		sidecar: &sidecar.Sidecar{},
		record:  &ui.RecordMode{},
		console: os.Stdout,
		state:   StateUninitialized,
		quitCh:  make(chan struct{}),
	}
	s.commander = ui.LogCommander{Logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID identifies this shell run in logs and history records.
func (s *Shell) RunID() string { return s.runID }

// Run executes the full lifecycle and blocks until an exit trigger fires:
// context cancellation (OS signal), Quit via the control surface, or the
// sidecar dying on its own. Whatever the trigger, shutdown runs before Run
// returns. Startup errors are fatal and returned as-is.
func (s *Shell) Run(ctx context.Context) error {
	s.setState(StateBaseDirReady)
	s.log.Info("shell starting", "run_id", s.runID, "base_dir", s.cfg.BaseDir, "port", s.cfg.Port)

	reaper := &sidecar.Reaper{Store: s.store, Logger: s.log}
	if reaper.Reap() {
		s.recordEvent(history.EventReap, 0, "stale record cleared")
	}
	s.setState(StateReaped)

	h, events, err := s.sidecar.Spawn(sidecar.Spec{
		Name:    "server",
		Command: s.cfg.Server.Command,
		Args:    s.cfg.Server.Args,
		WorkDir: s.cfg.Server.WorkDir,
		Env:     s.cfg.Server.Env,
	})
	if err != nil {
		return fmt.Errorf("spawn server: %w", err)
	}
	metrics.IncSpawn()
	s.mu.Lock()
	s.pid = h.PID()
	s.startedAt = time.Now()
	s.mu.Unlock()

	if err := s.store.Write(h.PID()); err != nil {
		// Without the record a future run cannot reap this child, so the
		// child must not outlive this failed startup.
		s.Shutdown()
		return fmt.Errorf("persist instance record: %w", err)
	}
	s.setState(StateSpawnedLocked)
	s.log.Info("server spawned", "pid", h.PID(), "lock", s.store.Path())
	s.recordEvent(history.EventSpawn, h.PID(), "")

	relay := &sidecar.Relay{Console: s.console}
	if s.cfg.Capture.Enabled() {
		relay.Stdout, relay.Stderr = s.cfg.Capture.Writers("server")
	}
	go relay.Run(events)

	ctrl := server.NewServer(s.cfg.Control.Listen, s.cfg.Control.BasePath, s, s.commander, s.record)
	defer func() { _ = ctrl.Close() }()

	if s.cfg.Metrics.Enabled && s.cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(s.cfg.Metrics.Listen); err != nil && err != http.ErrServerClosed {
				s.log.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	s.setState(StateRunning)
	select {
	case <-ctx.Done():
		s.log.Info("termination signal received")
	case <-s.quitCh:
		s.log.Info("quit requested")
	case <-h.Done():
		s.log.Warn("server exited on its own", "pid", h.PID())
	}

	s.Shutdown()
	s.setState(StateTerminated)
	return nil
}

// Quit requests shutdown from the control surface or the tray menu. Safe
// to call any number of times, from any goroutine.
func (s *Shell) Quit() {
	s.quitOnce.Do(func() { close(s.quitCh) })
}

// Shutdown is the single teardown routine behind every exit trigger. It
// terminates the sidecar if this caller wins the handle, then clears the
// lock record unconditionally: even a failed termination must not leave a
// record the next startup would trust. Each step absorbs its own errors so
// partial failure never skips the next step, and invoking Shutdown again
// terminates nothing but still re-clears the record.
func (s *Shell) Shutdown() {
	s.setState(StateShuttingDown)

	if h := s.sidecar.Take(); h != nil {
		if err := h.Kill(); err != nil {
			s.log.Warn("server termination failed", "pid", h.PID(), "error", err)
		}
		metrics.IncTerminate()
		s.recordEvent(history.EventTerminate, h.PID(), "")
	}

	s.store.Clear()
	metrics.IncShutdown()
	s.recordEvent(history.EventShutdown, s.currentPID(), "")
	s.log.Info("shutdown complete", "run_id", s.runID)
}

// Status implements server.Shell.
func (s *Shell) Status() server.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return server.Status{
		RunID:      s.runID,
		State:      string(s.state),
		PID:        s.pid,
		Port:       s.cfg.Port,
		StartedAt:  s.startedAt,
		RecordMode: s.record.Enabled(),
	}
}

func (s *Shell) currentPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

func (s *Shell) setState(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == next {
		return
	}
	// A repeat shutdown after the run already terminated re-clears the
	// record but does not reopen the state machine.
	if s.state == StateTerminated && next == StateShuttingDown {
		return
	}
	s.log.Debug("state transition", "from", string(s.state), "to", string(next))
	s.state = next
}

func (s *Shell) recordEvent(t history.EventType, pid int, detail string) {
	if s.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	e := history.Event{
		Type:       t,
		OccurredAt: time.Now().UTC(),
		RunID:      s.runID,
		PID:        pid,
		Port:       s.cfg.Port,
		Detail:     detail,
	}
	if err := s.sink.Send(ctx, e); err != nil {
		s.log.Warn("history sink write failed", "event", string(t), "error", err)
	}
}
