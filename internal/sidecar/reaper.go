package sidecar

import (
	"log/slog"

	"github.com/notedock/notedock/internal/lockfile"
	"github.com/notedock/notedock/internal/metrics"
)

// Reaper terminates a server instance left behind by a previous shell run.
// It runs exactly once, before the new sidecar is spawned.
//
// The policy favors availability over strict single-instance enforcement:
// the signal outcome is not checked and the new instance starts without
// verifying the old process died, so two instances can briefly coexist.
// That race is accepted, not a bug to fix here.
type Reaper struct {
	Store  *lockfile.Store
	Logger *slog.Logger

	// Signal overrides the termination signal delivery, for tests.
	Signal func(pid int) error
}

// Reap reads the lock record and, when one exists, best-effort terminates
// the recorded process and unconditionally clears the record. It reports
// whether a stale record was found. A second run on the now-empty store is
// a no-op.
func (r *Reaper) Reap() bool {
	pid, ok := r.Store.Read()
	if !ok {
		return false
	}

	r.Logger.Info("terminating stale server instance", "pid", pid, "lock", r.Store.Path())
	sig := r.Signal
	if sig == nil {
		sig = signalTerm
	}
	if err := sig(pid); err != nil {
		// The process may be long gone or owned by someone else; either
		// way the record below is cleared so the next run starts clean.
		r.Logger.Debug("stale instance signal not delivered", "pid", pid, "error", err)
	}
	r.Store.Clear()
	metrics.IncStaleReap()
	return true
}
