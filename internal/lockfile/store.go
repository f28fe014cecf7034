// Package lockfile persists the PID of the supervised server process so a
// later run can detect and reap a leftover instance. The record is a single
// decimal number in <base_dir>/server-<port>.pid; at most one record exists
// per (base directory, port) pair.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
)

// Store reads and writes the lock record for one (base directory, port) pair.
type Store struct {
	path string
}

// PathFor derives the lock record path. The port is embedded in the file
// name so differently configured ports never collide on the same record.
func PathFor(baseDir string, port int) string {
	return filepath.Join(baseDir, fmt.Sprintf("server-%d.pid", port))
}

// New returns a Store for the given base directory and port.
func New(baseDir string, port int) *Store {
	return &Store{path: PathFor(baseDir, port)}
}

// Path returns the on-disk location of the lock record.
func (s *Store) Path() string { return s.path }

// Write persists pid, replacing any existing record. The write is atomic so
// a concurrent reader never observes a partially written file. It fails only
// on underlying filesystem errors.
func (s *Store) Write(pid int) error {
	if err := renameio.WriteFile(s.path, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return fmt.Errorf("write lock record %s: %w", s.path, err)
	}
	return nil
}

// Read returns the recorded PID. A missing, unreadable, or non-numeric file
// means "no record"; a corrupt record must never block startup, so parse
// failures are reported as absence rather than as errors.
func (s *Store) Read() (int, bool) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Clear removes the record. Deletion is best-effort: absence is not an
// error, and any failure is swallowed because the only contract later
// readers rely on is that Read reports no record once the referenced
// process is gone.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}
