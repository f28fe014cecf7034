package notedock

import (
	"context"
	"log/slog"

	"github.com/notedock/notedock/internal/config"
	"github.com/notedock/notedock/internal/history"
	"github.com/notedock/notedock/internal/server"
	"github.com/notedock/notedock/internal/shell"
	"github.com/notedock/notedock/internal/ui"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = config.Config

type Status = server.Status

type State = shell.State

type Commander = ui.Commander

type HistorySink = history.Sink

type HistoryEvent = history.Event

// Shell is a thin facade over internal/shell.Shell.
// It provides a stable public API for embedding the supervisor in a
// desktop host.

type Shell struct{ inner *shell.Shell }

// ResolveBaseDir resolves the application base directory from the
// environment override, falling back to a directory under the user's home.
func ResolveBaseDir(log *slog.Logger) (string, error) {
	return config.ResolveBaseDir(log)
}

// LoadConfig reads config.toml from the base directory, returning
// defaults when the file is absent.
func LoadConfig(baseDir string) (*Config, error) { return config.Load(baseDir) }

// New builds a Shell ready to Run.
func New(cfg *Config, log *slog.Logger, opts ...Option) *Shell {
	return &Shell{inner: shell.New(cfg, log, opts...)}
}

type Option = shell.Option

// WithCommander attaches the desktop layer that executes window and
// overlay effects.
func WithCommander(c Commander) Option { return shell.WithCommander(c) }

// WithHistory attaches a lifecycle event sink.
func WithHistory(sink HistorySink) Option { return shell.WithHistory(sink) }

func (s *Shell) Run(ctx context.Context) error { return s.inner.Run(ctx) }
func (s *Shell) Quit()                         { s.inner.Quit() }
func (s *Shell) Status() Status                { return s.inner.Status() }
