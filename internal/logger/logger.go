// Package logger configures the shell's slog console output and the
// rotating capture files that receive the sidecar's raw stdout/stderr.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for sidecar capture files.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// CaptureConfig describes where the sidecar's raw output lines are archived.
// When Dir is set and the explicit paths are empty, files are
// Dir/<name>.stdout.log and Dir/<name>.stderr.log. Rotation parameters
// follow lumberjack semantics.
type CaptureConfig struct {
	Dir        string `mapstructure:"dir"`
	StdoutPath string `mapstructure:"stdout"`
	StderrPath string `mapstructure:"stderr"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Enabled reports whether any capture destination is configured.
func (c CaptureConfig) Enabled() bool {
	return c.Dir != "" || c.StdoutPath != "" || c.StderrPath != ""
}

// Writers returns rotating write closers for the stdout and stderr capture
// files of the named sidecar. Either writer may be nil when no destination
// applies to that stream.
func (c CaptureConfig) Writers(name string) (io.WriteCloser, io.WriteCloser) {
	stdout := c.StdoutPath
	stderr := c.StderrPath
	if c.Dir != "" {
		_ = os.MkdirAll(c.Dir, 0o750)
		if stdout == "" {
			stdout = filepath.Join(c.Dir, name+".stdout.log")
		}
		if stderr == "" {
			stderr = filepath.Join(c.Dir, name+".stderr.log")
		}
	}
	return c.rotating(stdout), c.rotating(stderr)
}

func (c CaptureConfig) rotating(path string) io.WriteCloser {
	if path == "" {
		return nil
	}
	return &lj.Logger{
		Filename:   path,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// New builds the shell's console logger. Output going to a terminal gets
// the colored level prefix; redirected output stays plain text.
func New(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(NewColorTextHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
