// Package ui is the boundary to the desktop layer: window, overlay, and
// tray effects are dispatched through Commander, and record mode holds the
// toggleable capture state the overlay queries. Window creation, tray
// rendering, and hotkey registration themselves live outside this module.
package ui

import (
	"log/slog"
	"sync"
)

// Commander receives the window and overlay effects requested through the
// control surface. Implementations must be safe for concurrent use; the
// default desktop implementation is provided by the embedding application.
type Commander interface {
	// OpenMainWindow opens (or recreates) the main application window.
	OpenMainWindow() error
	// CloseOverlay hides the quick-capture overlay panel.
	CloseOverlay() error
	// ToggleOverlay shows the overlay if hidden and hides it otherwise.
	ToggleOverlay() error
}

// LogCommander is a Commander that only records the requested effect. It
// stands in whenever no desktop layer is attached (headless runs, tests).
type LogCommander struct {
	Logger *slog.Logger
}

func (l LogCommander) OpenMainWindow() error {
	l.Logger.Info("ui command", "command", "open-main-window")
	return nil
}

func (l LogCommander) CloseOverlay() error {
	l.Logger.Info("ui command", "command", "close-overlay")
	return nil
}

func (l LogCommander) ToggleOverlay() error {
	l.Logger.Info("ui command", "command", "toggle-overlay")
	return nil
}

// RecordMode is the mutex-guarded record-mode flag shared between the
// control surface and the overlay.
type RecordMode struct {
	mu      sync.Mutex
	enabled bool
}

// Toggle flips record mode and returns the new value.
func (r *RecordMode) Toggle() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = !r.enabled
	return r.enabled
}

// Enabled returns the current record-mode state.
func (r *RecordMode) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}
