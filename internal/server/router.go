// Package server exposes the local HTTP control surface the desktop layer
// drives: window and overlay commands, record mode, status, and quit.
// Endpoints (under basePath):
//
//	POST /window/main/open
//	POST /overlay/close
//	POST /overlay/toggle
//	GET  /record-mode
//	POST /record-mode/toggle
//	GET  /status
//	POST /quit
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notedock/notedock/internal/ui"
)

// Status describes a running shell to control clients.
type Status struct {
	RunID      string    `json:"run_id"`
	State      string    `json:"state"`
	PID        int       `json:"pid"`
	Port       int       `json:"port"`
	StartedAt  time.Time `json:"started_at"`
	RecordMode bool      `json:"record_mode"`
}

// Shell is the slice of the shell lifecycle the control surface needs.
// Quit must be safe to call from a request handler while the shell is
// blocked in its run loop.
type Shell interface {
	Status() Status
	Quit()
}

// Router provides the embeddable control handlers.
type Router struct {
	shell      Shell
	commander  ui.Commander
	recordMode *ui.RecordMode
	basePath   string
}

// NewRouter constructs a Router with a sanitized base path.
func NewRouter(shell Shell, commander ui.Commander, recordMode *ui.RecordMode, basePath string) *Router {
	return &Router{
		shell:      shell,
		commander:  commander,
		recordMode: recordMode,
		basePath:   sanitizeBase(basePath),
	}
}

// Handler returns an http.Handler powered by gin that can be mounted in any
// server or mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.POST("/window/main/open", r.handleOpenMainWindow)
	group.POST("/overlay/close", r.handleCloseOverlay)
	group.POST("/overlay/toggle", r.handleToggleOverlay)
	group.GET("/record-mode", r.handleRecordMode)
	group.POST("/record-mode/toggle", r.handleRecordModeToggle)
	group.GET("/status", r.handleStatus)
	group.POST("/quit", r.handleQuit)
	return g
}

// NewServer starts a standalone control server on addr using this router.
func NewServer(addr, basePath string, shell Shell, commander ui.Commander, recordMode *ui.RecordMode) *http.Server {
	r := NewRouter(shell, commander, recordMode, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server
}

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type recordModeResp struct {
	Enabled bool `json:"enabled"`
}

func (r *Router) handleOpenMainWindow(c *gin.Context) {
	if err := r.commander.OpenMainWindow(); err != nil {
		writeJSON(c, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleCloseOverlay(c *gin.Context) {
	if err := r.commander.CloseOverlay(); err != nil {
		writeJSON(c, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleToggleOverlay(c *gin.Context) {
	if err := r.commander.ToggleOverlay(); err != nil {
		writeJSON(c, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleRecordMode(c *gin.Context) {
	writeJSON(c, http.StatusOK, recordModeResp{Enabled: r.recordMode.Enabled()})
}

func (r *Router) handleRecordModeToggle(c *gin.Context) {
	writeJSON(c, http.StatusOK, recordModeResp{Enabled: r.recordMode.Toggle()})
}

func (r *Router) handleStatus(c *gin.Context) {
	writeJSON(c, http.StatusOK, r.shell.Status())
}

func (r *Router) handleQuit(c *gin.Context) {
	// Reply first; Quit tears down the shell that owns this listener.
	writeJSON(c, http.StatusOK, okResp{OK: true})
	go r.shell.Quit()
}
