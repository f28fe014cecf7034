package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notedock/notedock/internal/ui"
)

type fakeShell struct {
	quits atomic.Int32
}

func (f *fakeShell) Status() Status {
	return Status{RunID: "run-1", State: "running", PID: 5555, Port: 4000, StartedAt: time.Now()}
}

func (f *fakeShell) Quit() { f.quits.Add(1) }

type countingCommander struct {
	open, closeOv, toggle atomic.Int32
}

func (c *countingCommander) OpenMainWindow() error { c.open.Add(1); return nil }
func (c *countingCommander) CloseOverlay() error   { c.closeOv.Add(1); return nil }
func (c *countingCommander) ToggleOverlay() error  { c.toggle.Add(1); return nil }

func newTestRouter() (*fakeShell, *countingCommander, *ui.RecordMode, http.Handler) {
	gin.SetMode(gin.TestMode)
	sh := &fakeShell{}
	cmd := &countingCommander{}
	rm := &ui.RecordMode{}
	r := NewRouter(sh, cmd, rm, "/api")
	return sh, cmd, rm, r.Handler()
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestWindowAndOverlayCommands(t *testing.T) {
	_, cmd, _, h := newTestRouter()

	if w := do(t, h, http.MethodPost, "/api/window/main/open"); w.Code != http.StatusOK {
		t.Fatalf("open main window: status %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/api/overlay/toggle"); w.Code != http.StatusOK {
		t.Fatalf("toggle overlay: status %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/api/overlay/close"); w.Code != http.StatusOK {
		t.Fatalf("close overlay: status %d", w.Code)
	}
	if cmd.open.Load() != 1 || cmd.toggle.Load() != 1 || cmd.closeOv.Load() != 1 {
		t.Fatalf("commander calls = %d/%d/%d, want 1/1/1",
			cmd.open.Load(), cmd.toggle.Load(), cmd.closeOv.Load())
	}
}

func TestRecordModeEndpoints(t *testing.T) {
	_, _, rm, h := newTestRouter()

	w := do(t, h, http.MethodGet, "/api/record-mode")
	var resp recordModeResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Enabled {
		t.Fatalf("record mode should start disabled")
	}

	w = do(t, h, http.MethodPost, "/api/record-mode/toggle")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Enabled || !rm.Enabled() {
		t.Fatalf("toggle should enable record mode")
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, _, _, h := newTestRouter()
	w := do(t, h, http.MethodGet, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var st Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.PID != 5555 || st.Port != 4000 || st.State != "running" {
		t.Fatalf("status = %+v", st)
	}
}

func TestQuitDelegatesToShell(t *testing.T) {
	sh, _, _, h := newTestRouter()
	if w := do(t, h, http.MethodPost, "/api/quit"); w.Code != http.StatusOK {
		t.Fatalf("quit: %d", w.Code)
	}
	deadline := time.Now().Add(2 * time.Second)
	for sh.quits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sh.quits.Load() != 1 {
		t.Fatalf("Quit not invoked")
	}
}

func TestEmptyBasePathServesAtRoot(t *testing.T) {
	sh := &fakeShell{}
	r := NewRouter(sh, &countingCommander{}, &ui.RecordMode{}, "")
	w := do(t, r.Handler(), http.MethodGet, "/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status at root: %d", w.Code)
	}
}
