package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/notedock/notedock/internal/server"
)

func newTestClient(t *testing.T, h http.Handler) (*controlClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cli, err := newControlClient(ControlFlags{URL: srv.URL + "/api", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("newControlClient: %v", err)
	}
	return cli, srv
}

func TestControlClientPost(t *testing.T) {
	var hits int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/window/main/open", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	cli, _ := newTestClient(t, mux)
	if err := cli.post("/window/main/open"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", hits)
	}
}

func TestControlClientStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"run_id":"run-1","state":"running","pid":4242,"port":4000,"record_mode":true}`))
	})
	cli, _ := newTestClient(t, mux)
	st, err := cli.status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	want := server.Status{RunID: "run-1", State: "running", PID: 4242, Port: 4000, RecordMode: true}
	if st.RunID != want.RunID || st.State != want.State || st.PID != want.PID || st.Port != want.Port || st.RecordMode != want.RecordMode {
		t.Fatalf("status mismatch: %+v", st)
	}
}

func TestControlClientDecodesErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/quit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"already shutting down"}`))
	})
	cli, _ := newTestClient(t, mux)
	err := cli.post("/quit")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "already shutting down") {
		t.Fatalf("error body not surfaced: %v", err)
	}
}

func TestControlClientConnectionRefused(t *testing.T) {
	cli, err := newControlClient(ControlFlags{URL: "http://127.0.0.1:1/api", Timeout: time.Second})
	if err != nil {
		t.Fatalf("newControlClient: %v", err)
	}
	if err := cli.post("/quit"); err == nil {
		t.Fatal("expected connection error")
	} else if !strings.Contains(err.Error(), "is the shell running?") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestControlClientTrimsTrailingSlash(t *testing.T) {
	cli, err := newControlClient(ControlFlags{URL: "http://127.0.0.1:4580/api/"})
	if err != nil {
		t.Fatalf("newControlClient: %v", err)
	}
	if cli.baseURL != "http://127.0.0.1:4580/api" {
		t.Fatalf("baseURL = %q", cli.baseURL)
	}
}
