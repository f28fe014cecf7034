package sidecar

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/notedock/notedock/internal/lockfile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestReapSignalsAndClearsRecord(t *testing.T) {
	store := lockfile.New(t.TempDir(), 4000)
	if err := store.Write(5555); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var signaled []int
	r := &Reaper{
		Store:  store,
		Logger: testLogger(),
		Signal: func(pid int) error {
			signaled = append(signaled, pid)
			return nil
		},
	}
	if !r.Reap() {
		t.Fatalf("Reap should report a stale record")
	}
	if len(signaled) != 1 || signaled[0] != 5555 {
		t.Fatalf("signaled = %v, want [5555]", signaled)
	}
	if _, ok := store.Read(); ok {
		t.Fatalf("record not cleared after reap")
	}

	// A second immediate run on the now-empty store is a no-op.
	if r.Reap() {
		t.Fatalf("second Reap should find nothing")
	}
	if len(signaled) != 1 {
		t.Fatalf("second Reap must not signal again, got %v", signaled)
	}
}

func TestReapClearsEvenWhenSignalFails(t *testing.T) {
	store := lockfile.New(t.TempDir(), 4000)
	if err := store.Write(4242); err != nil {
		t.Fatalf("Write: %v", err)
	}
	r := &Reaper{
		Store:  store,
		Logger: testLogger(),
		Signal: func(int) error { return errors.New("no such process") },
	}
	if !r.Reap() {
		t.Fatalf("Reap should report a stale record")
	}
	if _, ok := store.Read(); ok {
		t.Fatalf("failed signal must not leave a misleading record")
	}
}

func TestReapNoRecordIsNoop(t *testing.T) {
	r := &Reaper{
		Store:  lockfile.New(t.TempDir(), 4000),
		Logger: testLogger(),
		Signal: func(int) error {
			t.Fatalf("signal must not be sent without a record")
			return nil
		},
	}
	if r.Reap() {
		t.Fatalf("Reap on empty store should return false")
	}
}
