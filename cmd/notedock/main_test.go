package main

import (
	"strings"
	"testing"

	"github.com/notedock/notedock/internal/server"
)

func TestBuildRootHasSubcommands(t *testing.T) {
	root := buildRoot()
	want := map[string]bool{"run": false, "status": false, "open": false, "toggle": false, "quit": false}
	for _, c := range root.Commands() {
		name := strings.Fields(c.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q missing", name)
		}
	}
}

func TestRunCommandFlags(t *testing.T) {
	root := buildRoot()
	run, _, err := root.Find([]string{"run"})
	if err != nil {
		t.Fatalf("find run: %v", err)
	}
	for _, name := range []string{"port", "server-command", "debug"} {
		if run.Flags().Lookup(name) == nil {
			t.Fatalf("run flag %q missing", name)
		}
	}
}

func TestControlFlagsOnClientCommands(t *testing.T) {
	root := buildRoot()
	for _, name := range []string{"status", "open", "toggle", "quit"} {
		c, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if c.Flags().Lookup("control-url") == nil {
			t.Fatalf("%s missing --control-url", name)
		}
	}
}

func TestRenderStatusTable(t *testing.T) {
	out := renderStatusTable(server.Status{
		RunID: "run-1",
		State: "running",
		PID:   5555,
		Port:  4000,
	}, "1m0s")
	for _, want := range []string{"run-1", "running", "5555", "4000", "1m0s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}
