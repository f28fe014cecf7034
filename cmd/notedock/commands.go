package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notedock/notedock/internal/config"
	"github.com/notedock/notedock/internal/history/sqlite"
	"github.com/notedock/notedock/internal/logger"
	"github.com/notedock/notedock/internal/metrics"
	"github.com/notedock/notedock/internal/shell"
)

// command implements the CLI subcommands.
type command struct{}

// Run executes the shell lifecycle until an exit trigger fires. Startup
// errors (base directory, config, spawn, lock record) are fatal and
// surface as the command error.
func (command) Run(flags RunFlags) error {
	level := slog.LevelInfo
	if flags.Debug {
		level = slog.LevelDebug
	}
	log := logger.New(os.Stderr, level)

	baseDir, err := config.ResolveBaseDir(log)
	if err != nil {
		return err
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return err
	}
	if flags.Port != 0 {
		cfg.Port = flags.Port
	}
	if flags.Command != "" {
		cfg.Server.Command = flags.Command
	}

	if cfg.Metrics.Enabled {
		if err := metrics.RegisterDefault(); err != nil {
			log.Warn("metrics registration failed", "error", err)
		}
	}

	var opts []shell.Option
	if cfg.History.Enabled {
		sink, err := sqlite.New(cfg.HistoryDSN())
		if err != nil {
			log.Warn("history store unavailable", "dsn", cfg.HistoryDSN(), "error", err)
		} else {
			defer func() { _ = sink.Close() }()
			opts = append(opts, shell.WithHistory(sink))
		}
	}

	sh := shell.New(cfg, log, opts...)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return sh.Run(ctx)
}

// Status queries the running shell and renders its status.
func (command) Status(flags ControlFlags) error {
	client, err := newControlClient(flags)
	if err != nil {
		return err
	}
	st, err := client.status()
	if err != nil {
		return fmt.Errorf("query shell status: %w", err)
	}

	uptime := ""
	if !st.StartedAt.IsZero() {
		uptime = time.Since(st.StartedAt).Truncate(time.Second).String()
	}
	fmt.Println(renderStatusTable(st, uptime))
	return nil
}

// Open requests the main window, like the tray menu's Open entry.
func (command) Open(flags ControlFlags) error {
	client, err := newControlClient(flags)
	if err != nil {
		return err
	}
	return client.post("/window/main/open")
}

// Toggle flips the quick-capture overlay, like the global hotkey.
func (command) Toggle(flags ControlFlags) error {
	client, err := newControlClient(flags)
	if err != nil {
		return err
	}
	return client.post("/overlay/toggle")
}

// Quit asks the running shell to shut down.
func (command) Quit(flags ControlFlags) error {
	client, err := newControlClient(flags)
	if err != nil {
		return err
	}
	if err := client.post("/quit"); err != nil {
		return err
	}
	fmt.Println("shutdown requested")
	return nil
}
