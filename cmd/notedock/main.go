package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// RunFlags holds flags for the run command.
type RunFlags struct {
	Port    int
	Command string
	Debug   bool
}

// ControlFlags holds the connection flags shared by the client commands.
type ControlFlags struct {
	URL     string
	Timeout time.Duration
}

// buildRoot creates the root command and wires the subcommands.
func buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "notedock",
		Short: "Desktop shell supervising the notedock server",
		Long: `Notedock launches and supervises the background notedock server,
relays its output, and coordinates window/overlay commands from the tray
and the global hotkey through a local control API.

Examples:
  notedock run                   # Start the shell and the server
  notedock status                # Show the running shell's status
  notedock open                  # Open the main window
  notedock toggle                # Toggle the quick-capture overlay
  notedock quit                  # Stop the running shell`,
	}

	notedockCommand := command{}
	root.AddCommand(
		createRunCommand(notedockCommand),
		createStatusCommand(notedockCommand),
		createOpenCommand(notedockCommand),
		createToggleCommand(notedockCommand),
		createQuitCommand(notedockCommand),
	)
	return root
}

// createRunCommand creates the run subcommand.
func createRunCommand(notedockCommand command) *cobra.Command {
	flags := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the shell and supervise the server",
		Long: `Run reaps any server instance left by a previous run, spawns a fresh
server, records its PID, and relays its output until the shell exits.

Examples:
  notedock run
  notedock run --port=4000 --server-command=./notedock-server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return notedockCommand.Run(*flags)
		},
	}
	cmd.Flags().IntVar(&flags.Port, "port", 0, "server port (overrides config)")
	cmd.Flags().StringVar(&flags.Command, "server-command", "", "server executable (overrides config)")
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "enable debug logging")
	return cmd
}

// createStatusCommand creates the status subcommand.
func createStatusCommand(notedockCommand command) *cobra.Command {
	flags := &ControlFlags{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running shell's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return notedockCommand.Status(*flags)
		},
	}
	addControlFlags(cmd, flags)
	return cmd
}

// createOpenCommand creates the open subcommand (tray "Open" equivalent).
func createOpenCommand(notedockCommand command) *cobra.Command {
	flags := &ControlFlags{}
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the main window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return notedockCommand.Open(*flags)
		},
	}
	addControlFlags(cmd, flags)
	return cmd
}

// createToggleCommand creates the toggle subcommand (global hotkey equivalent).
func createToggleCommand(notedockCommand command) *cobra.Command {
	flags := &ControlFlags{}
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the quick-capture overlay",
		RunE: func(cmd *cobra.Command, args []string) error {
			return notedockCommand.Toggle(*flags)
		},
	}
	addControlFlags(cmd, flags)
	return cmd
}

// createQuitCommand creates the quit subcommand (tray "Quit" equivalent).
func createQuitCommand(notedockCommand command) *cobra.Command {
	flags := &ControlFlags{}
	cmd := &cobra.Command{
		Use:   "quit",
		Short: "Stop the running shell and its server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return notedockCommand.Quit(*flags)
		},
	}
	addControlFlags(cmd, flags)
	return cmd
}

func addControlFlags(cmd *cobra.Command, flags *ControlFlags) {
	cmd.Flags().StringVar(&flags.URL, "control-url", "", "control API URL (default derived from config)")
	cmd.Flags().DurationVar(&flags.Timeout, "control-timeout", 10*time.Second, "request timeout")
}
