package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the knaptrace CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function builds the root command with all subcommands, configures
// logging based on the KNAPTRACE_LOG environment variable and the
// --verbose flag, and executes the command tree. The context controls
// cancellation: an interrupted ctx stops a running search and returns its
// partial trace.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - KNAPTRACE_LOG: base level ("debug", "info", "warn", "error")
//   - With --verbose (-v): debug level, overriding the environment
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	c := New(os.Stderr, levelFromEnv())
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	return root.ExecuteContext(ctx)
}

// levelFromEnv reads the log level from KNAPTRACE_LOG. Unset or
// unparseable values mean info.
func levelFromEnv() log.Level {
	if s := os.Getenv("KNAPTRACE_LOG"); s != "" {
		if level, err := log.ParseLevel(s); err == nil {
			return level
		}
	}
	return LogInfo
}
