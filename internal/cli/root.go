package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/listsync/internal/config"
	"github.com/Tomlord1122/listsync/internal/service"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	EnvFile string
	Timeout time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the listsync CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listsync",
		Short: "listsync - journal, recipe box and task tracker",
		Long: `Keep a journal, a recipe box and a task list in a REST collection.

Each app talks to its own collection URL, taken from JOURNAL_API_URL,
RECIPE_API_URL and TASK_API_URL (a .env file in the working directory is
read automatically) or from --url.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.EnvFile != "" {
				if err := config.LoadEnvFile(opts.EnvFile); err != nil {
					return WrapExitError(ExitCommandError, "cannot read env file", err)
				}
			}
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "load environment from this file")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 0, "per-request timeout (default from LISTSYNC_HTTP_TIMEOUT or 10s)")

	cmd.AddCommand(NewJournalCommand(opts))
	cmd.AddCommand(NewRecipeCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are written to stderr in text mode and to stdout in JSON mode.
func Execute(args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	f := &OutputFormatter{Format: opts.Format, Writer: stderr}
	if opts.Format == "json" {
		f.Writer = stdout
	}
	_ = f.Error(code, string(service.ReasonOf(err)), err.Error())
	return code
}

// exactArgs is cobra.ExactArgs reporting a command error exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

// operationError maps a synchronizer failure to an exit code: rejected input
// is a command error, everything else a failed operation.
func operationError(message string, err error) error {
	var syncErr *service.SyncError
	if errors.As(err, &syncErr) && syncErr.Reason == service.ReasonValidation {
		return WrapExitError(ExitCommandError, message, err)
	}
	return WrapExitError(ExitFailure, message, err)
}
