package cli

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/listsync/internal/config"
	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/repository"
	"github.com/Tomlord1122/listsync/internal/service"
	"github.com/Tomlord1122/listsync/internal/tui"
)

// appCommand carries what every subcommand of one app needs.
type appCommand struct {
	opts *RootOptions
	app  config.App
	url  string // --url, overrides the environment
}

func newAppCommand(opts *RootOptions, app config.App, use, short string) (*appCommand, *cobra.Command) {
	a := &appCommand{opts: opts, app: app}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	cmd.PersistentFlags().StringVar(&a.url, "url", "", "collection URL (overrides the environment)")
	return a, cmd
}

func (a *appCommand) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: a.opts.Format, Writer: cmd.OutOrStdout()}
}

// serviceOptions returns the logger settings for a synchronizer. The
// terminal view owns the screen, so it logs nothing unless --verbose.
func (a *appCommand) serviceOptions(interactive bool) (*slog.Logger, []service.Option) {
	logger := slog.Default()
	if interactive && !a.opts.Verbose {
		logger = slog.New(slog.DiscardHandler)
	}
	return logger, []service.Option{service.WithLogger(logger)}
}

func openCollection[T domain.Record](a *appCommand, logger *slog.Logger) (repository.Collection[T], error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	timeout := cfg.HTTPTimeout
	if a.opts.Timeout > 0 {
		timeout = a.opts.Timeout
	}

	baseURL := a.url
	if baseURL == "" {
		if baseURL, err = cfg.BaseURL(a.app); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
		}
	}

	remote, err := repository.NewRESTCollection[T](baseURL,
		repository.WithHTTPClient(&http.Client{Timeout: timeout}),
		repository.WithLogger(logger),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return remote, nil
}

// uiCommand starts the terminal view built by open.
func (a *appCommand) uiCommand(open func(cmd *cobra.Command) (tui.Adapter, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse and edit the list in the terminal",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := open(cmd)
			if err != nil {
				return err
			}
			if err := tui.Run(cmd.Context(), adapter); err != nil {
				return WrapExitError(ExitFailure, "terminal view failed", err)
			}
			return nil
		},
	}
}

// loadItems loads a list, failing the command if the server cannot be read.
func loadItems(ctx context.Context, what string, load func(context.Context) error) error {
	if err := load(ctx); err != nil {
		return operationError("cannot load "+what, err)
	}
	return nil
}

// choiceFlag canonicalizes an enum flag value, keeping current when unset.
func choiceFlag(cmd *cobra.Command, name string, value string, choices []string, current string) (string, error) {
	if !cmd.Flags().Changed(name) {
		return current, nil
	}
	v, err := domain.NormalizeChoice(choices, value, current)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "invalid --"+name, err)
	}
	return v, nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
