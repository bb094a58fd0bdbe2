package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/listsync/internal/config"
	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/service"
	"github.com/Tomlord1122/listsync/internal/tui"
)

// NewJournalCommand creates the journal command group.
func NewJournalCommand(opts *RootOptions) *cobra.Command {
	a, cmd := newAppCommand(opts, config.AppJournal, "journal", "Keep a mood journal")

	open := func(interactive bool) (*service.Journal, error) {
		logger, svcOpts := a.serviceOptions(interactive)
		remote, err := openCollection[domain.Entry](a, logger)
		if err != nil {
			return nil, err
		}
		return service.NewJournal(remote, svcOpts...), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List journal entries",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := open(false)
				if err != nil {
					return err
				}
				if err := loadItems(cmd.Context(), "journal", j.Load); err != nil {
					return err
				}
				entries := j.Items()
				return a.output(cmd).Success(entries, func(w io.Writer) error {
					return renderEntries(w, entries)
				})
			},
		},
		newJournalAddCommand(a, open),
		newJournalEditCommand(a, open),
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a journal entry",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := open(false)
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if err := j.Remove(cmd.Context(), id); err != nil {
					return operationError("cannot delete journal entry", err)
				}
				return a.output(cmd).Success(map[string]domain.ID{"id": id}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Deleted journal entry %s\n", id)
					return err
				})
			},
		},
		a.uiCommand(func(cmd *cobra.Command) (tui.Adapter, error) {
			j, err := open(true)
			if err != nil {
				return nil, err
			}
			return tui.JournalAdapter(j), nil
		}),
	)
	return cmd
}

func newJournalAddCommand(a *appCommand, open func(bool) (*service.Journal, error)) *cobra.Command {
	var mood, date string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Write a journal entry",
		Long:  "Write a journal entry. The mood defaults to Happy and the date to today.",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := domain.EntryFields{Entry: joinArgs(args)}
			var err error
			if f.Mood, err = choiceFlag(cmd, "mood", mood, domain.Moods, ""); err != nil {
				return err
			}
			if f.Date, err = dateFlag(cmd, date, ""); err != nil {
				return err
			}

			j, err := open(false)
			if err != nil {
				return err
			}
			entry, err := j.Add(cmd.Context(), f)
			if err != nil {
				return operationError("cannot add journal entry", err)
			}
			return a.output(cmd).Success(entry, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added journal entry %s (%s, %s)\n", entry.ID, entry.Mood, entry.Date)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "mood: Happy, Sad, Anxious, Excited or Calm")
	cmd.Flags().StringVar(&date, "date", "", "entry date as YYYY-MM-DD")
	return cmd
}

func newJournalEditCommand(a *appCommand, open func(bool) (*service.Journal, error)) *cobra.Command {
	var text, mood, date string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a journal entry",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open(false)
			if err != nil {
				return err
			}
			if err := loadItems(cmd.Context(), "journal", j.Load); err != nil {
				return err
			}
			current, ok := j.Find(domain.ID(args[0]))
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("journal entry %s not found", args[0]))
			}
			if err := j.BeginEdit(current); err != nil {
				return operationError("cannot edit journal entry", err)
			}

			draft := current.Fields()
			if cmd.Flags().Changed("entry") {
				draft.Entry = text
			}
			if draft.Mood, err = choiceFlag(cmd, "mood", mood, domain.Moods, draft.Mood); err != nil {
				return err
			}
			if draft.Date, err = dateFlag(cmd, date, draft.Date); err != nil {
				return err
			}
			if err := j.SetDraft(draft); err != nil {
				return operationError("cannot edit journal entry", err)
			}

			entry, err := j.SaveEdit(cmd.Context())
			if err != nil {
				return operationError("cannot update journal entry", err)
			}
			return a.output(cmd).Success(entry, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated journal entry %s\n", entry.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&text, "entry", "", "new entry text")
	cmd.Flags().StringVar(&mood, "mood", "", "new mood")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")
	return cmd
}

func dateFlag(cmd *cobra.Command, value, current string) (string, error) {
	if !cmd.Flags().Changed("date") {
		return current, nil
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		return "", WrapExitError(ExitCommandError, "invalid --date", err)
	}
	return value, nil
}
