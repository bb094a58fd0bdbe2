package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/listsync/internal/config"
	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/service"
	"github.com/Tomlord1122/listsync/internal/tui"
)

// NewTaskCommand creates the task command group.
func NewTaskCommand(opts *RootOptions) *cobra.Command {
	a, cmd := newAppCommand(opts, config.AppTask, "task", "Track tasks")

	open := func(interactive bool) (*service.Tasks, error) {
		logger, svcOpts := a.serviceOptions(interactive)
		remote, err := openCollection[domain.Task](a, logger)
		if err != nil {
			return nil, err
		}
		return service.NewTasks(remote, svcOpts...), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tasks",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := open(false)
				if err != nil {
					return err
				}
				if err := loadItems(cmd.Context(), "tasks", t.Load); err != nil {
					return err
				}
				tasks := t.Items()
				return a.output(cmd).Success(tasks, func(w io.Writer) error {
					return renderTasks(w, tasks)
				})
			},
		},
		newTaskAddCommand(a, open),
		newTaskEditCommand(a, open),
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Mark a task done, or open again",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := open(false)
				if err != nil {
					return err
				}
				if err := loadItems(cmd.Context(), "tasks", t.Load); err != nil {
					return err
				}
				current, ok := t.Find(domain.ID(args[0]))
				if !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("task %s not found", args[0]))
				}
				task, err := t.Toggle(cmd.Context(), current.ID, current.Completed)
				if err != nil {
					return operationError("cannot toggle task", err)
				}
				return a.output(cmd).Success(task, func(w io.Writer) error {
					state := "open"
					if task.Completed {
						state = "done"
					}
					_, err := fmt.Fprintf(w, "Task %s is %s\n", task.ID, state)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a task",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := open(false)
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if err := t.Remove(cmd.Context(), id); err != nil {
					return operationError("cannot delete task", err)
				}
				return a.output(cmd).Success(map[string]domain.ID{"id": id}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Deleted task %s\n", id)
					return err
				})
			},
		},
		a.uiCommand(func(cmd *cobra.Command) (tui.Adapter, error) {
			t, err := open(true)
			if err != nil {
				return nil, err
			}
			return tui.TaskAdapter(t), nil
		}),
	)
	return cmd
}

func newTaskAddCommand(a *appCommand, open func(bool) (*service.Tasks, error)) *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Long:  "Add an open task. The priority defaults to Medium.",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := domain.TaskFields{Task: joinArgs(args)}
			var err error
			if f.Priority, err = choiceFlag(cmd, "priority", priority, domain.Priorities, ""); err != nil {
				return err
			}

			t, err := open(false)
			if err != nil {
				return err
			}
			task, err := t.Add(cmd.Context(), f)
			if err != nil {
				return operationError("cannot add task", err)
			}
			return a.output(cmd).Success(task, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added task %s: %s (%s)\n", task.ID, task.Task, task.Priority)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: High, Medium or Low")
	return cmd
}

func newTaskEditCommand(a *appCommand, open func(bool) (*service.Tasks, error)) *cobra.Command {
	var text, priority string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's text or priority",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := open(false)
			if err != nil {
				return err
			}
			if err := loadItems(cmd.Context(), "tasks", t.Load); err != nil {
				return err
			}
			current, ok := t.Find(domain.ID(args[0]))
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("task %s not found", args[0]))
			}
			if err := t.BeginEdit(current); err != nil {
				return operationError("cannot edit task", err)
			}

			draft := current.Fields()
			if cmd.Flags().Changed("task") {
				draft.Task = text
			}
			if draft.Priority, err = choiceFlag(cmd, "priority", priority, domain.Priorities, draft.Priority); err != nil {
				return err
			}
			if err := t.SetDraft(draft); err != nil {
				return operationError("cannot edit task", err)
			}

			task, err := t.SaveEdit(cmd.Context())
			if err != nil {
				return operationError("cannot update task", err)
			}
			return a.output(cmd).Success(task, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated task %s\n", task.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&text, "task", "", "new task text")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	return cmd
}
