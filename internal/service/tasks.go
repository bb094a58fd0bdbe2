package service

import (
	"context"

	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/repository"
)

// Tasks synchronizes the task tracker.
type Tasks struct {
	*List[domain.Task, domain.TaskFields]
}

func NewTasks(remote repository.Collection[domain.Task], opts ...Option) *Tasks {
	return &Tasks{List: NewList[domain.Task, domain.TaskFields]("tasks", remote, opts...)}
}

// Add creates an open task, defaulting the priority to Medium.
func (t *Tasks) Add(ctx context.Context, f domain.TaskFields) (domain.Task, error) {
	if domain.IsBlank(f.Task) {
		return domain.Task{}, &SyncError{Op: OpCreate, Reason: ReasonValidation, Err: ErrBlankField}
	}
	if f.Priority == "" {
		f.Priority = domain.DefaultPriority
	}
	return t.List.Create(ctx, domain.CreateTaskRequest{Task: f.Task, Priority: f.Priority, Completed: false})
}

// Update sends the task text and priority. Completion is left alone.
func (t *Tasks) Update(ctx context.Context, id domain.ID, f domain.TaskFields) (domain.Task, error) {
	return t.List.Update(ctx, id, updateRequest(f))
}

// Toggle flips completion: the server is sent !current.
func (t *Tasks) Toggle(ctx context.Context, id domain.ID, current bool) (domain.Task, error) {
	next := !current
	return t.List.Patch(ctx, OpToggle, id, domain.UpdateTaskRequest{Completed: &next})
}

func (t *Tasks) BeginEdit(task domain.Task) error {
	return t.List.BeginEdit(task.ID, task.Fields())
}

func (t *Tasks) SaveEdit(ctx context.Context) (domain.Task, error) {
	return t.List.SaveEdit(ctx, func(d domain.TaskFields) any { return updateRequest(d) })
}

func updateRequest(f domain.TaskFields) domain.UpdateTaskRequest {
	return domain.UpdateTaskRequest{Task: &f.Task, Priority: &f.Priority}
}
