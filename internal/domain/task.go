package domain

// Priorities lists task priorities from most to least urgent.
var Priorities = []string{"High", "Medium", "Low"}

// DefaultPriority is preselected for new tasks.
const DefaultPriority = "Medium"

type Task struct {
	ID        ID     `json:"id"`
	Task      string `json:"task"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

func (t Task) RecordID() ID { return t.ID }

// Fields copies the editable fields of t. Completion is not part of the
// edit form; it is flipped separately.
func (t Task) Fields() TaskFields {
	return TaskFields{Task: t.Task, Priority: t.Priority}
}

// TaskFields is the edit draft of a Task.
type TaskFields struct {
	Task     string `json:"task"`
	Priority string `json:"priority"`
}

// CreateTaskRequest is the body sent when creating a task.
type CreateTaskRequest struct {
	Task      string `json:"task"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

// UpdateTaskRequest holds the fields of a task update.
// Pointers distinguish an omitted field from one set to its zero value,
// e.g. Completed=false.
type UpdateTaskRequest struct {
	Task      *string `json:"task,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}
