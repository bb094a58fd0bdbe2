package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/service"
)

// Field describes one input of the add and edit forms. A field with
// Choices is an enum cycled with the arrow keys.
type Field struct {
	Label       string
	Placeholder string
	Choices     []string
	Default     string
}

// Row is one rendered list line.
type Row struct {
	ID        domain.ID
	Text      string
	Badge     string
	Detail    string
	Checkable bool
	Done      bool
}

// Adapter binds the view to one app's synchronizer. Form values are passed
// in Fields order.
type Adapter interface {
	Title() string
	Fields() []Field
	Rows() []Row
	Load(ctx context.Context) error
	Add(ctx context.Context, values []string) error
	BeginEdit(id domain.ID) ([]string, error)
	// SaveEdit sends values for id, closing the edit session if it is
	// still on id.
	SaveEdit(ctx context.Context, id domain.ID, values []string) error
	CancelEdit()
	Remove(ctx context.Context, id domain.ID) error
	Toggle(ctx context.Context, id domain.ID) error
}

func unknownRecord(id domain.ID) error {
	return &service.SyncError{Op: service.OpEdit, ID: id, Reason: service.ReasonValidation, Err: service.ErrUnknownRecord}
}

func value(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

type journalAdapter struct{ j *service.Journal }

// JournalAdapter shows journal entries.
func JournalAdapter(j *service.Journal) Adapter { return journalAdapter{j: j} }

func (a journalAdapter) Title() string { return "Journal" }

func (a journalAdapter) Fields() []Field {
	return []Field{
		{Label: "Entry", Placeholder: "How was your day?"},
		{Label: "Mood", Choices: domain.Moods, Default: domain.DefaultMood},
		{Label: "Date", Placeholder: "YYYY-MM-DD, empty for today"},
	}
}

func (a journalAdapter) Rows() []Row {
	entries := a.j.Items()
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{ID: e.ID, Text: e.Entry, Badge: e.Mood, Detail: e.Date}
	}
	return rows
}

func (a journalAdapter) Load(ctx context.Context) error { return a.j.Load(ctx) }

func (a journalAdapter) fields(values []string) domain.EntryFields {
	return domain.EntryFields{Entry: value(values, 0), Mood: value(values, 1), Date: value(values, 2)}
}

func (a journalAdapter) Add(ctx context.Context, values []string) error {
	_, err := a.j.Add(ctx, a.fields(values))
	return err
}

func (a journalAdapter) BeginEdit(id domain.ID) ([]string, error) {
	e, ok := a.j.Find(id)
	if !ok {
		return nil, unknownRecord(id)
	}
	if err := a.j.BeginEdit(e); err != nil {
		return nil, err
	}
	return []string{e.Entry, e.Mood, e.Date}, nil
}

func (a journalAdapter) SaveEdit(ctx context.Context, id domain.ID, values []string) error {
	_, err := a.j.Update(ctx, id, a.fields(values))
	return err
}

func (a journalAdapter) CancelEdit() { a.j.CancelEdit() }

func (a journalAdapter) Remove(ctx context.Context, id domain.ID) error { return a.j.Remove(ctx, id) }

func (a journalAdapter) Toggle(context.Context, domain.ID) error {
	return fmt.Errorf("journal entries: %w", errors.ErrUnsupported)
}

type recipeAdapter struct{ r *service.Recipes }

// RecipeAdapter shows the recipe box.
func RecipeAdapter(r *service.Recipes) Adapter { return recipeAdapter{r: r} }

func (a recipeAdapter) Title() string { return "Recipes" }

func (a recipeAdapter) Fields() []Field {
	return []Field{
		{Label: "Name", Placeholder: "Recipe name"},
		{Label: "Category", Choices: domain.Categories, Default: domain.DefaultCategory},
		{Label: "Ingredients", Placeholder: "flour, eggs, milk"},
	}
}

func (a recipeAdapter) Rows() []Row {
	recipes := a.r.Items()
	rows := make([]Row, len(recipes))
	for i, r := range recipes {
		rows[i] = Row{ID: r.ID, Text: r.Name, Badge: r.Category, Detail: r.Ingredients}
	}
	return rows
}

func (a recipeAdapter) Load(ctx context.Context) error { return a.r.Load(ctx) }

func (a recipeAdapter) fields(values []string) domain.RecipeFields {
	return domain.RecipeFields{Name: value(values, 0), Category: value(values, 1), Ingredients: value(values, 2)}
}

func (a recipeAdapter) Add(ctx context.Context, values []string) error {
	_, err := a.r.Add(ctx, a.fields(values))
	return err
}

func (a recipeAdapter) BeginEdit(id domain.ID) ([]string, error) {
	r, ok := a.r.Find(id)
	if !ok {
		return nil, unknownRecord(id)
	}
	if err := a.r.BeginEdit(r); err != nil {
		return nil, err
	}
	return []string{r.Name, r.Category, r.Ingredients}, nil
}

func (a recipeAdapter) SaveEdit(ctx context.Context, id domain.ID, values []string) error {
	_, err := a.r.Update(ctx, id, a.fields(values))
	return err
}

func (a recipeAdapter) CancelEdit() { a.r.CancelEdit() }

func (a recipeAdapter) Remove(ctx context.Context, id domain.ID) error { return a.r.Remove(ctx, id) }

func (a recipeAdapter) Toggle(context.Context, domain.ID) error {
	return fmt.Errorf("recipes: %w", errors.ErrUnsupported)
}

type taskAdapter struct{ t *service.Tasks }

// TaskAdapter shows the task list. Tasks are the only checkable rows.
func TaskAdapter(t *service.Tasks) Adapter { return taskAdapter{t: t} }

func (a taskAdapter) Title() string { return "Tasks" }

func (a taskAdapter) Fields() []Field {
	return []Field{
		{Label: "Task", Placeholder: "What needs doing?"},
		{Label: "Priority", Choices: domain.Priorities, Default: domain.DefaultPriority},
	}
}

func (a taskAdapter) Rows() []Row {
	tasks := a.t.Items()
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{ID: t.ID, Text: t.Task, Badge: t.Priority, Checkable: true, Done: t.Completed}
	}
	return rows
}

func (a taskAdapter) Load(ctx context.Context) error { return a.t.Load(ctx) }

func (a taskAdapter) fields(values []string) domain.TaskFields {
	return domain.TaskFields{Task: value(values, 0), Priority: value(values, 1)}
}

func (a taskAdapter) Add(ctx context.Context, values []string) error {
	_, err := a.t.Add(ctx, a.fields(values))
	return err
}

func (a taskAdapter) BeginEdit(id domain.ID) ([]string, error) {
	t, ok := a.t.Find(id)
	if !ok {
		return nil, unknownRecord(id)
	}
	if err := a.t.BeginEdit(t); err != nil {
		return nil, err
	}
	return []string{t.Task, t.Priority}, nil
}

func (a taskAdapter) SaveEdit(ctx context.Context, id domain.ID, values []string) error {
	_, err := a.t.Update(ctx, id, a.fields(values))
	return err
}

func (a taskAdapter) CancelEdit() { a.t.CancelEdit() }

func (a taskAdapter) Remove(ctx context.Context, id domain.ID) error { return a.t.Remove(ctx, id) }

// Toggle flips the completion the task had when the key was pressed.
func (a taskAdapter) Toggle(ctx context.Context, id domain.ID) error {
	t, ok := a.t.Find(id)
	if !ok {
		return unknownRecord(id)
	}
	_, err := a.t.Toggle(ctx, id, t.Completed)
	return err
}
