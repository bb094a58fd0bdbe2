package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tomlord1122/listsync/internal/domain"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

type op string

const (
	opLoad   op = "load"
	opAdd    op = "add"
	opSave   op = "save"
	opRemove op = "remove"
	opToggle op = "toggle"
)

// resultMsg reports a finished network operation on id ("" for load and
// add).
type resultMsg struct {
	op  op
	id  domain.ID
	err error
}

// Model is the list view of one app.
type Model struct {
	ctx      context.Context
	adapter  Adapter
	rows     []Row
	cursor   int
	mode     mode
	add      form
	edit     form
	editID   domain.ID
	deleteID domain.ID
	pending  int
	status   string
	err      error
}

// NewModel creates the view over a. Network calls use ctx.
func NewModel(ctx context.Context, a Adapter) Model {
	return Model{
		ctx:     ctx,
		adapter: a,
		add:     newForm(a.Fields()),
		edit:    newForm(a.Fields()),
		status:  "Loading…",
	}
}

// Run shows the view until the user quits or ctx is done.
func Run(ctx context.Context, a Adapter) error {
	program := tea.NewProgram(NewModel(ctx, a), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.run(opLoad, "", m.adapter.Load)
}

// run performs fn off the update loop and reports back with a resultMsg.
func (m Model) run(o op, id domain.ID, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{op: o, id: id, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return m.handleResult(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateFormMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	}
	return m, nil
}

func (m Model) handleResult(msg resultMsg) Model {
	if m.pending > 0 {
		m.pending--
	}
	prompt := m.status
	m.rows = m.adapter.Rows()
	m.cursor = clampCursor(m.cursor, len(m.rows))

	if msg.err != nil {
		m.err = msg.err
		m.status = ""
		return m
	}
	m.err = nil

	switch msg.op {
	case opLoad:
		m.status = fmt.Sprintf("Loaded %d", len(m.rows))
	case opAdd:
		m.add.reset()
		if m.mode == modeAdd {
			m.mode = modeList
		}
		m.cursor = clampCursor(len(m.rows)-1, len(m.rows))
		m.status = "Added"
	case opSave:
		// A newer edit may have been opened while this save was in flight.
		if m.mode == modeEdit && m.editID == msg.id {
			m.mode = modeList
		}
		m.status = "Saved"
	case opRemove:
		m.status = "Deleted"
	case opToggle:
		m.status = "Updated"
	}
	if m.mode == modeConfirmDelete {
		m.status = prompt
	}
	return m
}

func (m Model) start(o op, id domain.ID, status string, fn func(ctx context.Context) error) (Model, tea.Cmd) {
	m.pending++
	m.status = status
	return m, m.run(o, id, fn)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case "a":
		m.mode = modeAdd
		m.add.focusOn(0)
		m.status = "Enter moves to the next field and saves on the last one."
	case "r":
		return m.start(opLoad, "", "Loading…", m.adapter.Load)
	}

	if len(m.rows) == 0 {
		return m, nil
	}
	row := m.rows[m.cursor]

	switch key {
	case "e", "enter":
		values, err := m.adapter.BeginEdit(row.ID)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.edit.set(values)
		m.editID = row.ID
		m.mode = modeEdit
		m.err = nil
		m.status = "Editing. Ctrl+S saves, Esc cancels."
	case " ", "t":
		if !row.Checkable {
			return m, nil
		}
		return m.start(opToggle, row.ID, "Saving…", func(ctx context.Context) error {
			return m.adapter.Toggle(ctx, row.ID)
		})
	case "d", "x":
		m.mode = modeConfirmDelete
		m.deleteID = row.ID
		m.status = fmt.Sprintf("Delete %q? y/n", row.Text)
	}
	return m, nil
}

// updateDeleteConfirm removes the row that was named in the prompt, even if
// the list changed underneath it.
func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	id := m.deleteID
	m.mode = modeList
	m.deleteID = ""
	if key != "y" {
		m.status = "Cancelled"
		return m, nil
	}
	return m.start(opRemove, id, "Deleting…", func(ctx context.Context) error {
		return m.adapter.Remove(ctx, id)
	})
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.add
	if m.mode == modeEdit {
		f = &m.edit
	}

	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			m.adapter.CancelEdit()
		}
		m.mode = modeList
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		f.focusOn(f.focus + 1)
		return m, nil
	case "shift+tab", "up":
		f.focusOn(f.focus - 1)
		return m, nil
	case "enter":
		if !f.last() {
			f.focusOn(f.focus + 1)
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	}

	var cmd tea.Cmd
	*f, cmd = f.update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.mode == modeEdit {
		id, values := m.editID, m.edit.values()
		return m.start(opSave, id, "Saving…", func(ctx context.Context) error {
			return m.adapter.SaveEdit(ctx, id, values)
		})
	}
	values := m.add.values()
	return m.start(opAdd, "", "Saving…", func(ctx context.Context) error {
		return m.adapter.Add(ctx, values)
	})
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", m.adapter.Title(), len(m.rows))))
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())

	switch m.mode {
	case modeAdd:
		b.WriteString("\n" + titleStyle.Render("Add") + "\n")
		b.WriteString(m.add.view())
	case modeEdit:
		b.WriteString("\n" + titleStyle.Render("Edit "+string(m.editID)) + "\n")
		b.WriteString(m.edit.view())
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else {
		status := m.status
		if m.pending > 0 && status == "" {
			status = "Working…"
		}
		b.WriteString(statusStyle.Render(status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRows() string {
	if len(m.rows) == 0 {
		return detailStyle.Render("Nothing here yet. Press a to add.") + "\n"
	}
	var b strings.Builder
	for i, row := range m.rows {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(marker)
		text := row.Text
		if row.Checkable {
			b.WriteString(checkbox(row.Done) + " ")
			if row.Done {
				text = doneStyle.Render(text)
			}
		}
		b.WriteString(text)
		if row.Badge != "" {
			b.WriteString(" " + badge(row.Badge))
		}
		if row.Detail != "" {
			b.WriteString(" " + detailStyle.Render(row.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) help() string {
	switch m.mode {
	case modeAdd, modeEdit:
		return "tab/↑/↓ field • ←/→ choose • enter next/save • ctrl+s save • esc cancel"
	case modeConfirmDelete:
		return "y delete • any other key cancels"
	}
	h := "↑/↓ move • a add • e edit • d delete • r reload • q quit"
	if len(m.rows) > 0 && m.rows[0].Checkable {
		h = "↑/↓ move • space toggle • a add • e edit • d delete • r reload • q quit"
	}
	return h
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
