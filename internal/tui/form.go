package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	def     Field
	input   textinput.Model
	choices []string
	choice  int
}

func (f formField) isChoice() bool { return len(f.def.Choices) > 0 }

// form is the add or edit form: text inputs plus enum fields.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields []Field) form {
	f := form{fields: make([]formField, len(fields))}
	for i, def := range fields {
		ti := textinput.New()
		ti.Placeholder = def.Placeholder
		ti.CharLimit = 512
		ti.Width = 48
		ti.Cursor.SetMode(cursor.CursorStatic)
		f.fields[i] = formField{def: def, input: ti}
	}
	f.reset()
	return f
}

// reset restores every field to its default and focuses the first one.
func (f *form) reset() {
	for i := range f.fields {
		ff := &f.fields[i]
		ff.input.Reset()
		ff.choices = ff.def.Choices
		ff.choice = max(slices.Index(ff.choices, ff.def.Default), 0)
	}
	f.focusOn(0)
}

// set seeds the form from a record. An enum value outside the known
// choices is kept as an extra choice so saving does not change it.
func (f *form) set(values []string) {
	for i := range f.fields {
		ff := &f.fields[i]
		v := value(values, i)
		if !ff.isChoice() {
			ff.input.SetValue(v)
			ff.input.CursorEnd()
			continue
		}
		ff.choices = ff.def.Choices
		idx := slices.Index(ff.choices, v)
		if idx < 0 && v != "" {
			ff.choices = append(slices.Clone(ff.choices), v)
			idx = len(ff.choices) - 1
		}
		ff.choice = max(idx, 0)
	}
	f.focusOn(0)
}

func (f form) values() []string {
	out := make([]string, len(f.fields))
	for i, ff := range f.fields {
		if ff.isChoice() {
			out[i] = ff.choices[ff.choice]
		} else {
			out[i] = ff.input.Value()
		}
	}
	return out
}

func (f *form) focusOn(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if j == f.focus && !f.fields[j].isChoice() {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

func (f form) last() bool { return f.focus == len(f.fields)-1 }

// update handles keys that belong to the focused field.
func (f form) update(msg tea.KeyMsg) (form, tea.Cmd) {
	ff := &f.fields[f.focus]
	if ff.isChoice() {
		switch msg.String() {
		case "left", "h":
			ff.choice = (ff.choice - 1 + len(ff.choices)) % len(ff.choices)
		case "right", "l", " ":
			ff.choice = (ff.choice + 1) % len(ff.choices)
		}
		return f, nil
	}
	var cmd tea.Cmd
	ff.input, cmd = ff.input.Update(msg)
	return f, cmd
}

func (f form) view() string {
	var b strings.Builder
	for i, ff := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(ff.def.Label))
		if ff.isChoice() {
			b.WriteString(fmt.Sprintf("‹ %s ›", badge(ff.choices[ff.choice])))
		} else {
			b.WriteString(ff.input.View())
		}
		b.WriteString("\n")
	}
	return b.String()
}
