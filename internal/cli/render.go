package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Tomlord1122/listsync/internal/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// oneLine keeps multi-line text from breaking table rows.
func oneLine(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", " "), "\n", " ")
}

func renderEntries(w io.Writer, entries []domain.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No journal entries yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tMOOD\tENTRY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Mood, oneLine(e.Entry))
	}
	return tw.Flush()
}

func renderRecipes(w io.Writer, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		_, err := fmt.Fprintln(w, "No recipes yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCATEGORY\tNAME\tINGREDIENTS")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Category, oneLine(r.Name), oneLine(r.Ingredients))
	}
	return tw.Flush()
}

func renderTasks(w io.Writer, tasks []domain.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tTASK")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, checkbox(t.Completed), t.Priority, oneLine(t.Task))
	}
	return tw.Flush()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
