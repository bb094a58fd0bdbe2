package domain

// DateLayout is the calendar-date format journal entries are stored with.
const DateLayout = "2006-01-02"

// Moods lists the journal moods in display order.
var Moods = []string{"Happy", "Sad", "Anxious", "Excited", "Calm"}

// DefaultMood is preselected for new entries.
const DefaultMood = "Happy"

// Entry is one journal entry.
type Entry struct {
	ID    ID     `json:"id"`
	Entry string `json:"entry"`
	Mood  string `json:"mood"`
	Date  string `json:"date"`
}

func (e Entry) RecordID() ID { return e.ID }

// Fields copies the editable fields of e, for seeding an edit draft.
func (e Entry) Fields() EntryFields {
	return EntryFields{Entry: e.Entry, Mood: e.Mood, Date: e.Date}
}

// EntryFields is both the create/update body and the edit draft of an Entry.
type EntryFields struct {
	Entry string `json:"entry"`
	Mood  string `json:"mood"`
	Date  string `json:"date"`
}
