package service

import (
	"context"
	"time"

	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/repository"
)

// Journal synchronizes journal entries.
type Journal struct {
	*List[domain.Entry, domain.EntryFields]
	now func() time.Time
}

func NewJournal(remote repository.Collection[domain.Entry], opts ...Option) *Journal {
	o := buildOptions(opts)
	return &Journal{
		List: NewList[domain.Entry, domain.EntryFields]("journal", remote, opts...),
		now:  o.now,
	}
}

// Add creates an entry. The mood defaults to Happy and the date to today
// (UTC). A blank entry text is rejected before any request is made.
func (j *Journal) Add(ctx context.Context, f domain.EntryFields) (domain.Entry, error) {
	if domain.IsBlank(f.Entry) {
		return domain.Entry{}, &SyncError{Op: OpCreate, Reason: ReasonValidation, Err: ErrBlankField}
	}
	if f.Mood == "" {
		f.Mood = domain.DefaultMood
	}
	if f.Date == "" {
		f.Date = j.now().UTC().Format(domain.DateLayout)
	}
	return j.List.Create(ctx, f)
}

// Update sends all editable fields of the entry with the given id.
func (j *Journal) Update(ctx context.Context, id domain.ID, f domain.EntryFields) (domain.Entry, error) {
	return j.List.Update(ctx, id, f)
}

// BeginEdit opens an edit session seeded from e.
func (j *Journal) BeginEdit(e domain.Entry) error {
	return j.List.BeginEdit(e.ID, e.Fields())
}

// SaveEdit sends the open draft.
func (j *Journal) SaveEdit(ctx context.Context) (domain.Entry, error) {
	return j.List.SaveEdit(ctx, func(d domain.EntryFields) any { return d })
}
