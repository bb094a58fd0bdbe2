package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/repository"
)

// EditSession is the single record currently being edited and its unsaved
// field values.
type EditSession[D any] struct {
	ID    domain.ID
	Draft D
}

type options struct {
	logger   *slog.Logger
	onChange func()
	now      func() time.Time
}

// Option configures a list.
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOnChange registers fn to run after every change to local state,
// including recorded failures. fn runs without the list lock held.
func WithOnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

// WithClock overrides the time source used for derived defaults.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default(), onChange: func() {}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// List keeps an ordered local copy of a remote collection in step with it.
// Every mutation goes to the server first; the local copy is patched with
// the server's response only after it succeeds, so there is nothing to roll
// back on failure.
//
// List is safe for concurrent use. Network calls run without the lock, so
// overlapping mutations are applied in the order their responses arrive.
type List[T domain.Record, D any] struct {
	name   string
	remote repository.Collection[T]
	opts   options

	mu      sync.Mutex
	items   []T
	editing *EditSession[D]
	lastErr error
}

// NewList creates an empty list over remote. name labels log lines.
func NewList[T domain.Record, D any](name string, remote repository.Collection[T], opts ...Option) *List[T, D] {
	return &List[T, D]{
		name:   name,
		remote: remote,
		opts:   buildOptions(opts),
		items:  []T{},
	}
}

// Load replaces the local collection with the server's. On failure the
// previous contents are kept. An edit session for a record the server no
// longer has is closed.
func (l *List[T, D]) Load(ctx context.Context) error {
	records, err := l.remote.List(ctx)
	if err != nil {
		return l.fail(OpLoad, "", err)
	}

	l.mu.Lock()
	l.items = records
	if l.editing != nil && l.indexOf(l.editing.ID) < 0 {
		l.opts.logger.Debug("closing edit session for record no longer listed", "list", l.name, "id", l.editing.ID)
		l.editing = nil
	}
	l.lastErr = nil
	l.mu.Unlock()

	l.opts.logger.Debug("collection loaded", "list", l.name, "count", len(records))
	l.opts.onChange()
	return nil
}

// Create posts body and appends the server's record. A record whose id is
// already present (a Load raced the create) replaces it instead.
func (l *List[T, D]) Create(ctx context.Context, body any) (T, error) {
	record, err := l.remote.Create(ctx, body)
	if err != nil {
		var zero T
		return zero, l.fail(OpCreate, "", err)
	}

	l.mu.Lock()
	if i := l.indexOf(record.RecordID()); i >= 0 {
		l.items[i] = record
	} else {
		l.items = append(l.items, record)
	}
	l.lastErr = nil
	l.mu.Unlock()

	l.opts.onChange()
	return record, nil
}

// Update puts body to id and replaces the local record with the server's.
// An edit session for id is closed.
func (l *List[T, D]) Update(ctx context.Context, id domain.ID, body any) (T, error) {
	return l.replace(ctx, OpUpdate, id, body, true)
}

// Patch is Update without touching the edit session, for single-field
// changes made outside the edit form.
func (l *List[T, D]) Patch(ctx context.Context, op Op, id domain.ID, body any) (T, error) {
	return l.replace(ctx, op, id, body, false)
}

func (l *List[T, D]) replace(ctx context.Context, op Op, id domain.ID, body any, closeEdit bool) (T, error) {
	record, err := l.remote.Update(ctx, id, body)
	if err != nil {
		var zero T
		return zero, l.fail(op, id, err)
	}

	l.mu.Lock()
	if i := l.indexOf(id); i >= 0 {
		l.items[i] = record
	} else {
		l.opts.logger.Debug("dropping update for record no longer listed", "list", l.name, "id", id)
	}
	if closeEdit && l.editing != nil && l.editing.ID == id {
		l.editing = nil
	}
	l.lastErr = nil
	l.mu.Unlock()

	l.opts.onChange()
	return record, nil
}

// Remove deletes id on the server and drops it locally. A server 404 counts
// as success: the record is gone either way.
func (l *List[T, D]) Remove(ctx context.Context, id domain.ID) error {
	if err := l.remote.Delete(ctx, id); err != nil && classify(err) != ReasonNotFound {
		return l.fail(OpRemove, id, err)
	}

	l.mu.Lock()
	l.items = slices.DeleteFunc(l.items, func(r T) bool { return r.RecordID() == id })
	if l.editing != nil && l.editing.ID == id {
		l.editing = nil
	}
	l.lastErr = nil
	l.mu.Unlock()

	l.opts.onChange()
	return nil
}

// BeginEdit opens an edit session for id seeded with draft. Any other open
// session is abandoned without saving.
func (l *List[T, D]) BeginEdit(id domain.ID, draft D) error {
	l.mu.Lock()
	if l.indexOf(id) < 0 {
		l.mu.Unlock()
		return &SyncError{Op: OpEdit, ID: id, Reason: ReasonValidation, Err: ErrUnknownRecord}
	}
	l.editing = &EditSession[D]{ID: id, Draft: draft}
	l.mu.Unlock()

	l.opts.onChange()
	return nil
}

// SetDraft replaces the draft of the open edit session.
func (l *List[T, D]) SetDraft(draft D) error {
	l.mu.Lock()
	if l.editing == nil {
		l.mu.Unlock()
		return &SyncError{Op: OpEdit, Reason: ReasonValidation, Err: ErrNoActiveEdit}
	}
	l.editing.Draft = draft
	l.mu.Unlock()

	l.opts.onChange()
	return nil
}

// CancelEdit discards the open edit session, if any.
func (l *List[T, D]) CancelEdit() {
	l.mu.Lock()
	had := l.editing != nil
	l.editing = nil
	l.mu.Unlock()

	if had {
		l.opts.onChange()
	}
}

// Editing returns the open edit session.
func (l *List[T, D]) Editing() (EditSession[D], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.editing == nil {
		return EditSession[D]{}, false
	}
	return *l.editing, true
}

// SaveEdit sends the open session's draft, converted by toBody, as an update.
func (l *List[T, D]) SaveEdit(ctx context.Context, toBody func(D) any) (T, error) {
	session, ok := l.Editing()
	if !ok {
		var zero T
		return zero, &SyncError{Op: OpUpdate, Reason: ReasonValidation, Err: ErrNoActiveEdit}
	}
	return l.Update(ctx, session.ID, toBody(session.Draft))
}

// Items returns a copy of the local collection.
func (l *List[T, D]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Find returns the local record with the given id.
func (l *List[T, D]) Find(id domain.ID) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

func (l *List[T, D]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Err returns the failure of the most recent network operation, or nil if
// it succeeded.
func (l *List[T, D]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// indexOf must be called with l.mu held.
func (l *List[T, D]) indexOf(id domain.ID) int {
	return slices.IndexFunc(l.items, func(r T) bool { return r.RecordID() == id })
}

func (l *List[T, D]) fail(op Op, id domain.ID, err error) error {
	syncErr := &SyncError{Op: op, ID: id, Reason: classify(err), Err: err}

	l.mu.Lock()
	l.lastErr = syncErr
	l.mu.Unlock()

	l.opts.logger.Warn("sync failed", "list", l.name, "op", op, "id", id, "reason", syncErr.Reason, "err", err)
	l.opts.onChange()
	return syncErr
}
