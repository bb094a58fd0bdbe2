package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/listsync/internal/database"
	"github.com/Tomlord1122/listsync/internal/domain"
)

func TestTaskLifecycleEndToEnd(t *testing.T) {
	s := newStub(t)
	tasks := newTestTasks(t, s)
	ctx := context.Background()

	require.NoError(t, tasks.Load(ctx))
	assert.Empty(t, tasks.Items())

	_, err := tasks.Add(ctx, domain.TaskFields{Task: "Buy milk", Priority: "Medium"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{{ID: "1", Task: "Buy milk", Priority: "Medium", Completed: false}}, tasks.Items())

	_, err = tasks.Toggle(ctx, "1", false)
	require.NoError(t, err)
	got, ok := tasks.Find("1")
	require.True(t, ok)
	assert.True(t, got.Completed)

	require.NoError(t, tasks.Remove(ctx, "1"))
	assert.Equal(t, []domain.Task{}, tasks.Items())
}

func TestCreateThenLoadYieldsOneMatchingRecord(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "existing", "priority": "Low", "completed": true})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))

	created, err := tasks.Add(ctx, domain.TaskFields{Task: "Walk dog", Priority: "High"})
	require.NoError(t, err)
	require.NoError(t, tasks.Load(ctx))

	var matches []domain.Task
	for _, task := range tasks.Items() {
		if task.ID == created.ID {
			matches = append(matches, task)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, domain.Task{ID: created.ID, Task: "Walk dog", Priority: "High"}, matches[0])
	assert.Len(t, tasks.Items(), 2)
}

func TestBlankCreateMakesNoRequest(t *testing.T) {
	s := newStub(t)
	tasks := newTestTasks(t, s)
	journal := newTestJournal(t, s)
	recipes := newTestRecipes(t, s)
	ctx := context.Background()

	for _, blank := range []string{"", "   ", "\t\n"} {
		_, err := tasks.Add(ctx, domain.TaskFields{Task: blank})
		assert.ErrorIs(t, err, ErrBlankField)
		assert.Equal(t, ReasonValidation, ReasonOf(err))

		_, err = journal.Add(ctx, domain.EntryFields{Entry: blank})
		assert.ErrorIs(t, err, ErrBlankField)

		_, err = recipes.Add(ctx, domain.RecipeFields{Name: blank, Ingredients: "eggs"})
		assert.ErrorIs(t, err, ErrBlankField)
	}

	assert.Zero(t, s.requests.Load())
	assert.Empty(t, tasks.Items())
	assert.NoError(t, tasks.Err())
}

func TestUpdateReplacesOnlyTargetInPlace(t *testing.T) {
	s := newStub(t)
	c := s.collection(t, "tasks")
	for _, name := range []string{"a", "b", "c"} {
		c.Create(database.Document{"task": name, "priority": "Low", "completed": false})
	}
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))
	before := tasks.Items()

	updated, err := tasks.Update(ctx, "2", domain.TaskFields{Task: "b2", Priority: "High"})
	require.NoError(t, err)
	assert.Equal(t, domain.Task{ID: "2", Task: "b2", Priority: "High"}, updated)

	after := tasks.Items()
	assert.Equal(t, []domain.ID{"1", "2", "3"}, ids(after))
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, updated, after[1])
	assert.Equal(t, before[2], after[2])
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newStub(t)
	c := s.collection(t, "tasks")
	c.Create(database.Document{"task": "a"})
	c.Create(database.Document{"task": "b"})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))

	require.NoError(t, tasks.Remove(ctx, "1"))
	assert.Equal(t, []domain.ID{"2"}, ids(tasks.Items()))

	require.NoError(t, tasks.Remove(ctx, "1"))
	assert.Equal(t, []domain.ID{"2"}, ids(tasks.Items()))
	assert.NoError(t, tasks.Err())
}

func TestToggleFlipsBothWays(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "a", "priority": "Low", "completed": true})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))

	got, err := tasks.Toggle(ctx, "1", true)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	got, err = tasks.Toggle(ctx, "1", false)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	local, _ := tasks.Find("1")
	assert.True(t, local.Completed)
}

func TestToggleLeavesEditSessionOpen(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "a", "priority": "Low", "completed": false})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))

	task, _ := tasks.Find("1")
	require.NoError(t, tasks.BeginEdit(task))
	_, err := tasks.Toggle(ctx, "1", false)
	require.NoError(t, err)

	_, editing := tasks.Editing()
	assert.True(t, editing)
}

func TestSingleActiveEditSession(t *testing.T) {
	s := newStub(t)
	c := s.collection(t, "journal")
	c.Create(database.Document{"entry": "A", "mood": "Sad", "date": "2024-01-01"})
	c.Create(database.Document{"entry": "B", "mood": "Calm", "date": "2024-01-02"})
	journal := newTestJournal(t, s)
	ctx := context.Background()
	require.NoError(t, journal.Load(ctx))

	_, editing := journal.Editing()
	assert.False(t, editing)

	a, _ := journal.Find("1")
	b, _ := journal.Find("2")
	require.NoError(t, journal.BeginEdit(a))
	require.NoError(t, journal.SetDraft(domain.EntryFields{Entry: "A edited", Mood: "Happy", Date: "2024-01-01"}))

	require.NoError(t, journal.BeginEdit(b))
	session, editing := journal.Editing()
	require.True(t, editing)
	assert.Equal(t, domain.ID("2"), session.ID)
	assert.Equal(t, b.Fields(), session.Draft)

	saved, err := journal.SaveEdit(ctx)
	require.NoError(t, err)
	assert.Equal(t, b, saved)

	_, editing = journal.Editing()
	assert.False(t, editing)

	stored, err := c.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "A", stored["entry"], "abandoned draft must not be saved")
}

func TestCancelEdit(t *testing.T) {
	s := newStub(t)
	s.collection(t, "recipes").Create(database.Document{"name": "Soup", "category": "Lunch", "ingredients": "water"})
	recipes := newTestRecipes(t, s)
	ctx := context.Background()
	require.NoError(t, recipes.Load(ctx))

	soup, _ := recipes.Find("1")
	require.NoError(t, recipes.BeginEdit(soup))
	recipes.CancelEdit()

	_, editing := recipes.Editing()
	assert.False(t, editing)

	_, err := recipes.SaveEdit(ctx)
	assert.ErrorIs(t, err, ErrNoActiveEdit)
	assert.ErrorIs(t, recipes.SetDraft(domain.RecipeFields{}), ErrNoActiveEdit)
	assert.Equal(t, int64(1), s.requests.Load())
}

func TestBeginEditUnknownRecord(t *testing.T) {
	s := newStub(t)
	tasks := newTestTasks(t, s)

	err := tasks.BeginEdit(domain.Task{ID: "7"})
	assert.ErrorIs(t, err, ErrUnknownRecord)
	_, editing := tasks.Editing()
	assert.False(t, editing)
}

func TestLoadClosesEditSessionForVanishedRecord(t *testing.T) {
	s := newStub(t)
	tasks := newTestTasks(t, s)
	ctx := context.Background()

	task, err := tasks.Add(ctx, domain.TaskFields{Task: "Buy milk"})
	require.NoError(t, err)
	require.NoError(t, tasks.BeginEdit(task))

	require.NoError(t, tasks.Load(ctx))
	_, editing := tasks.Editing()
	assert.True(t, editing, "record still listed")

	require.NoError(t, s.collection(t, "tasks").Delete("1"))
	require.NoError(t, tasks.Load(ctx))

	assert.Empty(t, tasks.Items())
	_, editing = tasks.Editing()
	assert.False(t, editing)
	_, err = tasks.SaveEdit(ctx)
	assert.ErrorIs(t, err, ErrNoActiveEdit)
}

func TestFailedLoadKeepsPreviousState(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "a"})
	var changes atomic.Int32
	tasks := newTestTasks(t, s, WithOnChange(func() { changes.Add(1) }))
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))
	before := tasks.Items()

	s.fail.Store(http.StatusServiceUnavailable)
	err := tasks.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, ReasonStatus, ReasonOf(err))
	assert.Equal(t, before, tasks.Items())
	assert.Equal(t, err, tasks.Err())
	assert.Equal(t, int32(2), changes.Load(), "failures notify the view too")

	s.fail.Store(0)
	require.NoError(t, tasks.Load(ctx))
	assert.NoError(t, tasks.Err())
}

func TestFailedMutationsLeaveCollectionUntouched(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "a", "priority": "Low", "completed": false})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))
	before := tasks.Items()

	s.fail.Store(http.StatusInternalServerError)

	_, err := tasks.Add(ctx, domain.TaskFields{Task: "b"})
	assert.Equal(t, ReasonStatus, ReasonOf(err))
	_, err = tasks.Toggle(ctx, "1", false)
	assert.Equal(t, ReasonStatus, ReasonOf(err))
	err = tasks.Remove(ctx, "1")
	assert.Equal(t, ReasonStatus, ReasonOf(err))

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, OpRemove, syncErr.Op)
	assert.Equal(t, domain.ID("1"), syncErr.ID)
	assert.Contains(t, err.Error(), "remove 1 failed (status)")

	assert.Equal(t, before, tasks.Items())
}

func TestUpdateOfMissingRecordReportsNotFound(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "a"})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))

	require.NoError(t, s.collection(t, "tasks").Delete("1"))
	_, err := tasks.Update(ctx, "1", domain.TaskFields{Task: "x", Priority: "Low"})
	assert.Equal(t, ReasonNotFound, ReasonOf(err))
	assert.Len(t, tasks.Items(), 1)
}

func TestTransportAndCancelReasons(t *testing.T) {
	s := newStub(t)
	tasks := newTestTasks(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tasks.Load(ctx)
	assert.Equal(t, ReasonCanceled, ReasonOf(err))

	s.Close()
	err = tasks.Load(context.Background())
	assert.Equal(t, ReasonTransport, ReasonOf(err))
}

func TestUpdateAfterConcurrentRemoveDoesNotResurrect(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "a", "priority": "Low", "completed": false})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))

	// Local removal while the server still has the record simulates a
	// remove response arriving before an update response.
	tasks.mu.Lock()
	tasks.items = tasks.items[:0]
	tasks.mu.Unlock()

	_, err := tasks.Toggle(ctx, "1", false)
	require.NoError(t, err)
	assert.Empty(t, tasks.Items())
}

func TestConcurrentAddsKeepIDsUnique(t *testing.T) {
	s := newStub(t)
	tasks := newTestTasks(t, s)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tasks.Add(ctx, domain.TaskFields{Task: fmt.Sprintf("task %d", i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items := tasks.Items()
	assert.Len(t, items, n)
	seen := map[domain.ID]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}

	require.NoError(t, tasks.Load(ctx))
	assert.Len(t, tasks.Items(), n)
}

func TestJournalDefaults(t *testing.T) {
	s := newStub(t)
	clock := func() time.Time { return time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("X", -5*3600)) }
	journal := newTestJournal(t, s, WithClock(clock))

	e, err := journal.Add(context.Background(), domain.EntryFields{Entry: "Today I felt fine"})
	require.NoError(t, err)
	assert.Equal(t, domain.Entry{ID: "1", Entry: "Today I felt fine", Mood: "Happy", Date: "2024-03-10"}, e)

	e, err = journal.Add(context.Background(), domain.EntryFields{Entry: "Rainy", Mood: "Sad", Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "Sad", e.Mood)
	assert.Equal(t, "2024-01-01", e.Date)
}

func TestRecipeDefaultsAndUpdate(t *testing.T) {
	s := newStub(t)
	recipes := newTestRecipes(t, s)
	ctx := context.Background()

	r, err := recipes.Add(ctx, domain.RecipeFields{Name: "Pancakes", Ingredients: "flour, eggs"})
	require.NoError(t, err)
	assert.Equal(t, "Dinner", r.Category)

	r, err = recipes.Update(ctx, r.ID, domain.RecipeFields{Name: "Pancakes", Category: "Breakfast", Ingredients: "flour, eggs, milk"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Recipe{r}, recipes.Items())
}

func TestTaskEditSendsTextAndPriorityOnly(t *testing.T) {
	s := newStub(t)
	s.collection(t, "tasks").Create(database.Document{"task": "a", "priority": "Low", "completed": true})
	tasks := newTestTasks(t, s)
	ctx := context.Background()
	require.NoError(t, tasks.Load(ctx))

	task, _ := tasks.Find("1")
	require.NoError(t, tasks.BeginEdit(task))
	require.NoError(t, tasks.SetDraft(domain.TaskFields{Task: "a!", Priority: "High"}))
	saved, err := tasks.SaveEdit(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Task{ID: "1", Task: "a!", Priority: "High", Completed: true}, saved)
}
