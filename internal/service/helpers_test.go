package service

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/listsync/internal/database"
	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/repository"
	"github.com/Tomlord1122/listsync/internal/server"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stub is a stub collection server that counts the requests it receives.
type stub struct {
	*httptest.Server
	db       database.Service
	requests atomic.Int64
	fail     atomic.Int32 // when non-zero, every request answers with this status
}

func newStub(t *testing.T) *stub {
	t.Helper()
	s := &stub{db: database.New([]string{"journal", "recipes", "tasks"})}
	handler := server.NewHandler(s.db, quietLogger())
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if code := s.fail.Load(); code != 0 {
			http.Error(w, `{"error":"injected failure"}`, int(code))
			return
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stub) collection(t *testing.T, name string) *database.Collection {
	t.Helper()
	c, ok := s.db.Collection(name)
	require.True(t, ok, name)
	return c
}

func remote[T domain.Record](t *testing.T, s *stub, resource string) repository.Collection[T] {
	t.Helper()
	c, err := repository.NewRESTCollection[T](s.URL+"/"+resource, repository.WithLogger(quietLogger()))
	require.NoError(t, err)
	return c
}

func newTestTasks(t *testing.T, s *stub, opts ...Option) *Tasks {
	t.Helper()
	return NewTasks(remote[domain.Task](t, s, "tasks"), append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func newTestJournal(t *testing.T, s *stub, opts ...Option) *Journal {
	t.Helper()
	return NewJournal(remote[domain.Entry](t, s, "journal"), append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func newTestRecipes(t *testing.T, s *stub, opts ...Option) *Recipes {
	t.Helper()
	return NewRecipes(remote[domain.Recipe](t, s, "recipes"), append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func ids[T domain.Record](items []T) []domain.ID {
	out := make([]domain.ID, 0, len(items))
	for _, it := range items {
		out = append(out, it.RecordID())
	}
	return out
}
