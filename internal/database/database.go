package database

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"sync"
	"sync/atomic"
)

// ErrRecordNotFound is returned when no document has the requested id.
var ErrRecordNotFound = errors.New("record not found")

// Document is a schema-less stored record. The "id" key is owned by the store.
type Document map[string]any

// Service exposes the named in-memory collections backing the stub server.
type Service interface {
	Health() map[string]string
	Close() error
	Collection(name string) (*Collection, bool)
	Names() []string
}

type service struct {
	names       []string
	collections map[string]*Collection
	closed      atomic.Bool
}

// New creates one empty collection per resource name.
func New(resources []string) Service {
	s := &service{collections: make(map[string]*Collection, len(resources))}
	for _, name := range resources {
		if _, ok := s.collections[name]; ok {
			continue
		}
		s.names = append(s.names, name)
		s.collections[name] = &Collection{name: name, docs: make(map[string]Document)}
	}
	return s
}

func (s *service) Collection(name string) (*Collection, bool) {
	c, ok := s.collections[name]
	return c, ok
}

func (s *service) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *service) Health() map[string]string {
	stats := make(map[string]string)
	if s.closed.Load() {
		stats["status"] = "down"
		stats["error"] = "store closed"
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	for _, name := range s.names {
		stats["records_"+name] = strconv.Itoa(s.collections[name].Len())
	}
	return stats
}

// Close marks the store as down. Records are kept in memory until the
// process exits.
func (s *service) Close() error {
	if s.closed.Swap(true) {
		return fmt.Errorf("store already closed")
	}
	slog.Info("closing in-memory store", "collections", len(s.names))
	return nil
}

// Collection is an insertion-ordered set of documents with sequential ids.
type Collection struct {
	name string

	mu     sync.RWMutex
	nextID int
	order  []string
	docs   map[string]Document
}

func (c *Collection) Name() string {
	return c.name
}

// Create stores doc under the next sequential id and returns the stored copy.
// Any id carried by doc is discarded.
func (c *Collection) Create(doc Document) Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := strconv.Itoa(c.nextID)
	stored := maps.Clone(doc)
	if stored == nil {
		stored = Document{}
	}
	stored["id"] = id
	c.docs[id] = stored
	c.order = append(c.order, id)
	return maps.Clone(stored)
}

// FindByID retrieves a copy of the document with the given id.
func (c *Collection) FindByID(id string) (Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, ErrRecordNotFound)
	}
	return maps.Clone(doc), nil
}

// GetAll returns copies of every document in insertion order.
func (c *Collection) GetAll() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, maps.Clone(c.docs[id]))
	}
	return out
}

// Update merges patch into the stored document and returns the result.
// The id cannot be changed.
func (c *Collection) Update(id string, patch Document) (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, ErrRecordNotFound)
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	return maps.Clone(doc), nil
}

// Delete removes the document with the given id.
func (c *Collection) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, ErrRecordNotFound)
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
