// Package storage provides the session-level handle that ties a running
// statement to a current database, plus the snapshot/clock ports the
// executor uses for anything that touches the outside world (spec.md §4.3,
// §4.7).
package storage

import (
	"sync"

	"github.com/relcore/relcore/pkg/catalog"
	"github.com/relcore/relcore/pkg/errs"
)

// Session tracks the database a connection is currently USE-ing, on top of
// a shared Catalog. Grounded on the teacher's DatabaseManager, minus the
// auto-create-on-access behavior (spec.md requires an explicit CREATE
// DATABASE before USE) and minus the debug logging on every lookup.
type Session struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog
	current string
}

// NewSession opens a session against cat, starting on the default database.
func NewSession(cat *catalog.Catalog) *Session {
	return &Session{catalog: cat, current: catalog.DefaultDatabaseName}
}

// Catalog returns the shared catalog this session operates against.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// CurrentDatabaseName returns the name of the database USE last switched to.
func (s *Session) CurrentDatabaseName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentDatabase resolves and returns the current database.
func (s *Session) CurrentDatabase() (*catalog.Database, error) {
	return s.catalog.GetDatabase(s.CurrentDatabaseName())
}

// Use switches the session's current database, failing if it doesn't exist.
func (s *Session) Use(name string) error {
	if !s.catalog.DatabaseExists(name) {
		return errs.New(errs.Name, "database %q does not exist", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = name
	return nil
}
