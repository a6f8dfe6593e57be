package catalog

import (
	"sync"

	"github.com/relcore/relcore/pkg/errs"
)

// Catalog is the top-level registry of databases a session can CREATE,
// DROP, and USE (spec.md §4.6). A fresh Catalog starts with a single
// "default" database so statements work before any CREATE DATABASE/USE.
type Catalog struct {
	mu        sync.RWMutex
	databases map[string]*Database
}

// DefaultDatabaseName is the database a new Catalog and a new session start
// in, so CREATE TABLE works without an explicit CREATE DATABASE/USE first.
const DefaultDatabaseName = "default"

// New creates a Catalog pre-populated with the default database.
func New() *Catalog {
	c := &Catalog{databases: make(map[string]*Database)}
	c.databases[DefaultDatabaseName] = NewDatabase(DefaultDatabaseName)
	return c
}

// CreateDatabase registers a new, empty database.
func (c *Catalog) CreateDatabase(name string, ifNotExists bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.databases[name]; exists {
		if ifNotExists {
			return nil
		}
		return errs.New(errs.Name, "database %q already exists", name)
	}
	c.databases[name] = NewDatabase(name)
	return nil
}

// DropDatabase removes a database and everything in it.
func (c *Catalog) DropDatabase(name string, ifExists bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == DefaultDatabaseName {
		return errs.New(errs.State, "cannot drop the default database")
	}
	if _, exists := c.databases[name]; !exists {
		if ifExists {
			return nil
		}
		return errs.New(errs.Name, "database %q does not exist", name)
	}
	delete(c.databases, name)
	return nil
}

// GetDatabase fetches a database by name.
func (c *Catalog) GetDatabase(name string) (*Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.databases[name]
	if !ok {
		return nil, errs.New(errs.Name, "database %q does not exist", name)
	}
	return db, nil
}

// PutDatabase unconditionally installs db under its own name, overwriting
// any existing database of that name. Used by storage.Snapshotter-backed
// restore, where the snapshot itself -- not a CREATE DATABASE statement --
// is the source of truth for what's in the catalog.
func (c *Catalog) PutDatabase(db *Database) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.databases[db.Name] = db
}

// DatabaseExists reports whether a database of this name is registered.
func (c *Catalog) DatabaseExists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.databases[name]
	return ok
}

// ListDatabases returns every database name, in no particular order.
func (c *Catalog) ListDatabases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.databases))
	for n := range c.databases {
		names = append(names, n)
	}
	return names
}
