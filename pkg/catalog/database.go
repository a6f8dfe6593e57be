// Package catalog holds the in-memory schema and data store: databases,
// tables, views, and materialized views, keyed by name and guarded by
// per-object locks. It has no knowledge of SQL syntax or evaluation — those
// live in pkg/parser and pkg/evaluator respectively — only of the shapes
// spec.md §3 defines (tables as fixed-column row sets, views as named
// queries).
package catalog

import (
	"sync"

	"github.com/relcore/relcore/pkg/errs"
)

// Database is a named collection of tables, views, and materialized views.
// Grounded on the teacher's SchemaManager cache map, minus all KV-pool/
// remote-client plumbing: this catalog has no persistence layer of its own,
// only the storage.Snapshotter port built on top of it (spec.md §4.3).
type Database struct {
	mu sync.RWMutex

	Name    string
	tables  map[string]*Table
	views   map[string]*View
	mviews  map[string]*MaterializedView
}

// NewDatabase creates an empty, named database.
func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		tables: make(map[string]*Table),
		views:  make(map[string]*View),
		mviews: make(map[string]*MaterializedView),
	}
}

// CreateTable registers a new table. ifNotExists suppresses the Name error
// when a table of the same name already exists.
func (d *Database) CreateTable(t *Table, ifNotExists bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.tables[t.Name]; exists {
		if ifNotExists {
			return nil
		}
		return errs.New(errs.Name, "table %q already exists", t.Name)
	}
	if d.views[t.Name] != nil || d.mviews[t.Name] != nil {
		return errs.New(errs.Name, "name %q is already in use by a view", t.Name)
	}
	d.tables[t.Name] = t
	return nil
}

// DropTable removes a table by name.
func (d *Database) DropTable(name string, ifExists bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.tables[name]; !exists {
		if ifExists {
			return nil
		}
		return errs.New(errs.Name, "table %q does not exist", name)
	}
	delete(d.tables, name)
	return nil
}

// GetTable fetches a table by exact name.
func (d *Database) GetTable(name string) (*Table, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[name]
	return t, ok
}

// TableExists reports whether a table of this name is registered.
func (d *Database) TableExists(name string) bool {
	_, ok := d.GetTable(name)
	return ok
}

// ListTables returns every table name, in no particular order.
func (d *Database) ListTables() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.tables))
	for n := range d.tables {
		names = append(names, n)
	}
	return names
}

// RenameTable moves a table's registration to a new name.
func (d *Database) RenameTable(oldName, newName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tables[oldName]
	if !ok {
		return errs.New(errs.Name, "table %q does not exist", oldName)
	}
	if _, exists := d.tables[newName]; exists {
		return errs.New(errs.Name, "table %q already exists", newName)
	}
	delete(d.tables, oldName)
	t.Name = newName
	d.tables[newName] = t
	return nil
}

// CreateView registers a non-materialized view.
func (d *Database) CreateView(v *View, ifNotExists bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.views[v.Name]; exists {
		if ifNotExists {
			return nil
		}
		return errs.New(errs.Name, "view %q already exists", v.Name)
	}
	if d.tables[v.Name] != nil || d.mviews[v.Name] != nil {
		return errs.New(errs.Name, "name %q is already in use", v.Name)
	}
	d.views[v.Name] = v
	return nil
}

// GetView fetches a non-materialized view by name.
func (d *Database) GetView(name string) (*View, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.views[name]
	return v, ok
}

// DropView removes a non-materialized view.
func (d *Database) DropView(name string, ifExists bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.views[name]; !exists {
		if ifExists {
			return nil
		}
		return errs.New(errs.Name, "view %q does not exist", name)
	}
	delete(d.views, name)
	return nil
}

// CreateMaterializedView registers a materialized view with its initial
// snapshot already computed by the caller.
func (d *Database) CreateMaterializedView(mv *MaterializedView, ifNotExists bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.mviews[mv.Name]; exists {
		if ifNotExists {
			return nil
		}
		return errs.New(errs.Name, "materialized view %q already exists", mv.Name)
	}
	if d.tables[mv.Name] != nil || d.views[mv.Name] != nil {
		return errs.New(errs.Name, "name %q is already in use", mv.Name)
	}
	d.mviews[mv.Name] = mv
	return nil
}

// GetMaterializedView fetches a materialized view by name.
func (d *Database) GetMaterializedView(name string) (*MaterializedView, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	mv, ok := d.mviews[name]
	return mv, ok
}

// DropMaterializedView removes a materialized view.
func (d *Database) DropMaterializedView(name string, ifExists bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.mviews[name]; !exists {
		if ifExists {
			return nil
		}
		return errs.New(errs.Name, "materialized view %q does not exist", name)
	}
	delete(d.mviews, name)
	return nil
}

// Relation resolves any of table/view/materialized-view/unqualified-source
// by name, reporting which kind it found. Used by the FROM-clause resolver,
// since spec.md §4.2 allows a single named source of any of these kinds.
func (d *Database) Relation(name string) (table *Table, view *View, mview *MaterializedView, found bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.tables[name]; ok {
		return t, nil, nil, true
	}
	if v, ok := d.views[name]; ok {
		return nil, v, nil, true
	}
	if mv, ok := d.mviews[name]; ok {
		return nil, nil, mv, true
	}
	return nil, nil, nil, false
}

// PutTable unconditionally installs t, overwriting any existing table of
// the same name. Used by storage.Snapshotter implementations to restore a
// database; ordinary CREATE TABLE goes through CreateTable instead, which
// enforces the name-collision rules DDL requires.
func (d *Database) PutTable(t *Table) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables[t.Name] = t
}

// PutView unconditionally installs v, for snapshot restore.
func (d *Database) PutView(v *View) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.views[v.Name] = v
}

// PutMaterializedView unconditionally installs mv, for snapshot restore.
func (d *Database) PutMaterializedView(mv *MaterializedView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mviews[mv.Name] = mv
}

// AllTables returns every table, for snapshot serialization.
func (d *Database) AllTables() map[string]*Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]*Table, len(d.tables))
	for k, v := range d.tables {
		out[k] = v
	}
	return out
}

// AllViews returns every view, for snapshot serialization.
func (d *Database) AllViews() map[string]*View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]*View, len(d.views))
	for k, v := range d.views {
		out[k] = v
	}
	return out
}

// AllMaterializedViews returns every materialized view, for snapshot
// serialization.
func (d *Database) AllMaterializedViews() map[string]*MaterializedView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]*MaterializedView, len(d.mviews))
	for k, v := range d.mviews {
		out[k] = v
	}
	return out
}
