package catalog

import (
	"sync"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/types"
)

// Column is a resolved column definition living in a Table.
type Column struct {
	Name     string
	Type     types.ColumnType
	Nullable bool
	Default  ast.Expr // nil if no DEFAULT
	Check    ast.Expr // column-level CHECK, nil if none
}

// ConstraintKind mirrors ast.ConstraintType for table-level constraints kept
// on the Table itself (PRIMARY KEY, UNIQUE, CHECK span zero or more columns).
type ConstraintKind = ast.ConstraintType

// Constraint is a table-level constraint (column-level NOT NULL/DEFAULT live
// on the Column directly).
type Constraint struct {
	Kind    ConstraintKind
	Columns []string
	Check   ast.Expr // for ConstraintCheck
}

// Table is an in-memory relational table: a fixed column list plus a
// position-ordered row store. Rows are stored as plain []types.Value
// slices aligned with Columns, not a map, so column access is O(1) and the
// column order in a row matches the table's declared order (spec.md §3).
type Table struct {
	mu sync.RWMutex

	Name        string
	Columns     []Column
	Constraints []Constraint // table-level PRIMARY KEY / UNIQUE / CHECK

	rows     [][]types.Value
	serial   map[string]int64 // per-SERIAL-column next value
}

// NewTable creates an empty table from resolved columns and constraints.
func NewTable(name string, columns []Column, constraints []Constraint) *Table {
	t := &Table{
		Name:        name,
		Columns:     columns,
		Constraints: constraints,
		serial:      make(map[string]int64),
	}
	for _, c := range columns {
		if c.Type.Name == types.TSerial {
			t.serial[c.Name] = 1
		}
	}
	return t
}

// NewTableWithState reconstructs a table with pre-existing rows and serial
// counters, used by storage.Snapshotter implementations to restore a table
// from a durable snapshot.
func NewTableWithState(name string, columns []Column, constraints []Constraint, rows [][]types.Value, serial map[string]int64) *Table {
	t := NewTable(name, columns, constraints)
	t.rows = rows
	for col, next := range serial {
		t.serial[col] = next
	}
	return t
}

// SerialCounters returns a copy of the table's per-column SERIAL counters.
func (t *Table) SerialCounters() map[string]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]int64, len(t.serial))
	for k, v := range t.serial {
		out[k] = v
	}
	return out
}

// ColumnIndex returns the position of a column by name, or -1. Names match
// exactly; identifiers are case-sensitive at the model level (spec.md §3).
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column definition by name.
func (t *Table) Column(name string) (Column, bool) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return Column{}, false
	}
	return t.Columns[i], true
}

// NextSerial returns and advances a SERIAL column's counter.
func (t *Table) NextSerial(column string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.serial[column]
	if v == 0 {
		v = 1
	}
	t.serial[column] = v + 1
	return v
}

// BumpSerial advances a SERIAL column's counter past an explicitly inserted
// value, so future auto-generated values never collide with it.
func (t *Table) BumpSerial(column string, value int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if value >= t.serial[column] {
		t.serial[column] = value + 1
	}
}

// Rows returns a snapshot slice of the current rows. Callers must not
// mutate the returned row slices in place; use ReplaceRows/AppendRow.
func (t *Table) Rows() [][]types.Value {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([][]types.Value, len(t.rows))
	copy(out, t.rows)
	return out
}

// RowCount reports the current row count.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// AppendRow adds a fully-constructed row (already constraint-checked by the
// executor) to the table.
func (t *Table) AppendRow(row []types.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
}

// ReplaceRows swaps the table's entire row set, used by UPDATE/DELETE after
// the executor computes the new set under all-or-nothing semantics.
func (t *Table) ReplaceRows(rows [][]types.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = rows
}

// AddColumn appends a new column; existing rows are extended with its
// default value (NULL if none), per ALTER TABLE ADD COLUMN semantics.
func (t *Table) AddColumn(col Column, fill types.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Columns = append(t.Columns, col)
	if col.Type.Name == types.TSerial {
		t.serial[col.Name] = 1
	}
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fill)
	}
}

// DropColumn removes a column by name and the corresponding slot from every
// row.
func (t *Table) DropColumn(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := -1
	for i, c := range t.Columns {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.New(errs.Name, "column %q does not exist", name)
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	delete(t.serial, name)
	for i, row := range t.rows {
		t.rows[i] = append(row[:idx], row[idx+1:]...)
	}
	return nil
}

// RenameColumn renames a column in place; row data is unaffected since rows
// are positional.
func (t *Table) RenameColumn(oldName, newName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := -1
	for i, c := range t.Columns {
		if c.Name == oldName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.New(errs.Name, "column %q does not exist", oldName)
	}
	t.Columns[idx].Name = newName
	if v, ok := t.serial[oldName]; ok {
		delete(t.serial, oldName)
		t.serial[newName] = v
	}
	return nil
}

// AddConstraint appends a table-level constraint. Existing rows are not
// checked against it, here or by the executor's ALTER TABLE ADD CONSTRAINT;
// it applies to rows written afterwards.
func (t *Table) AddConstraint(c Constraint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Constraints = append(t.Constraints, c)
}

// DropConstraint removes the first table-level constraint matching kind and
// (for UNIQUE) the given column set.
func (t *Table) DropConstraint(kind ConstraintKind, columns []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, c := range t.Constraints {
		if c.Kind != kind {
			continue
		}
		if kind == ast.ConstraintUnique && !sameColumnSet(c.Columns, columns) {
			continue
		}
		t.Constraints = append(t.Constraints[:i], t.Constraints[i+1:]...)
		return nil
	}
	return errs.New(errs.Name, "no matching constraint to drop")
}

func sameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, c := range a {
		seen[c] = true
	}
	for _, c := range b {
		if !seen[c] {
			return false
		}
	}
	return true
}

// PrimaryKeyColumns returns the column names forming the table's primary
// key, from either a column-level or table-level PRIMARY KEY constraint.
func (t *Table) PrimaryKeyColumns() []string {
	for _, c := range t.Constraints {
		if c.Kind == ast.ConstraintPrimaryKey {
			return c.Columns
		}
	}
	return nil
}

// UniqueColumnSets returns every UNIQUE column group, including the
// implicit single-column sets declared at the column level.
func (t *Table) UniqueColumnSets() [][]string {
	var sets [][]string
	for _, c := range t.Constraints {
		if c.Kind == ast.ConstraintUnique {
			sets = append(sets, c.Columns)
		}
	}
	return sets
}

// FindDuplicate reports whether any row other than excludeIdx (-1 to check
// all rows) already has the given values in the given columns, treating
// every NULL as distinct from every other value (spec.md §3 invariant on
// uniqueness with NULLs).
func (t *Table) FindDuplicate(columns []string, values []types.Value, excludeIdx int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idxs := make([]int, len(columns))
	for i, c := range columns {
		idxs[i] = t.ColumnIndex(c)
	}

	for _, v := range values {
		if v.IsNull() {
			return false
		}
	}

	for ri, row := range t.rows {
		if ri == excludeIdx {
			continue
		}
		match := true
		for i, ci := range idxs {
			rv := row[ci]
			if rv.IsNull() || !rv.Equal(values[i]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
