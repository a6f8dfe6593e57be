package catalog

import (
	"sync"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/types"
)

// View is a named, unmaterialized query: SELECT resolves it by re-running
// Query against the current catalog state every time it's referenced.
type View struct {
	Name  string
	Query *ast.SelectStmt
}

// MaterializedView is a named query whose result set is computed once (at
// CREATE time) and again only on REFRESH MATERIALIZED VIEW (spec.md §4.6);
// it behaves like a read-only table between refreshes.
type MaterializedView struct {
	mu sync.RWMutex

	Name    string
	Query   *ast.SelectStmt
	Columns []string
	rows    [][]types.Value
}

// NewMaterializedView snapshots the initial result set computed by the
// caller (the executor, which has the evaluator available to run Query).
func NewMaterializedView(name string, query *ast.SelectStmt, columns []string, rows [][]types.Value) *MaterializedView {
	return &MaterializedView{Name: name, Query: query, Columns: columns, rows: rows}
}

// Rows returns the materialized snapshot.
func (m *MaterializedView) Rows() [][]types.Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]types.Value, len(m.rows))
	copy(out, m.rows)
	return out
}

// Refresh replaces the snapshot with a freshly computed result set.
func (m *MaterializedView) Refresh(columns []string, rows [][]types.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Columns = columns
	m.rows = rows
}
