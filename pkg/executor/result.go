package executor

import "github.com/relcore/relcore/pkg/types"

// Result is the outcome of executing one statement: either a row set (for
// SELECT or a RETURNING DML statement) or a status tag plus affected-row
// count for plain DDL/DML, matching spec.md §6's two result shapes.
type Result struct {
	Columns      []string
	ColumnTypes  []string
	Rows         [][]types.Value
	RowCount     int
	RowsAffected int64
	LastInsertID int64
	CommandTag   string
}

// NewResult creates an empty result tagged with a command name (e.g.
// "SELECT", "INSERT", "CREATE TABLE").
func NewResult(tag string) *Result {
	return &Result{CommandTag: tag}
}

// AddColumn appends a column name to the result schema.
func (r *Result) AddColumn(name, typeName string) {
	r.Columns = append(r.Columns, name)
	r.ColumnTypes = append(r.ColumnTypes, typeName)
}

// AddRow appends one output row and updates RowCount.
func (r *Result) AddRow(row []types.Value) {
	r.Rows = append(r.Rows, row)
	r.RowCount = len(r.Rows)
}

// SetAffected records a non-SELECT statement's affected-row count.
func (r *Result) SetAffected(n int) {
	r.RowCount = n
	r.RowsAffected = int64(n)
}
