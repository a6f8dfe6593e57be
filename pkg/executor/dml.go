package executor

import (
	"time"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/catalog"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/evaluator"
	"github.com/relcore/relcore/pkg/types"
)

func (ex *Executor) clockNow() time.Time {
	if ex.clock == nil {
		return time.Now()
	}
	return ex.clock.Now()
}

// defaultValueForColumn computes the fill value used for a newly added
// column (ALTER TABLE ADD COLUMN) or an omitted INSERT column: the
// column's DEFAULT expression evaluated with no row context, or NULL. A
// SERIAL column also gets NULL here: execInsert assigns the counter value
// itself, and ALTER TABLE ADD COLUMN leaves existing rows NULL in it.
func defaultValueForColumn(col catalog.Column, now time.Time) (types.Value, error) {
	if col.Type.Name == types.TSerial {
		return types.Null, nil // execInsert assigns the real serial value
	}
	if col.Default != nil {
		env := evaluator.NewEnv(nil, nil, "")
		env.Now = now
		v, err := evaluator.Eval(col.Default, env)
		if err != nil {
			return types.Value{}, err
		}
		return evaluator.Cast(v, col.Type)
	}
	return types.Null, nil
}

// execInsert evaluates every VALUES row, applies DEFAULT/SERIAL filling and
// per-column CAST, checks constraints in NOT NULL -> CHECK -> UNIQUE ->
// PRIMARY KEY order, resolves ON CONFLICT against already-committed rows
// only, and commits rows plus SERIAL counters atomically at the very end
// so a failed statement leaves the table untouched (spec.md §4.5).
func (ex *Executor) execInsert(s *ast.InsertStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	t, ok := db.GetTable(s.Table)
	if !ok {
		return nil, errs.New(errs.Name, "table %q does not exist", s.Table)
	}

	targetCols := s.Columns
	if len(targetCols) == 0 {
		targetCols = make([]string, len(t.Columns))
		for i, c := range t.Columns {
			targetCols[i] = c.Name
		}
	}

	localSerial := make(map[string]int64, len(t.SerialCounters()))
	for col, next := range t.SerialCounters() {
		localSerial[col] = next
	}

	now := ex.clockNow()
	existingRows := t.Rows()
	baseRowCount := len(existingRows)
	builtRows := make([][]types.Value, 0, len(s.Values))
	result := NewResult("INSERT")

	for _, valueExprs := range s.Values {
		row := make([]types.Value, len(t.Columns))
		for i := range row {
			row[i] = types.Null
		}
		assigned := make([]bool, len(t.Columns))

		for ci, colName := range targetCols {
			idx := t.ColumnIndex(colName)
			if idx < 0 {
				return nil, errs.New(errs.Name, "column %q does not exist on table %q", colName, s.Table)
			}
			col := t.Columns[idx]
			var expr ast.Expr
			if ci < len(valueExprs) {
				expr = valueExprs[ci]
			}
			if expr == nil {
				if col.Type.Name == types.TSerial {
					row[idx] = types.Serial(localSerial[col.Name])
					localSerial[col.Name]++
				} else {
					v, err := defaultValueForColumn(col, now)
					if err != nil {
						return nil, err
					}
					row[idx] = v
				}
				assigned[idx] = true
				continue
			}
			env := evaluator.NewEnv(nil, nil, "")
			env.Now = now
			env.Runner = ex
			v, err := evaluator.Eval(expr, env)
			if err != nil {
				return nil, err
			}
			v, err = evaluator.Cast(v, col.Type)
			if err != nil {
				return nil, err
			}
			row[idx] = v
			assigned[idx] = true
			// An explicitly supplied SERIAL value still advances the counter
			// past itself, so later auto-generated values never collide.
			if col.Type.Name == types.TSerial && !v.IsNull() && v.AsInt() >= localSerial[col.Name] {
				localSerial[col.Name] = v.AsInt() + 1
			}
		}

		for idx, col := range t.Columns {
			if assigned[idx] {
				continue
			}
			if col.Type.Name == types.TSerial {
				row[idx] = types.Serial(localSerial[col.Name])
				localSerial[col.Name]++
				continue
			}
			v, err := defaultValueForColumn(col, now)
			if err != nil {
				return nil, err
			}
			row[idx] = v
		}

		// ON CONFLICT only ever targets a row already committed before this
		// statement began; duplicates between two rows of the same VALUES
		// batch fall through to the plain UNIQUE/PRIMARY KEY check below.
		conflictCols, conflictIdx := findConflictTarget(t, row, existingRows[:baseRowCount], s.OnConflict)
		if conflictCols != nil {
			if s.OnConflict.DoNothing {
				continue
			}
			updated := append([]types.Value(nil), existingRows[conflictIdx]...)
			oldEnv := evaluator.NewEnv(columnNames(t), existingRows[conflictIdx], s.Table)
			oldEnv.Now = now
			for _, assign := range s.OnConflict.DoUpdate {
				idx := t.ColumnIndex(assign.Column)
				if idx < 0 {
					return nil, errs.New(errs.Name, "column %q does not exist on table %q", assign.Column, s.Table)
				}
				v, err := evaluator.Eval(assign.Value, oldEnv)
				if err != nil {
					return nil, err
				}
				v, err = evaluator.Cast(v, t.Columns[idx].Type)
				if err != nil {
					return nil, err
				}
				updated[idx] = v
			}
			if err := checkRowConstraints(t, updated, conflictIdx, existingRows); err != nil {
				return nil, err
			}
			existingRows[conflictIdx] = updated
			if s.Returning {
				result.AddRow(updated)
			}
			continue
		}

		if err := checkRowConstraints(t, row, -1, existingRows); err != nil {
			return nil, err
		}

		builtRows = append(builtRows, row)
		existingRows = append(existingRows, row)
		if s.Returning {
			result.AddRow(row)
		}
	}

	t.ReplaceRows(existingRows)
	for col, next := range localSerial {
		t.BumpSerial(col, next-1)
	}

	if s.Returning {
		for _, c := range t.Columns {
			result.AddColumn(c.Name, c.Type.Name.String())
		}
	}
	result.SetAffected(len(builtRows))
	return result, nil
}

func columnNames(t *catalog.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// findConflictTarget reports whether row duplicates an already-committed
// row on the ON CONFLICT column set (or the table's primary key / unique
// sets if none was named), returning the index of the conflicting row in
// existingRows. Duplicates arising purely within the same INSERT's VALUES
// batch are not conflict targets — checkRowConstraints raises a plain
// constraint error for those instead.
func findConflictTarget(t *catalog.Table, row []types.Value, existingRows [][]types.Value, oc *ast.OnConflictClause) ([]string, int) {
	if oc == nil {
		return nil, -1
	}
	targets := [][]string{oc.Columns}
	if len(oc.Columns) == 0 {
		targets = t.UniqueColumnSets()
		if pk := t.PrimaryKeyColumns(); len(pk) > 0 {
			targets = append(targets, pk)
		}
	}
	for _, cols := range targets {
		if len(cols) == 0 {
			continue
		}
		values := make([]types.Value, len(cols))
		hasNull := false
		for i, c := range cols {
			values[i] = row[t.ColumnIndex(c)]
			if values[i].IsNull() {
				hasNull = true
			}
		}
		if hasNull {
			continue
		}
		for i, existing := range existingRows {
			match := true
			for j, c := range cols {
				if !existing[t.ColumnIndex(c)].Equal(values[j]) {
					match = false
					break
				}
			}
			if match {
				return cols, i
			}
		}
	}
	return nil, -1
}

// checkRowConstraints validates row in NOT NULL, CHECK, UNIQUE, PRIMARY KEY
// order (spec.md §4.5). excludeIdx is the row's own index in existingRows
// when re-validating an UPDATE/ON-CONFLICT-DO-UPDATE target, or -1 for a
// freshly inserted row.
func checkRowConstraints(t *catalog.Table, row []types.Value, excludeIdx int, existingRows [][]types.Value) error {
	for _, col := range t.Columns {
		if !col.Nullable && row[t.ColumnIndex(col.Name)].IsNull() {
			return errs.ConstraintErr("NOT NULL", "column %q cannot be NULL", col.Name)
		}
	}

	env := evaluator.NewEnv(columnNames(t), row, t.Name)
	for _, col := range t.Columns {
		if col.Check == nil {
			continue
		}
		ok, err := checkAdmitsRow(col.Check, env)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ConstraintErr("CHECK", "CHECK constraint violated on column %q", col.Name)
		}
	}
	for _, c := range t.Constraints {
		if c.Kind != ast.ConstraintCheck {
			continue
		}
		ok, err := checkAdmitsRow(c.Check, env)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ConstraintErr("CHECK", "CHECK constraint violated")
		}
	}

	for _, cols := range t.UniqueColumnSets() {
		values := make([]types.Value, len(cols))
		for i, c := range cols {
			values[i] = row[t.ColumnIndex(c)]
		}
		if rowDuplicatesExisting(t, cols, values, existingRows, excludeIdx) {
			return errs.ConstraintErr("UNIQUE", "duplicate value violates unique constraint on %v", cols)
		}
	}
	if pk := t.PrimaryKeyColumns(); len(pk) > 0 {
		values := make([]types.Value, len(pk))
		for i, c := range pk {
			values[i] = row[t.ColumnIndex(c)]
		}
		if rowDuplicatesExisting(t, pk, values, existingRows, excludeIdx) {
			return errs.ConstraintErr("PRIMARY KEY", "duplicate value violates primary key on %v", pk)
		}
	}
	return nil
}

// checkAdmitsRow evaluates a CHECK expression under the CHECK-specific
// collapse rule: TRUE and NULL admit the row, only FALSE rejects it — unlike
// WHERE/HAVING, where NULL discards (spec.md §4.4).
func checkAdmitsRow(check ast.Expr, env *evaluator.Env) (bool, error) {
	v, err := evaluator.Eval(check, env)
	if err != nil {
		return false, err
	}
	return evaluator.FromValue(v) != evaluator.False, nil
}

// rowDuplicatesExisting reports whether values already appears in cols
// among existingRows (other than excludeIdx). Any NULL among values makes
// a row unique against everything, including another all-NULL row (spec.md
// §3's "NULLs are distinct" uniqueness invariant); this mirrors
// catalog.Table.FindDuplicate's rule, duplicated here because execInsert
// must also check against rows staged in the same statement that aren't
// committed to the table yet.
func rowDuplicatesExisting(t *catalog.Table, cols []string, values []types.Value, existingRows [][]types.Value, excludeIdx int) bool {
	for _, v := range values {
		if v.IsNull() {
			return false
		}
	}
	for i, existing := range existingRows {
		if i == excludeIdx {
			continue
		}
		match := true
		for j, c := range cols {
			if !existing[t.ColumnIndex(c)].Equal(values[j]) {
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

// execUpdate evaluates every SET assignment against the row as it stood
// before any assignment in the statement (a pre-update snapshot, not
// left-to-right mutation), then validates the resulting row before
// committing — any violation aborts the whole UPDATE with zero effect.
func (ex *Executor) execUpdate(s *ast.UpdateStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	t, ok := db.GetTable(s.Table)
	if !ok {
		return nil, errs.New(errs.Name, "table %q does not exist", s.Table)
	}

	now := ex.clockNow()
	rows := t.Rows()
	newRows := make([][]types.Value, len(rows))
	changed := make([]bool, len(rows))

	for i, row := range rows {
		env := evaluator.NewEnv(columnNames(t), row, s.Table)
		env.Now = now
		env.Runner = ex
		if s.Where != nil {
			match, err := evaluator.EvalPredicate(s.Where, env)
			if err != nil {
				return nil, err
			}
			if !match {
				newRows[i] = row
				continue
			}
		}
		updated := append([]types.Value(nil), row...)
		for _, assign := range s.Set {
			idx := t.ColumnIndex(assign.Column)
			if idx < 0 {
				return nil, errs.New(errs.Name, "column %q does not exist on table %q", assign.Column, s.Table)
			}
			v, err := evaluator.Eval(assign.Value, env)
			if err != nil {
				return nil, err
			}
			v, err = evaluator.Cast(v, t.Columns[idx].Type)
			if err != nil {
				return nil, err
			}
			updated[idx] = v
		}
		newRows[i] = updated
		changed[i] = true
	}

	for i, row := range newRows {
		if !changed[i] {
			continue
		}
		if err := checkRowConstraints(t, row, i, newRows); err != nil {
			return nil, err
		}
	}

	result := NewResult("UPDATE")
	affected := 0
	for i, row := range newRows {
		if changed[i] {
			affected++
			if s.Returning {
				result.AddRow(row)
			}
		}
	}
	t.ReplaceRows(newRows)
	if s.Returning {
		for _, c := range t.Columns {
			result.AddColumn(c.Name, c.Type.Name.String())
		}
	}
	result.SetAffected(affected)
	return result, nil
}

// execDelete removes every row matching WHERE (or all rows if WHERE is
// omitted), returning deleted rows when RETURNING is present.
func (ex *Executor) execDelete(s *ast.DeleteStmt) (*Result, error) {
	db, err := ex.session.CurrentDatabase()
	if err != nil {
		return nil, err
	}
	t, ok := db.GetTable(s.Table)
	if !ok {
		return nil, errs.New(errs.Name, "table %q does not exist", s.Table)
	}

	now := ex.clockNow()
	rows := t.Rows()
	kept := make([][]types.Value, 0, len(rows))
	result := NewResult("DELETE")
	deleted := 0

	for _, row := range rows {
		if s.Where != nil {
			env := evaluator.NewEnv(columnNames(t), row, s.Table)
			env.Now = now
			env.Runner = ex
			match, err := evaluator.EvalPredicate(s.Where, env)
			if err != nil {
				return nil, err
			}
			if !match {
				kept = append(kept, row)
				continue
			}
		}
		deleted++
		if s.Returning {
			result.AddRow(row)
		}
	}

	t.ReplaceRows(kept)
	if s.Returning {
		for _, c := range t.Columns {
			result.AddColumn(c.Name, c.Type.Name.String())
		}
	}
	result.SetAffected(deleted)
	return result, nil
}
