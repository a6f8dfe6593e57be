package catalog

import (
	"testing"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/types"
)

func TestCreateAndGetTable(t *testing.T) {
	db := NewDatabase("test")
	tbl, err := BuildTable(&ast.CreateTableStmt{
		Name: "users",
		Columns: []ast.ColumnDef{
			{Name: "id", Type: ast.DataType{Name: "SERIAL"}, Constraints: []ast.ColumnConstraint{{Type: ast.ConstraintPrimaryKey}}},
			{Name: "name", Type: ast.DataType{Name: "VARCHAR", Length: 32}, Constraints: []ast.ColumnConstraint{{Type: ast.ConstraintNotNull}}},
		},
	})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if err := db.CreateTable(tbl, false); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	got, ok := db.GetTable("users")
	if !ok || got.Name != "users" {
		t.Fatalf("GetTable failed: %+v, %v", got, ok)
	}
	if got.Columns[1].Nullable {
		t.Fatal("name column should be NOT NULL")
	}
	if pk := got.PrimaryKeyColumns(); len(pk) != 1 || pk[0] != "id" {
		t.Fatalf("unexpected primary key: %+v", pk)
	}
}

func TestCreateTableDuplicateRejected(t *testing.T) {
	db := NewDatabase("test")
	tbl, _ := BuildTable(&ast.CreateTableStmt{Name: "t", Columns: []ast.ColumnDef{{Name: "a", Type: ast.DataType{Name: "INT"}}}})
	if err := db.CreateTable(tbl, false); err != nil {
		t.Fatal(err)
	}
	dup, _ := BuildTable(&ast.CreateTableStmt{Name: "t", Columns: []ast.ColumnDef{{Name: "a", Type: ast.DataType{Name: "INT"}}}})
	if err := db.CreateTable(dup, false); err == nil {
		t.Fatal("expected error creating duplicate table")
	}
	if err := db.CreateTable(dup, true); err != nil {
		t.Fatalf("IF NOT EXISTS should suppress error: %v", err)
	}
}

func TestAddColumnExtendsExistingRows(t *testing.T) {
	tbl := NewTable("t", []Column{{Name: "a", Type: types.ColumnType{Name: types.TInt}}}, nil)
	tbl.AppendRow([]types.Value{types.Int(1)})
	tbl.AddColumn(Column{Name: "b", Type: types.ColumnType{Name: types.TInt}, Nullable: true}, types.Null)
	rows := tbl.Rows()
	if len(rows[0]) != 2 || !rows[0][1].IsNull() {
		t.Fatalf("expected new column to be NULL-filled: %+v", rows[0])
	}
}

func TestDropColumnShrinksRows(t *testing.T) {
	tbl := NewTable("t", []Column{
		{Name: "a", Type: types.ColumnType{Name: types.TInt}},
		{Name: "b", Type: types.ColumnType{Name: types.TInt}},
	}, nil)
	tbl.AppendRow([]types.Value{types.Int(1), types.Int(2)})
	if err := tbl.DropColumn("a"); err != nil {
		t.Fatalf("DropColumn: %v", err)
	}
	rows := tbl.Rows()
	if len(rows[0]) != 1 || rows[0][0].AsInt() != 2 {
		t.Fatalf("unexpected row after drop: %+v", rows[0])
	}
}

func TestFindDuplicateTreatsNullAsDistinct(t *testing.T) {
	tbl := NewTable("t", []Column{{Name: "email", Type: types.ColumnType{Name: types.TVarchar}}}, nil)
	tbl.AppendRow([]types.Value{types.Null})
	tbl.AppendRow([]types.Value{types.Null})
	if tbl.FindDuplicate([]string{"email"}, []types.Value{types.Null}, -1) {
		t.Fatal("NULL must never be reported as a duplicate")
	}
	tbl.AppendRow([]types.Value{types.Str("a@b.com")})
	if !tbl.FindDuplicate([]string{"email"}, []types.Value{types.Str("a@b.com")}, -1) {
		t.Fatal("expected duplicate to be detected")
	}
}

// Column names are case-sensitive at the model level: lookup, drop, and
// rename must match exactly, never fold case.
func TestColumnLookupIsCaseSensitive(t *testing.T) {
	tbl := NewTable("t", []Column{
		{Name: "Name", Type: types.ColumnType{Name: types.TVarchar}},
	}, nil)
	if tbl.ColumnIndex("name") != -1 {
		t.Fatal("ColumnIndex must not match a differently-cased name")
	}
	if tbl.ColumnIndex("Name") != 0 {
		t.Fatal("ColumnIndex must match the exact name")
	}
	if err := tbl.DropColumn("name"); err == nil {
		t.Fatal("DropColumn must not match a differently-cased name")
	}
	if err := tbl.RenameColumn("name", "n"); err == nil {
		t.Fatal("RenameColumn must not match a differently-cased name")
	}
	if err := tbl.RenameColumn("Name", "n"); err != nil {
		t.Fatalf("RenameColumn with the exact name: %v", err)
	}
}

func TestSerialCounterAdvancesAndBumps(t *testing.T) {
	tbl := NewTable("t", []Column{{Name: "id", Type: types.ColumnType{Name: types.TSerial}}}, nil)
	if v := tbl.NextSerial("id"); v != 1 {
		t.Fatalf("expected first serial 1, got %d", v)
	}
	tbl.BumpSerial("id", 100)
	if v := tbl.NextSerial("id"); v != 101 {
		t.Fatalf("expected 101 after bump, got %d", v)
	}
}

func TestCatalogDefaultDatabase(t *testing.T) {
	c := New()
	if !c.DatabaseExists(DefaultDatabaseName) {
		t.Fatal("expected default database to exist")
	}
	if err := c.DropDatabase(DefaultDatabaseName, false); err == nil {
		t.Fatal("expected error dropping default database")
	}
}

func TestCatalogCreateUseDropDatabase(t *testing.T) {
	c := New()
	if err := c.CreateDatabase("shop", false); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	if _, err := c.GetDatabase("shop"); err != nil {
		t.Fatalf("GetDatabase: %v", err)
	}
	if err := c.DropDatabase("shop", false); err != nil {
		t.Fatalf("DropDatabase: %v", err)
	}
	if c.DatabaseExists("shop") {
		t.Fatal("expected shop to be gone")
	}
}
