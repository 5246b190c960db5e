package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ColumnSpec declares one expected column and its SQLite definition.
type ColumnSpec struct {
	Name string
	Def  string
}

// TableSpec declares one expected table. Columns list every column the
// current code reads or writes; columns present in the file but absent here
// are tolerated.
type TableSpec struct {
	Name    string
	Columns []ColumnSpec
	Indexes []string
}

// Evolver brings a store's structure up to what the current code expects
// without destroying data. It runs once per store at open time, never at
// query sites.
type Evolver struct {
	tables []TableSpec
}

// NewEvolver constructs an Evolver for the declared schema.
func NewEvolver(tables []TableSpec) *Evolver {
	return &Evolver{tables: tables}
}

// Apply creates missing tables, adds missing columns to existing tables and
// creates declared indexes. Existing data and unknown columns are left
// untouched.
func (e *Evolver) Apply(ctx context.Context, db *DB) error {
	for _, table := range e.tables {
		exists, err := tableExists(ctx, db.sql, table.Name)
		if err != nil {
			return err
		}

		if !exists {
			if err := createTable(ctx, db.sql, table); err != nil {
				return err
			}
		} else if err := addMissingColumns(ctx, db.sql, table); err != nil {
			return err
		}

		for _, idx := range table.Indexes {
			if _, err := db.sql.ExecContext(ctx, idx); err != nil {
				return fmt.Errorf("create index on %s: %w", table.Name, err)
			}
		}
	}

	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspect table %s: %w", name, err)
	}
	return true, nil
}

func createTable(ctx context.Context, db *sql.DB, table TableSpec) error {
	stmt := "CREATE TABLE " + table.Name + " ("
	for i, col := range table.Columns {
		if i > 0 {
			stmt += ", "
		}
		stmt += col.Name + " " + col.Def
	}
	stmt += ")"

	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table.Name, err)
	}
	return nil
}

func addMissingColumns(ctx context.Context, db *sql.DB, table TableSpec) error {
	existing, err := tableColumns(ctx, db, table.Name)
	if err != nil {
		return err
	}

	for _, col := range table.Columns {
		if _, ok := existing[col.Name]; ok {
			continue
		}
		// ADD COLUMN cannot carry PRIMARY KEY or UNIQUE constraints; evolved
		// columns are declared without them.
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table.Name, col.Name, col.Def)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table.Name, col.Name, err)
		}
	}

	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, name string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", name))
	if err != nil {
		return nil, fmt.Errorf("inspect columns of %s: %w", name, err)
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var (
			cid       int
			colName   string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan column info of %s: %w", name, err)
		}
		cols[colName] = struct{}{}
	}

	return cols, rows.Err()
}
