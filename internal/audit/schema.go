package audit

import (
	"database/sql"
	_ "embed"
	"errors"

	_ "github.com/duckdb/duckdb-go/v2"
)

// schemaDDL holds the DuckDB schema definition.
//
//go:embed schema.sql
var schemaDDL string

// Open opens the audit database at path, creating it when missing.
func Open(path string) (*sql.DB, error) {
	return sql.Open("duckdb", path)
}

// EnsureSchema applies the schema DDL to the provided database connection.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("audit: db is nil")
	}
	_, err := db.Exec(schemaDDL)
	return err
}
