// Command generate_schema flattens the migrations into
// internal/database/sqlc/schema.sql, the schema sqlc generates code from.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"novel-go/internal/database"
	"novel-go/internal/database/migrations"
)

const header = `-- This file is auto-generated from migration files.
-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.
-- Source: internal/database/migrations/files/*.sql

`

func main() {
	db, err := database.OpenConnection(":memory:", 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrating: %v\n", err)
		os.Exit(1)
	}

	schema, err := dumpSchema(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dumping schema: %v\n", err)
		os.Exit(1)
	}

	out := filepath.Join("internal", "database", "sqlc", "schema.sql")
	if err := os.WriteFile(out, []byte(header+schema), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("generated %s\n", out)
}

// dumpSchema returns the CREATE statements for user tables and indexes,
// tables first, each group sorted by name.
func dumpSchema(db *sql.DB) (string, error) {
	rows, err := db.Query(`
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 1 ELSE 2 END, name
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", err
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	return b.String(), rows.Err()
}
