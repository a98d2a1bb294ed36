// Package dbcheck applies generated storage schemas to live database
// engines and reads the resulting column sets back, so integration
// tests can verify the storage generator's output against real
// dialects.
package dbcheck

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Column is one introspected column of an applied schema.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// SQLiteClient manages a SQLite connection, typically in-memory.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens a SQLite database at path; use ":memory:" for
// a throwaway instance.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// ApplyDDL executes a generated storage schema.
func (c *SQLiteClient) ApplyDDL(ctx context.Context, ddl string) error {
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to apply DDL: %w", err)
	}
	return nil
}

// Columns introspects the columns of an applied table.
func (c *SQLiteClient) Columns(ctx context.Context, table string) ([]Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", table)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, Column{
			Name:       name,
			Type:       typ,
			NotNull:    notNull == 1,
			PrimaryKey: pk > 0,
		})
	}
	return columns, rows.Err()
}
