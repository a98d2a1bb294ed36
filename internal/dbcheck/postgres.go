package dbcheck

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresClient manages the connection to PostgreSQL.
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient connects to PostgreSQL.
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close closes the database connection.
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// ApplyDDL executes a generated storage schema.
func (c *PostgresClient) ApplyDDL(ctx context.Context, ddl string) error {
	if _, err := c.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to apply DDL: %w", err)
	}
	return nil
}

// DropTable removes a table so test runs are repeatable.
func (c *PostgresClient) DropTable(ctx context.Context, table string) error {
	_, err := c.conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table))
	return err
}

// Columns introspects the columns of an applied table.
func (c *PostgresClient) Columns(ctx context.Context, table string) ([]Column, error) {
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := c.conn.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var name, typ, nullable string
		if err := rows.Scan(&name, &typ, &nullable); err != nil {
			return nil, err
		}
		columns = append(columns, Column{
			Name:    name,
			Type:    typ,
			NotNull: nullable == "NO",
		})
	}
	return columns, rows.Err()
}
