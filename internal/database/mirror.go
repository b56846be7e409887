package database

import (
	"context"
	"fmt"
	"strings"

	"retro-hunt/internal/feed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureFeedTable creates the mirror table when it does not exist. Every sheet
// column is TEXT and position keeps sheet order.
func EnsureFeedTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if table == "" {
		table = feed.DefaultTable
	}

	columns := make([]string, 0, len(feed.Columns)+1)
	columns = append(columns, "position INTEGER PRIMARY KEY")
	for _, column := range feed.Columns {
		columns = append(columns, pgx.Identifier{column}.Sanitize()+" TEXT")
	}

	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(columns, ", "),
	)

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create feed table %s: %w", table, err)
	}

	return nil
}

// ReplaceFeedRows swaps the contents of the mirror table for rows in one
// transaction. Empty values are stored as NULL.
func ReplaceFeedRows(ctx context.Context, pool *pgxpool.Pool, table string, rows []feed.Row) (int64, error) {
	if table == "" {
		table = feed.DefaultTable
	}
	ident := pgx.Identifier{table}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("failed to clear feed table %s: %w", table, err)
	}

	columns := append([]string{"position"}, feed.Columns...)
	copied, err := tx.CopyFrom(ctx, ident, columns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		values := make([]any, 0, len(columns))
		values = append(values, i+1)
		for _, column := range feed.Columns {
			if v := rows[i].Get(column); v != "" {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
		return values, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy feed rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit feed rows: %w", err)
	}

	return copied, nil
}
