package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DefaultTable is the mirror table of the listing sheet.
const DefaultTable = "feed_items"

// postgresSource implements Source over a table that mirrors the listing sheet.
// Every column is TEXT and NULL stands for an empty cell; the position column
// keeps sheet order.
type postgresSource struct {
	pool   *pgxpool.Pool
	table  string
	logger zerolog.Logger
}

// NewPostgresSource creates a new PostgreSQL-backed source.
func NewPostgresSource(pool *pgxpool.Pool, table string, logger zerolog.Logger) Source {
	if table == "" {
		table = DefaultTable
	}

	return &postgresSource{
		pool:   pool,
		table:  table,
		logger: logger.With().Str("component", "postgres-source").Logger(),
	}
}

func (s *postgresSource) Name() string {
	return "postgres"
}

// Rows reads the mirror table in sheet order.
func (s *postgresSource) Rows(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY position",
		strings.Join(Columns, ", "),
		pgx.Identifier{s.table}.Sanitize(),
	)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("table", s.table).Msg("failed to query feed rows")
		return nil, fmt.Errorf("failed to query feed rows: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		values := make([]*string, len(Columns))
		targets := make([]any, len(Columns))
		for i := range values {
			targets[i] = &values[i]
		}

		if err := rows.Scan(targets...); err != nil {
			s.logger.Error().Err(err).Msg("failed to scan feed row")
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}

		row := make(Row, len(Columns))
		for i, value := range values {
			if value != nil && *value != "" {
				row[Columns[i]] = *value
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating feed rows")
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	s.logger.Debug().Str("table", s.table).Int("rows", len(result)).Msg("feed rows loaded")

	return result, nil
}
