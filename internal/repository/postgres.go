package repository

import (
	"context"
	"errors"
	"fmt"

	"addressjp-api/internal/masterdata"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// undefinedTable is the PostgreSQL error code for a missing relation.
const undefinedTable = "42P01"

// Repository reads division tables from PostgreSQL. Each data source key names a table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Load returns every row of the table named key, ordered by id.
func (r *Repository) Load(ctx context.Context, key string) ([]masterdata.Record, error) {
	sql := fmt.Sprintf("SELECT * FROM %s ORDER BY id", pgx.Identifier{key}.Sanitize())

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query %s: %w", key, classify(err))
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan %s: %w", key, classify(err))
	}

	records := make([]masterdata.Record, len(maps))
	for i, m := range maps {
		records[i] = masterdata.Record(m)
	}
	return records, nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%w: %s", masterdata.ErrNotFound, pgErr.Message)
	}
	return err
}
