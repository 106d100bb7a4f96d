package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS deals (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    payload JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps deals in a PostgreSQL database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

// OpenPostgres connects to the database at dsn and ensures the deals table
// exists.
func OpenPostgres(ctx context.Context, logger *zap.Logger, dsn string) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create deals table: %w", err)
	}

	logger.Info("connected to postgres deal store", zap.String("op", "store.OpenPostgres"))
	return &PostgresStore{pool: pool, logger: logger, now: time.Now}, nil
}

// Save implements DealStore.
func (s *PostgresStore) Save(ctx context.Context, deal SavedDeal) (SavedDeal, error) {
	prepared, err := prepare(deal, s.now().UTC())
	if err != nil {
		return SavedDeal{}, err
	}
	data, err := encodePayload(prepared)
	if err != nil {
		return SavedDeal{}, err
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO deals (id, name, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`,
		prepared.ID, prepared.Name, data, prepared.CreatedAt, prepared.UpdatedAt,
	).Scan(&prepared.CreatedAt)
	if err != nil {
		return SavedDeal{}, fmt.Errorf("failed to save deal %s: %w", prepared.ID, err)
	}
	prepared.CreatedAt = prepared.CreatedAt.UTC()
	return prepared, nil
}

// Get implements DealStore.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (SavedDeal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, payload, created_at, updated_at FROM deals WHERE id = $1`, id)
	deal, err := scanPostgresDeal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedDeal{}, ErrNotFound
	}
	return deal, err
}

// List implements DealStore.
func (s *PostgresStore) List(ctx context.Context) ([]SavedDeal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, payload, created_at, updated_at FROM deals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	deals := []SavedDeal{}
	for rows.Next() {
		deal, err := scanPostgresDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

// Delete implements DealStore.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close implements DealStore.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgresDeal(row pgx.Row) (SavedDeal, error) {
	var (
		deal SavedDeal
		data []byte
	)
	if err := row.Scan(&deal.ID, &deal.Name, &data, &deal.CreatedAt, &deal.UpdatedAt); err != nil {
		return SavedDeal{}, err
	}
	deal.CreatedAt = deal.CreatedAt.UTC()
	deal.UpdatedAt = deal.UpdatedAt.UTC()
	if err := decodePayload(&deal, data); err != nil {
		return SavedDeal{}, err
	}
	return deal, nil
}
