package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore keeps deals in a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLite(logger *zap.Logger, path string) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(logger, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

func runMigrations(logger *zap.Logger, db *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migration instance creation failed: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("no new database migrations to apply", zap.String("op", "store.runMigrations"))
	case err != nil:
		return fmt.Errorf("failed to apply migrations: %w", err)
	default:
		logger.Info("database migrations applied", zap.String("op", "store.runMigrations"))
	}
	return nil
}

// Save implements DealStore.
func (s *SQLiteStore) Save(ctx context.Context, deal SavedDeal) (SavedDeal, error) {
	if deal.ID != uuid.Nil && deal.CreatedAt.IsZero() {
		existing, err := s.Get(ctx, deal.ID)
		switch {
		case err == nil:
			deal.CreatedAt = existing.CreatedAt
		case !errors.Is(err, ErrNotFound):
			return SavedDeal{}, err
		}
	}

	prepared, err := prepare(deal, s.now().UTC())
	if err != nil {
		return SavedDeal{}, err
	}
	data, err := encodePayload(prepared)
	if err != nil {
		return SavedDeal{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO deals (id, name, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		prepared.ID.String(), prepared.Name, string(data),
		prepared.CreatedAt.Format(time.RFC3339Nano), prepared.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return SavedDeal{}, fmt.Errorf("failed to save deal %s: %w", prepared.ID, err)
	}
	return prepared, nil
}

// Get implements DealStore.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (SavedDeal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, payload, created_at, updated_at FROM deals WHERE id = ?`, id.String())
	deal, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedDeal{}, ErrNotFound
	}
	return deal, err
}

// List implements DealStore.
func (s *SQLiteStore) List(ctx context.Context) ([]SavedDeal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, payload, created_at, updated_at FROM deals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	deals := []SavedDeal{}
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

// Delete implements DealStore.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM deals WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete deal %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete deal %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close implements DealStore.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeal(row rowScanner) (SavedDeal, error) {
	var (
		id, name, data, created, updated string
		deal                             SavedDeal
	)
	if err := row.Scan(&id, &name, &data, &created, &updated); err != nil {
		return SavedDeal{}, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return SavedDeal{}, fmt.Errorf("invalid deal id %q: %w", id, err)
	}
	deal.ID = parsedID
	deal.Name = name
	if deal.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return SavedDeal{}, fmt.Errorf("invalid created_at for deal %s: %w", id, err)
	}
	if deal.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return SavedDeal{}, fmt.Errorf("invalid updated_at for deal %s: %w", id, err)
	}
	if err := decodePayload(&deal, []byte(data)); err != nil {
		return SavedDeal{}, err
	}
	return deal, nil
}
