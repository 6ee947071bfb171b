package watchlist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by PGStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGStore keeps the watchlist in PostgreSQL.
type PGStore struct {
	db DB
}

// NewPGStore creates a PGStore. The watchlist table must exist; see
// database.Migrate.
func NewPGStore(db DB) *PGStore {
	return &PGStore{db: db}
}

// List returns symbols in alphabetical order.
func (s *PGStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT symbol FROM watchlist ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	symbols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan watchlist: %w", err)
	}
	return symbols, nil
}

// Add inserts symbol. Adding an existing symbol is a no-op.
func (s *PGStore) Add(ctx context.Context, symbol string) error {
	sym, err := Normalize(symbol)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO watchlist (symbol)
		VALUES ($1)
		ON CONFLICT (symbol) DO NOTHING
	`, sym)
	if err != nil {
		return fmt.Errorf("add %s: %w", sym, err)
	}
	return nil
}

// Remove deletes symbol.
func (s *PGStore) Remove(ctx context.Context, symbol string) error {
	sym, err := Normalize(symbol)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM watchlist WHERE symbol = $1`, sym)
	if err != nil {
		return fmt.Errorf("remove %s: %w", sym, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
