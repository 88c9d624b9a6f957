// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.pool.Begin(ctx)
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// ReadSnapshot runs fn in a read-only repeatable-read transaction, so every
// statement inside sees the same snapshot of the data.
func (db *DB) ReadSnapshot(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.withTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

// WithTx runs fn in a read-write transaction, committing when fn succeeds.
func (db *DB) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.withTx(ctx, pgx.TxOptions{}, fn)
}

func (db *DB) withTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	tx, err := db.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into the application's sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", xerrors.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
