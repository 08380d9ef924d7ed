package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/persistence"
)

// Querier is the subset of pgxpool.Pool and pgx.Tx the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querierFor returns the context-carried transaction when one is open so
// writes issued inside persistence.WithinTx commit as a unit.
func querierFor(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := persistence.TxFrom(ctx); ok {
		return tx
	}
	return pool
}
