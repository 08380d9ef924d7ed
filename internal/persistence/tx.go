package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// WithinTx runs fn inside a single transaction carried on the context.
// Repositories pick the transaction up via TxFrom, so every write issued by
// fn commits or rolls back as one unit. Without a pool (tests, degraded
// boot) fn runs directly.
func (p *Postgres) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if p == nil || p.Pool == nil {
		return fn(ctx)
	}
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// TxFrom extracts the transaction placed on the context by WithinTx.
func TxFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}
