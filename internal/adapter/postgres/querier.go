package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx. Repos
// run all statements through it so the same code works inside and outside
// a transaction. SendBatch is included for the goal repo, which applies
// featured-slot updates as one batch inside the enclosing transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txCtxKey struct{}

// withTx puts a transaction into the context. Only TxManager calls this;
// repos pick the transaction up through QuerierFromCtx.
func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// QuerierFromCtx returns the ambient transaction when the call runs under
// TxManager.RunInTx, and the plain pool otherwise. This is what makes the
// ownership-transfer and featured-slot flows transactional without their
// repos knowing about transaction management.
func QuerierFromCtx(ctx context.Context, pool *pgxpool.Pool) Querier {
	tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	if !ok {
		return pool
	}
	return tx
}
