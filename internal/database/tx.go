package database

import (
	"context"

	"github.com/uptrace/bun"
)

type txKey struct{}

// WithTx runs fn inside a transaction carried by the context. Nested calls
// join the outer transaction.
func WithTx(ctx context.Context, db *bun.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction bound to ctx, or db when there is none.
// Repositories must resolve their handle through Conn: with a single pooled
// sqlite connection, querying db directly inside a transaction would block.
func Conn(ctx context.Context, db *bun.DB) bun.IDB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

func txFromContext(ctx context.Context) *bun.Tx {
	tx, ok := ctx.Value(txKey{}).(bun.Tx)
	if !ok {
		return nil
	}
	return &tx
}

// Transactor exposes WithTx to services that only know about contexts.
type Transactor struct {
	DB *bun.DB
}

func (t Transactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, t.DB, fn)
}
