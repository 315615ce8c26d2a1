package ports

import "context"

// Tx is the transaction handle carried in a context. Its concrete type belongs to the
// persistence adapter (*gorm.DB for SQLite).
type Tx interface{}

// UnitOfWork runs fn in one transaction: an error rolls back, nil commits. A call made with a
// context that already carries a transaction joins it.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns nil outside a transaction.
func TxFromContext(ctx context.Context) Tx {
	if ctx == nil {
		return nil
	}
	return ctx.Value(txKey{})
}
