package uow

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tankgo/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork over gorm transactions.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if fn == nil {
		return errors.New("transaction callback is required")
	}

	if outer := ports.TxFromContext(ctx); outer != nil {
		if _, ok := outer.(*gorm.DB); !ok {
			return fmt.Errorf("invalid tx in context: %T", outer)
		}
		return fn(ctx)
	}

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
}
