package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tankgo/internal/ports"
)

// dbFromContext prefers the transaction carried by ctx over base.
func dbFromContext(base *gorm.DB, ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return base.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}
