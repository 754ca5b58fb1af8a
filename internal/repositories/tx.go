package repositories

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx returns a context carrying tx. Repositories called with that context
// run inside tx instead of their base connection.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction stored by WithTx, if any
func TxFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Transactor runs functions inside a database transaction
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GormTransactor implements Transactor. When ctx already carries a
// transaction the function runs in a savepoint, so a failure only undoes
// its own writes.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
