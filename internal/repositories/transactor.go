package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxRepositories are repositories bound to one open transaction.
type TxRepositories struct {
	Products ProductRepository
	Orders   OrderRepository
}

// Transactor runs work atomically. If fn returns an error every write it made is rolled back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx TxRepositories) error) error
}

// GORMTransactor is a GORM implementation of Transactor.
type GORMTransactor struct {
	db *gorm.DB
}

func NewGORMTransactor(db *gorm.DB) *GORMTransactor {
	return &GORMTransactor{db: db}
}

func (t *GORMTransactor) WithinTransaction(ctx context.Context, fn func(tx TxRepositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxRepositories{
			Products: NewGORMProductRepository(tx),
			Orders:   NewGORMOrderRepository(tx),
		})
	})
}
