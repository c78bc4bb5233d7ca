package persistence

import (
	"context"

	"gorm.io/gorm"

	appfinance "github.com/retailops/backend/internal/application/finance"
	appreturns "github.com/retailops/backend/internal/application/returns"
	"github.com/retailops/backend/internal/domain/finance"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/returns"
)

// GormReturnsTransactionScope runs return processing inside one database
// transaction, handing the callback repositories bound to that transaction.
type GormReturnsTransactionScope struct {
	db *gorm.DB
}

// NewGormReturnsTransactionScope creates a GormReturnsTransactionScope
func NewGormReturnsTransactionScope(db *gorm.DB) *GormReturnsTransactionScope {
	return &GormReturnsTransactionScope{db: db}
}

var _ appreturns.TransactionScope = (*GormReturnsTransactionScope)(nil)

// Execute runs fn inside a database transaction
func (s *GormReturnsTransactionScope) Execute(ctx context.Context, fn func(repos appreturns.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&returnsTxRepositories{tx: tx})
	})
}

type returnsTxRepositories struct {
	tx *gorm.DB
}

func (r *returnsTxRepositories) ReturnRepo() returns.ProductReturnRepository {
	return NewGormProductReturnRepository(r.tx)
}

func (r *returnsTxRepositories) BatchRepo() inventory.ProductBatchRepository {
	return NewGormProductBatchRepository(r.tx)
}

func (r *returnsTxRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// GormFinanceTransactionScope runs refund completion inside one database
// transaction so the refund, its ledger postings, and the return flip
// commit or roll back together.
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

var _ appfinance.TransactionScope = (*GormFinanceTransactionScope)(nil)

// Execute runs fn inside a database transaction
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&financeTxRepositories{tx: tx})
	})
}

type financeTxRepositories struct {
	tx *gorm.DB
}

func (r *financeTxRepositories) RefundRepo() finance.RefundRepository {
	return NewGormRefundRepository(r.tx)
}

func (r *financeTxRepositories) TransactionRepo() finance.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *financeTxRepositories) ReturnRepo() returns.ProductReturnRepository {
	return NewGormProductReturnRepository(r.tx)
}
