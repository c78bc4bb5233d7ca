package finance

import (
	"context"

	"github.com/retailops/backend/internal/domain/finance"
	"github.com/retailops/backend/internal/domain/returns"
)

// TransactionScope provides transactional access to the repositories a
// refund completion touches: the refund, the ledger, and the return that
// may flip to refunded. All of it commits or rolls back as a unit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the
// current transaction
type TransactionalRepositories interface {
	RefundRepo() finance.RefundRepository
	TransactionRepo() finance.TransactionRepository
	ReturnRepo() returns.ProductReturnRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests where the mock repositories hold no shared state.
type NoOpTransactionScope struct {
	refundRepo finance.RefundRepository
	txnRepo    finance.TransactionRepository
	returnRepo returns.ProductReturnRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	refundRepo finance.RefundRepository,
	txnRepo finance.TransactionRepository,
	returnRepo returns.ProductReturnRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		refundRepo: refundRepo,
		txnRepo:    txnRepo,
		returnRepo: returnRepo,
	}
}

// Execute runs the function against the unscoped repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RefundRepo returns the refund repository
func (s *NoOpTransactionScope) RefundRepo() finance.RefundRepository {
	return s.refundRepo
}

// TransactionRepo returns the ledger transaction repository
func (s *NoOpTransactionScope) TransactionRepo() finance.TransactionRepository {
	return s.txnRepo
}

// ReturnRepo returns the product return repository
func (s *NoOpTransactionScope) ReturnRepo() returns.ProductReturnRepository {
	return s.returnRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
