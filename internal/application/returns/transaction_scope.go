package returns

import (
	"context"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/returns"
)

// TransactionScope provides transactional access to the repositories the
// return lifecycle touches. Everything executed inside Execute shares one
// database transaction and commits or rolls back as a unit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the
// current transaction. Stock restoration writes batches and movements in
// the same transaction that moves the return to processing.
type TransactionalRepositories interface {
	ReturnRepo() returns.ProductReturnRepository
	BatchRepo() inventory.ProductBatchRepository
	MovementRepo() inventory.StockMovementRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests where the mock repositories hold no shared state.
type NoOpTransactionScope struct {
	returnRepo   returns.ProductReturnRepository
	batchRepo    inventory.ProductBatchRepository
	movementRepo inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	returnRepo returns.ProductReturnRepository,
	batchRepo inventory.ProductBatchRepository,
	movementRepo inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		returnRepo:   returnRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function against the unscoped repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ReturnRepo returns the product return repository
func (s *NoOpTransactionScope) ReturnRepo() returns.ProductReturnRepository {
	return s.returnRepo
}

// BatchRepo returns the product batch repository
func (s *NoOpTransactionScope) BatchRepo() inventory.ProductBatchRepository {
	return s.batchRepo
}

// MovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
