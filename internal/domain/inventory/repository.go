package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductBatchRepository defines persistence for product batches
type ProductBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductBatch, error)
	FindByProduct(ctx context.Context, productID, storeID uuid.UUID) ([]ProductBatch, error)
	Save(ctx context.Context, batch *ProductBatch) error

	// IncrementQuantity atomically adds delta to the stored quantity
	// without a read-modify-write cycle. Returns shared.ErrNotFound when
	// the batch does not exist.
	IncrementQuantity(ctx context.Context, batchID uuid.UUID, delta decimal.Decimal) error
}

// StockMovementRepository defines persistence for the movement trail.
// The trail is append-only: there is deliberately no update or delete.
type StockMovementRepository interface {
	Save(ctx context.Context, movement *StockMovement) error
	FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]StockMovement, error)
	FindByProductInPeriod(ctx context.Context, productID uuid.UUID, from, to time.Time) ([]StockMovement, error)
}
