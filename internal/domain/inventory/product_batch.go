package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// ProductBatch tracks a received lot of a product at a store. Quantity is
// adjusted in place by the persistence layer with atomic increments; the
// struct mutators exist for construction and tests.
type ProductBatch struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	StoreID     uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	ExpiryDate  *time.Time
}

// NewProductBatch creates a batch record
func NewProductBatch(
	productID, storeID uuid.UUID,
	batchNumber string,
	quantity, unitCost decimal.Decimal,
	expiryDate *time.Time,
) (*ProductBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &ProductBatch{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		StoreID:     storeID,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		UnitCost:    unitCost,
		ExpiryDate:  expiryDate,
	}, nil
}

// Add increases the batch quantity
func (b *ProductBatch) Add(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity to add must be positive")
	}
	b.Quantity = b.Quantity.Add(quantity)
	b.Touch()
	return nil
}

// Deduct decreases the batch quantity
func (b *ProductBatch) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity to deduct must be positive")
	}
	if b.Quantity.LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Batch does not hold enough stock")
	}
	b.Quantity = b.Quantity.Sub(quantity)
	b.Touch()
	return nil
}

// IsExpired returns true if the batch has an expiry date in the past
func (b *ProductBatch) IsExpired() bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(time.Now())
}

// TableName returns the table name for GORM
func (ProductBatch) TableName() string {
	return "product_batches"
}
