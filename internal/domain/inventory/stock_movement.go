package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// MovementType classifies stock movements. Return movements are inflows.
type MovementType string

const (
	MovementSale       MovementType = "sale"
	MovementPurchase   MovementType = "purchase"
	MovementReturn     MovementType = "return"
	MovementAdjustment MovementType = "adjustment"
	MovementTransfer   MovementType = "transfer"
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementSale, MovementPurchase, MovementReturn, MovementAdjustment, MovementTransfer:
		return true
	}
	return false
}

// IsInflow returns true for movement types that increase stock
func (t MovementType) IsInflow() bool {
	return t == MovementPurchase || t == MovementReturn
}

// StockMovement is an append-only record of a stock change. Movements are
// never updated or deleted; corrections are made with adjustments.
type StockMovement struct {
	shared.BaseEntity
	ProductID     uuid.UUID
	BatchID       *uuid.UUID
	StoreID       uuid.UUID
	Type          MovementType
	Quantity      decimal.Decimal // positive for inflow, negative for outflow
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	ReferenceType string
	ReferenceID   uuid.UUID
	Notes         string
	MovedBy       uuid.UUID
	MovedAt       time.Time
}

// NewReturnMovement records stock flowing back in from a customer return.
// Unit cost is valued at the original sale unit price.
func NewReturnMovement(
	productID uuid.UUID,
	batchID *uuid.UUID,
	storeID uuid.UUID,
	quantity, unitCost decimal.Decimal,
	returnID uuid.UUID,
	movedBy uuid.UUID,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return movement quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if returnID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Return ID cannot be empty")
	}
	if movedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Moving user ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		BatchID:       batchID,
		StoreID:       storeID,
		Type:          MovementReturn,
		Quantity:      quantity,
		UnitCost:      unitCost,
		TotalCost:     quantity.Mul(unitCost),
		ReferenceType: "return",
		ReferenceID:   returnID,
		MovedBy:       movedBy,
		MovedAt:       time.Now(),
	}, nil
}

// NewAdjustmentMovement records a manual stock correction
func NewAdjustmentMovement(
	productID uuid.UUID,
	batchID *uuid.UUID,
	storeID uuid.UUID,
	quantity, unitCost decimal.Decimal,
	notes string,
	movedBy uuid.UUID,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if movedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Moving user ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		BatchID:       batchID,
		StoreID:       storeID,
		Type:          MovementAdjustment,
		Quantity:      quantity,
		UnitCost:      unitCost,
		TotalCost:     quantity.Mul(unitCost).Abs(),
		ReferenceType: "adjustment",
		Notes:         notes,
		MovedBy:       movedBy,
		MovedAt:       time.Now(),
	}, nil
}

// String describes the movement for logs
func (m *StockMovement) String() string {
	return fmt.Sprintf("%s %s of product %s", m.Type, m.Quantity, m.ProductID)
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}
