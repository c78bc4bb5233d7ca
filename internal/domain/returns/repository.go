package returns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// ProductReturnRepository defines persistence operations for product returns
type ProductReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductReturn, error)
	FindByReturnNumber(ctx context.Context, returnNumber string) (*ProductReturn, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductReturn, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, pr *ProductReturn) error
	// SaveWithLock persists the aggregate with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, pr *ProductReturn) error

	// GetReturnedQuantities sums the already-returned quantity per order
	// item across all returns for the order, excluding rejected ones.
	GetReturnedQuantities(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// GetStatistics aggregates counts and value totals for a period
	GetStatistics(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (*ReturnStatistics, error)
}

// ReturnStatistics summarizes return activity over a period
type ReturnStatistics struct {
	TotalCount       int64                  `json:"total_count"`
	CountByStatus    map[ReturnStatus]int64 `json:"count_by_status"`
	TotalReturnValue decimal.Decimal        `json:"total_return_value"`
	TotalRefundValue decimal.Decimal        `json:"total_refund_value"`
}

// OrderLine is the slice of an order the returns context needs to
// validate a return request.
type OrderLine struct {
	OrderItemID uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// OrderSummary carries order header facts needed for return validation
type OrderSummary struct {
	OrderID     uuid.UUID
	OrderNumber string
	CustomerID  uuid.UUID
	StoreID     uuid.UUID
	Returnable  bool // delivered or completed orders accept returns
	Lines       []OrderLine
}

// OrderReader exposes the order facts the returns context depends on.
// Implemented against the order store; faked in tests.
type OrderReader interface {
	GetOrderForReturn(ctx context.Context, orderID uuid.UUID) (*OrderSummary, error)
}
