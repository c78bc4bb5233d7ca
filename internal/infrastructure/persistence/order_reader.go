package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/returns"
	"github.com/retailops/backend/internal/domain/shared"
)

// salesOrderRow maps the order header columns the returns context reads.
// The orders tables are owned by the order management system; this side
// only ever reads them.
type salesOrderRow struct {
	ID          uuid.UUID `gorm:"column:id"`
	OrderNumber string    `gorm:"column:order_number"`
	CustomerID  uuid.UUID `gorm:"column:customer_id"`
	StoreID     uuid.UUID `gorm:"column:store_id"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (salesOrderRow) TableName() string { return "sales_orders" }

type salesOrderItemRow struct {
	ID          uuid.UUID       `gorm:"column:id"`
	OrderID     uuid.UUID       `gorm:"column:order_id"`
	ProductID   uuid.UUID       `gorm:"column:product_id"`
	ProductName string          `gorm:"column:product_name"`
	ProductSKU  string          `gorm:"column:product_sku"`
	Quantity    decimal.Decimal `gorm:"column:quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price"`
}

func (salesOrderItemRow) TableName() string { return "sales_order_items" }

// GormOrderReader reads order facts from the shared order tables for
// return validation.
type GormOrderReader struct {
	db *gorm.DB
}

// NewGormOrderReader creates a new GormOrderReader
func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

var _ returns.OrderReader = (*GormOrderReader)(nil)

// GetOrderForReturn loads the order header and lines needed to validate
// a return request.
func (r *GormOrderReader) GetOrderForReturn(ctx context.Context, orderID uuid.UUID) (*returns.OrderSummary, error) {
	var order salesOrderRow
	if err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var items []salesOrderItemRow
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	summary := &returns.OrderSummary{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		StoreID:     order.StoreID,
		Returnable:  orderAcceptsReturns(order.Status),
		Lines:       make([]returns.OrderLine, 0, len(items)),
	}
	for _, item := range items {
		summary.Lines = append(summary.Lines, returns.OrderLine{
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return summary, nil
}

// orderAcceptsReturns reports whether an order in the given status can
// receive return requests. Only fulfilled orders qualify.
func orderAcceptsReturns(status string) bool {
	switch status {
	case "delivered", "completed":
		return true
	default:
		return false
	}
}
