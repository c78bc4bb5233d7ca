package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/returns"
)

// CreateReturnItemInput is one requested line in a return request
type CreateReturnItemInput struct {
	OrderItemID uuid.UUID       `json:"order_item_id" binding:"required"`
	BatchID     *uuid.UUID      `json:"batch_id"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Condition   string          `json:"condition" binding:"required"`
	Notes       string          `json:"notes"`
}

// CreateReturnRequest represents a request to create a product return
type CreateReturnRequest struct {
	OrderID      uuid.UUID               `json:"order_id" binding:"required"`
	Type         string                  `json:"type" binding:"required"`
	Reason       string                  `json:"reason" binding:"required"`
	ReasonDetail string                  `json:"reason_detail"`
	Items        []CreateReturnItemInput `json:"items" binding:"required,min=1"`
}

// QualityCheckRequest records an inspection outcome, optionally adjusting
// the processing fee and refund amount
type QualityCheckRequest struct {
	Passed       bool             `json:"passed"`
	Notes        string           `json:"notes"`
	Fee          *decimal.Decimal `json:"fee"`
	RefundAmount *decimal.Decimal `json:"refund_amount"`
}

// ApproveReturnRequest approves a return, optionally overriding the refund
// amount and processing fee
type ApproveReturnRequest struct {
	RefundAmount *decimal.Decimal `json:"refund_amount"`
	Fee          *decimal.Decimal `json:"fee"`
}

// RejectReturnRequest rejects a return with a reason
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListReturnsFilter narrows a return listing
type ListReturnsFilter struct {
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderID    *uuid.UUID `form:"order_id"`
	StoreID    *uuid.UUID `form:"store_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// ReturnItemResponse is the API shape of a return line item
type ReturnItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderItemID uuid.UUID       `json:"order_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchID     *uuid.UUID      `json:"batch_id,omitempty"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineValue   decimal.Decimal `json:"line_value"`
	Condition   string          `json:"condition"`
	Notes       string          `json:"notes,omitempty"`
}

// ReturnResponse is the API shape of a product return
type ReturnResponse struct {
	ID                 uuid.UUID            `json:"id"`
	ReturnNumber       string               `json:"return_number"`
	OrderID            uuid.UUID            `json:"order_id"`
	OrderNumber        string               `json:"order_number"`
	CustomerID         uuid.UUID            `json:"customer_id"`
	StoreID            uuid.UUID            `json:"store_id"`
	Type               string               `json:"type"`
	Reason             string               `json:"reason"`
	ReasonDetail       string               `json:"reason_detail,omitempty"`
	Status             string               `json:"status"`
	Items              []ReturnItemResponse `json:"items"`
	ItemCount          int                  `json:"item_count"`
	TotalReturnValue   decimal.Decimal      `json:"total_return_value"`
	TotalRefundAmount  decimal.Decimal      `json:"total_refund_amount"`
	ProcessingFee      decimal.Decimal      `json:"processing_fee"`
	QualityCheckPassed *bool                `json:"quality_check_passed,omitempty"`
	QualityCheckNotes  string               `json:"quality_check_notes,omitempty"`
	ReceivedAtStore    bool                 `json:"received_at_store"`
	RequestedAt        time.Time            `json:"requested_at"`
	ApprovedBy         *uuid.UUID           `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time           `json:"approved_at,omitempty"`
	RejectedBy         *uuid.UUID           `json:"rejected_by,omitempty"`
	RejectedAt         *time.Time           `json:"rejected_at,omitempty"`
	RejectionReason    string               `json:"rejection_reason,omitempty"`
	ProcessedBy        *uuid.UUID           `json:"processed_by,omitempty"`
	ProcessedAt        *time.Time           `json:"processed_at,omitempty"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	RefundedAt         *time.Time           `json:"refunded_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	Version            int                  `json:"version"`
}

// ToReturnResponse converts a domain ProductReturn to its response DTO
func ToReturnResponse(pr *returns.ProductReturn) ReturnResponse {
	items := make([]ReturnItemResponse, 0, len(pr.Items))
	for _, item := range pr.Items {
		items = append(items, ReturnItemResponse{
			ID:          item.ID,
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			BatchID:     item.BatchID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineValue:   item.LineValue,
			Condition:   string(item.Condition),
			Notes:       item.Notes,
		})
	}

	return ReturnResponse{
		ID:                 pr.ID,
		ReturnNumber:       pr.ReturnNumber,
		OrderID:            pr.OrderID,
		OrderNumber:        pr.OrderNumber,
		CustomerID:         pr.CustomerID,
		StoreID:            pr.StoreID,
		Type:               string(pr.Type),
		Reason:             string(pr.Reason),
		ReasonDetail:       pr.ReasonDetail,
		Status:             pr.Status.String(),
		Items:              items,
		ItemCount:          pr.ItemCount(),
		TotalReturnValue:   pr.TotalReturnValue,
		TotalRefundAmount:  pr.TotalRefundAmount,
		ProcessingFee:      pr.ProcessingFee,
		QualityCheckPassed: pr.QualityCheckPassed,
		QualityCheckNotes:  pr.QualityCheckNotes,
		ReceivedAtStore:    pr.ReceivedAtStore,
		RequestedAt:        pr.RequestedAt,
		ApprovedBy:         pr.ApprovedBy,
		ApprovedAt:         pr.ApprovedAt,
		RejectedBy:         pr.RejectedBy,
		RejectedAt:         pr.RejectedAt,
		RejectionReason:    pr.RejectionReason,
		ProcessedBy:        pr.ProcessedBy,
		ProcessedAt:        pr.ProcessedAt,
		CompletedAt:        pr.CompletedAt,
		RefundedAt:         pr.RefundedAt,
		CreatedAt:          pr.CreatedAt,
		UpdatedAt:          pr.UpdatedAt,
		Version:            pr.Version,
	}
}

// ToFilter converts the list filter to a repository filter
func (f ListReturnsFilter) ToFilter() map[string]interface{} {
	filters := make(map[string]interface{})
	if f.Status != "" {
		filters["status"] = f.Status
	}
	if f.CustomerID != nil {
		filters["customer_id"] = *f.CustomerID
	}
	if f.OrderID != nil {
		filters["order_id"] = *f.OrderID
	}
	if f.StoreID != nil {
		filters["store_id"] = *f.StoreID
	}
	if f.DateFrom != nil {
		filters["date_from"] = *f.DateFrom
	}
	if f.DateTo != nil {
		filters["date_to"] = *f.DateTo
	}
	return filters
}
