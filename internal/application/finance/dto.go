package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/finance"
)

// CreateRefundRequest initiates a refund against a completed return
type CreateRefundRequest struct {
	ReturnID   uuid.UUID        `json:"return_id" binding:"required"`
	Method     string           `json:"method" binding:"required"`
	AmountMode string           `json:"amount_mode" binding:"required"`
	Percentage *decimal.Decimal `json:"percentage"`
	Amount     *decimal.Decimal `json:"amount"`
	Fee        *decimal.Decimal `json:"fee"`
	Notes      string           `json:"notes"`
}

// CompleteRefundRequest finishes a processing refund
type CompleteRefundRequest struct {
	GatewayReference string `json:"gateway_reference"`
}

// FailRefundRequest marks a processing refund as failed
type FailRefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelRefundRequest cancels a pending or processing refund, with an
// optional reason
type CancelRefundRequest struct {
	Reason string `json:"reason"`
}

// ListRefundsFilter narrows a refund listing
type ListRefundsFilter struct {
	Status     string     `form:"status"`
	Method     string     `form:"method"`
	ReturnID   *uuid.UUID `form:"return_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	StoreID    *uuid.UUID `form:"store_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// RefundResponse is the API shape of a refund
type RefundResponse struct {
	ID                   uuid.UUID        `json:"id"`
	RefundNumber         string           `json:"refund_number"`
	ReturnID             uuid.UUID        `json:"return_id"`
	ReturnNumber         string           `json:"return_number"`
	OrderID              uuid.UUID        `json:"order_id"`
	CustomerID           uuid.UUID        `json:"customer_id"`
	StoreID              uuid.UUID        `json:"store_id"`
	Method               string           `json:"method"`
	AmountMode           string           `json:"amount_mode"`
	Amount               decimal.Decimal  `json:"amount"`
	Percentage           *decimal.Decimal `json:"percentage,omitempty"`
	OriginalAmount       decimal.Decimal  `json:"original_amount"`
	ProcessingFee        decimal.Decimal  `json:"processing_fee"`
	Currency             string           `json:"currency"`
	Status               string           `json:"status"`
	Notes                string           `json:"notes,omitempty"`
	StoreCreditCode      string           `json:"store_credit_code,omitempty"`
	StoreCreditExpiresAt *time.Time       `json:"store_credit_expires_at,omitempty"`
	GatewayReference     string           `json:"gateway_reference,omitempty"`
	FailureReason        string           `json:"failure_reason,omitempty"`
	CancelReason         string           `json:"cancel_reason,omitempty"`
	InitiatedAt          time.Time        `json:"initiated_at"`
	ProcessedBy          *uuid.UUID       `json:"processed_by,omitempty"`
	ProcessedAt          *time.Time       `json:"processed_at,omitempty"`
	CompletedAt          *time.Time       `json:"completed_at,omitempty"`
	FailedAt             *time.Time       `json:"failed_at,omitempty"`
	CancelledBy          *uuid.UUID       `json:"cancelled_by,omitempty"`
	CancelledAt          *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	Version              int              `json:"version"`
}

// ToRefundResponse converts a domain Refund to its response DTO
func ToRefundResponse(r *finance.Refund) RefundResponse {
	return RefundResponse{
		ID:                   r.ID,
		RefundNumber:         r.RefundNumber,
		ReturnID:             r.ReturnID,
		ReturnNumber:         r.ReturnNumber,
		OrderID:              r.OrderID,
		CustomerID:           r.CustomerID,
		StoreID:              r.StoreID,
		Method:               string(r.Method),
		AmountMode:           string(r.AmountMode),
		Amount:               r.Amount,
		Percentage:           r.Percentage,
		OriginalAmount:       r.OriginalAmount,
		ProcessingFee:        r.ProcessingFee,
		Currency:             string(r.Currency),
		Status:               r.Status.String(),
		Notes:                r.Notes,
		StoreCreditCode:      r.StoreCreditCode,
		StoreCreditExpiresAt: r.StoreCreditExpiresAt,
		GatewayReference:     r.GatewayReference,
		FailureReason:        r.FailureReason,
		CancelReason:         r.CancelReason,
		InitiatedAt:          r.InitiatedAt,
		ProcessedBy:          r.ProcessedBy,
		ProcessedAt:          r.ProcessedAt,
		CompletedAt:          r.CompletedAt,
		FailedAt:             r.FailedAt,
		CancelledBy:          r.CancelledBy,
		CancelledAt:          r.CancelledAt,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
		Version:              r.Version,
	}
}

// ToFilter converts the list filter to repository filters
func (f ListRefundsFilter) ToFilter() map[string]interface{} {
	filters := make(map[string]interface{})
	if f.Status != "" {
		filters["status"] = f.Status
	}
	if f.Method != "" {
		filters["method"] = f.Method
	}
	if f.ReturnID != nil {
		filters["return_id"] = *f.ReturnID
	}
	if f.CustomerID != nil {
		filters["customer_id"] = *f.CustomerID
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
