package returns

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// Aggregate and event type names
const (
	AggregateTypeProductReturn = "ProductReturn"

	EventTypeReturnRequested      = "returns.requested"
	EventTypeReturnQualityChecked = "returns.quality_checked"
	EventTypeReturnApproved       = "returns.approved"
	EventTypeReturnRejected       = "returns.rejected"
	EventTypeReturnProcessing     = "returns.processing"
	EventTypeReturnCompleted      = "returns.completed"
	EventTypeReturnRefunded       = "returns.refunded"
)

// ReturnRequestedEvent is raised when a customer return is created
type ReturnRequestedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	ReturnNumber string          `json:"return_number"`
	OrderID      uuid.UUID       `json:"order_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	StoreID      uuid.UUID       `json:"store_id"`
	Type         ReturnType      `json:"type"`
	Reason       ReturnReason    `json:"reason"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// NewReturnRequestedEvent creates a ReturnRequestedEvent
func NewReturnRequestedEvent(r *ProductReturn) *ReturnRequestedEvent {
	return &ReturnRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRequested, AggregateTypeProductReturn, r.ID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		OrderID:         r.OrderID,
		CustomerID:      r.CustomerID,
		StoreID:         r.StoreID,
		Type:            r.Type,
		Reason:          r.Reason,
		TotalValue:      r.TotalReturnValue,
	}
}

// ReturnQualityCheckedEvent is raised when an inspection result is recorded
type ReturnQualityCheckedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	Passed       bool      `json:"passed"`
}

// NewReturnQualityCheckedEvent creates a ReturnQualityCheckedEvent
func NewReturnQualityCheckedEvent(r *ProductReturn, passed bool) *ReturnQualityCheckedEvent {
	return &ReturnQualityCheckedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnQualityChecked, AggregateTypeProductReturn, r.ID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		Passed:          passed,
	}
}

// ReturnApprovedEvent is raised when a return is approved
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	ReturnNumber string          `json:"return_number"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	ApprovedBy   uuid.UUID       `json:"approved_by"`
}

// NewReturnApprovedEvent creates a ReturnApprovedEvent
func NewReturnApprovedEvent(r *ProductReturn) *ReturnApprovedEvent {
	e := &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeProductReturn, r.ID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		RefundAmount:    r.TotalRefundAmount,
	}
	if r.ApprovedBy != nil {
		e.ApprovedBy = *r.ApprovedBy
	}
	return e
}

// ReturnRejectedEvent is raised when a return is rejected
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	Reason       string    `json:"reason"`
}

// NewReturnRejectedEvent creates a ReturnRejectedEvent
func NewReturnRejectedEvent(r *ProductReturn) *ReturnRejectedEvent {
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRejected, AggregateTypeProductReturn, r.ID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		Reason:          r.RejectionReason,
	}
}

// ReturnProcessingEvent is raised when inventory restoration begins
type ReturnProcessingEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	ItemCount    int       `json:"item_count"`
}

// NewReturnProcessingEvent creates a ReturnProcessingEvent
func NewReturnProcessingEvent(r *ProductReturn) *ReturnProcessingEvent {
	return &ReturnProcessingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnProcessing, AggregateTypeProductReturn, r.ID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		ItemCount:       len(r.Items),
	}
}

// ReturnCompletedEvent is raised when the return becomes refund-eligible
type ReturnCompletedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	ReturnNumber string          `json:"return_number"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// NewReturnCompletedEvent creates a ReturnCompletedEvent
func NewReturnCompletedEvent(r *ProductReturn) *ReturnCompletedEvent {
	return &ReturnCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCompleted, AggregateTypeProductReturn, r.ID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
		RefundAmount:    r.TotalRefundAmount,
	}
}

// ReturnRefundedEvent is raised when the return is fully refunded
type ReturnRefundedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
}

// NewReturnRefundedEvent creates a ReturnRefundedEvent
func NewReturnRefundedEvent(r *ProductReturn) *ReturnRefundedEvent {
	return &ReturnRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRefunded, AggregateTypeProductReturn, r.ID),
		ReturnID:        r.ID,
		ReturnNumber:    r.ReturnNumber,
	}
}
