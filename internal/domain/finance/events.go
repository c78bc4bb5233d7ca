package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// Aggregate and event type names
const (
	AggregateTypeRefund = "Refund"

	EventTypeRefundCreated    = "finance.refund_created"
	EventTypeRefundProcessing = "finance.refund_processing"
	EventTypeRefundCompleted  = "finance.refund_completed"
	EventTypeRefundFailed     = "finance.refund_failed"
	EventTypeRefundCancelled  = "finance.refund_cancelled"
)

// RefundCreatedEvent is raised when a refund is initiated
type RefundCreatedEvent struct {
	shared.BaseDomainEvent
	RefundID     uuid.UUID       `json:"refund_id"`
	RefundNumber string          `json:"refund_number"`
	ReturnID     uuid.UUID       `json:"return_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	Method       RefundMethod    `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewRefundCreatedEvent creates a RefundCreatedEvent
func NewRefundCreatedEvent(r *Refund) *RefundCreatedEvent {
	return &RefundCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundCreated, AggregateTypeRefund, r.ID),
		RefundID:        r.ID,
		RefundNumber:    r.RefundNumber,
		ReturnID:        r.ReturnID,
		CustomerID:      r.CustomerID,
		Method:          r.Method,
		Amount:          r.Amount,
	}
}

// RefundProcessingEvent is raised when disbursement begins
type RefundProcessingEvent struct {
	shared.BaseDomainEvent
	RefundID     uuid.UUID `json:"refund_id"`
	RefundNumber string    `json:"refund_number"`
}

// NewRefundProcessingEvent creates a RefundProcessingEvent
func NewRefundProcessingEvent(r *Refund) *RefundProcessingEvent {
	return &RefundProcessingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundProcessing, AggregateTypeRefund, r.ID),
		RefundID:        r.ID,
		RefundNumber:    r.RefundNumber,
	}
}

// RefundCompletedEvent is raised when the money has moved and the ledger
// pair has been posted
type RefundCompletedEvent struct {
	shared.BaseDomainEvent
	RefundID     uuid.UUID       `json:"refund_id"`
	RefundNumber string          `json:"refund_number"`
	ReturnID     uuid.UUID       `json:"return_id"`
	Method       RefundMethod    `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewRefundCompletedEvent creates a RefundCompletedEvent
func NewRefundCompletedEvent(r *Refund) *RefundCompletedEvent {
	return &RefundCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundCompleted, AggregateTypeRefund, r.ID),
		RefundID:        r.ID,
		RefundNumber:    r.RefundNumber,
		ReturnID:        r.ReturnID,
		Method:          r.Method,
		Amount:          r.Amount,
	}
}

// RefundFailedEvent is raised when disbursement fails
type RefundFailedEvent struct {
	shared.BaseDomainEvent
	RefundID     uuid.UUID `json:"refund_id"`
	RefundNumber string    `json:"refund_number"`
	Reason       string    `json:"reason"`
}

// NewRefundFailedEvent creates a RefundFailedEvent
func NewRefundFailedEvent(r *Refund) *RefundFailedEvent {
	return &RefundFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundFailed, AggregateTypeRefund, r.ID),
		RefundID:        r.ID,
		RefundNumber:    r.RefundNumber,
		Reason:          r.FailureReason,
	}
}

// RefundCancelledEvent is raised when a refund is cancelled before completion
type RefundCancelledEvent struct {
	shared.BaseDomainEvent
	RefundID     uuid.UUID `json:"refund_id"`
	RefundNumber string    `json:"refund_number"`
	Reason       string    `json:"reason"`
}

// NewRefundCancelledEvent creates a RefundCancelledEvent
func NewRefundCancelledEvent(r *Refund) *RefundCancelledEvent {
	return &RefundCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundCancelled, AggregateTypeRefund, r.ID),
		RefundID:        r.ID,
		RefundNumber:    r.RefundNumber,
		Reason:          r.CancelReason,
	}
}
