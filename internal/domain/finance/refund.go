package finance

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
)

// RefundStatus represents the status of a refund
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusFailed     RefundStatus = "failed"
	RefundStatusCancelled  RefundStatus = "cancelled"
)

// IsValid checks if the status is a valid RefundStatus
func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundStatusPending, RefundStatusProcessing, RefundStatusCompleted,
		RefundStatusFailed, RefundStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of RefundStatus
func (s RefundStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s RefundStatus) CanTransitionTo(target RefundStatus) bool {
	switch s {
	case RefundStatusPending:
		return target == RefundStatusProcessing || target == RefundStatusCancelled
	case RefundStatusProcessing:
		return target == RefundStatusCompleted || target == RefundStatusFailed ||
			target == RefundStatusCancelled
	case RefundStatusCompleted, RefundStatusFailed, RefundStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s RefundStatus) IsTerminal() bool {
	return s == RefundStatusCompleted || s == RefundStatusFailed || s == RefundStatusCancelled
}

// RefundMethod represents how the money goes back to the customer
type RefundMethod string

const (
	MethodCash          RefundMethod = "cash"
	MethodBankTransfer  RefundMethod = "bank_transfer"
	MethodCardRefund    RefundMethod = "card_refund"
	MethodStoreCredit   RefundMethod = "store_credit"
	MethodGiftCard      RefundMethod = "gift_card"
	MethodDigitalWallet RefundMethod = "digital_wallet"
	MethodCheck         RefundMethod = "check"
	MethodOther         RefundMethod = "other"
)

// IsValid checks if the refund method is known
func (m RefundMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCardRefund, MethodStoreCredit,
		MethodGiftCard, MethodDigitalWallet, MethodCheck, MethodOther:
		return true
	}
	return false
}

// RefundAmountMode selects how the refund amount is derived from the return
type RefundAmountMode string

const (
	AmountModeFull       RefundAmountMode = "full"
	AmountModePercentage RefundAmountMode = "percentage"
	AmountModePartial    RefundAmountMode = "partial_amount"
)

// IsValid checks if the amount mode is known
func (m RefundAmountMode) IsValid() bool {
	switch m {
	case AmountModeFull, AmountModePercentage, AmountModePartial:
		return true
	}
	return false
}

// StoreCreditValidity is how long an issued store credit stays redeemable
const StoreCreditValidity = 365 * 24 * time.Hour

// ResolveRefundAmount computes the refund amount for a mode against the
// return's refundable amount. Full mode pays out what remains after prior
// refunds and the fee; percentage mode deducts the fee from its share;
// partial amounts are taken literally.
func ResolveRefundAmount(
	mode RefundAmountMode,
	refundable valueobject.Money,
	alreadyRefunded valueobject.Money,
	percentage *decimal.Decimal,
	partialAmount *decimal.Decimal,
	fee decimal.Decimal,
) (valueobject.Money, error) {
	if fee.IsNegative() {
		return valueobject.Money{}, shared.NewDomainError("INVALID_FEE", "Processing fee cannot be negative")
	}
	feeMoney := valueobject.NewMoneyUSD(fee)

	var amount valueobject.Money
	switch mode {
	case AmountModeFull:
		amount = refundable.MustSubtract(alreadyRefunded).MustSubtract(feeMoney)
	case AmountModePercentage:
		if percentage == nil || percentage.LessThanOrEqual(decimal.Zero) ||
			percentage.GreaterThan(decimal.NewFromInt(100)) {
			return valueobject.Money{}, shared.NewDomainError("INVALID_PERCENTAGE", "Percentage must be between 0 and 100")
		}
		amount = refundable.CalculatePercentage(*percentage).MustSubtract(feeMoney)
	case AmountModePartial:
		if partialAmount == nil {
			return valueobject.Money{}, shared.NewDomainError("INVALID_AMOUNT", "Partial refund requires an amount")
		}
		amount = valueobject.NewMoneyUSD(*partialAmount)
	default:
		return valueobject.Money{}, shared.NewDomainError("INVALID_AMOUNT_MODE", fmt.Sprintf("Unknown amount mode %q", mode))
	}

	if !amount.IsPositive() {
		return valueobject.Money{}, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	return amount.Round(2), nil
}

// Refund is the aggregate root for a single disbursement against a return
type Refund struct {
	shared.AuditedAggregateRoot
	RefundNumber   string
	ReturnID       uuid.UUID
	ReturnNumber   string
	OrderID        uuid.UUID
	CustomerID     uuid.UUID
	StoreID        uuid.UUID
	Method         RefundMethod
	AmountMode     RefundAmountMode
	Amount         decimal.Decimal
	Percentage     *decimal.Decimal
	OriginalAmount decimal.Decimal // the return's refundable amount at creation time
	ProcessingFee  decimal.Decimal
	Currency       valueobject.Currency
	Status         RefundStatus
	Notes          string

	StoreCreditCode      string
	StoreCreditExpiresAt *time.Time

	GatewayReference string
	FailureReason    string
	CancelReason     string

	InitiatedAt time.Time
	ProcessedBy *uuid.UUID
	ProcessedAt *time.Time
	CompletedAt *time.Time
	FailedAt    *time.Time
	CancelledBy *uuid.UUID
	CancelledAt *time.Time
}

// RefundParams carries everything needed to open a refund against a return
type RefundParams struct {
	RefundNumber   string
	ReturnID       uuid.UUID
	ReturnNumber   string
	OrderID        uuid.UUID
	CustomerID     uuid.UUID
	StoreID        uuid.UUID
	Method         RefundMethod
	AmountMode     RefundAmountMode
	Amount         valueobject.Money
	Percentage     *decimal.Decimal
	OriginalAmount decimal.Decimal
	ProcessingFee  decimal.Decimal
	Notes          string
	InitiatedBy    uuid.UUID
}

// NewRefund creates a refund in pending status. A store-credit refund is
// issued its redemption code and expiry immediately so the customer can be
// told both before any money moves.
func NewRefund(p RefundParams) (*Refund, error) {
	if p.RefundNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFUND_NUMBER", "Refund number cannot be empty")
	}
	if p.ReturnID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RETURN", "Return ID cannot be empty")
	}
	if p.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !p.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFUND_METHOD", fmt.Sprintf("Unknown refund method %q", p.Method))
	}
	if !p.AmountMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_AMOUNT_MODE", fmt.Sprintf("Unknown amount mode %q", p.AmountMode))
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if p.InitiatedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Initiating user ID cannot be empty")
	}

	r := &Refund{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(p.InitiatedBy),
		RefundNumber:         p.RefundNumber,
		ReturnID:             p.ReturnID,
		ReturnNumber:         p.ReturnNumber,
		OrderID:              p.OrderID,
		CustomerID:           p.CustomerID,
		StoreID:              p.StoreID,
		Method:               p.Method,
		AmountMode:           p.AmountMode,
		Amount:               p.Amount.Amount(),
		Percentage:           p.Percentage,
		OriginalAmount:       p.OriginalAmount,
		ProcessingFee:        p.ProcessingFee,
		Currency:             p.Amount.Currency(),
		Status:               RefundStatusPending,
		Notes:                p.Notes,
		InitiatedAt:          time.Now(),
	}

	if p.Method == MethodStoreCredit {
		r.StoreCreditCode = generateStoreCreditCode()
		expiry := time.Now().Add(StoreCreditValidity)
		r.StoreCreditExpiresAt = &expiry
	}

	r.AddDomainEvent(NewRefundCreatedEvent(r))

	return r, nil
}

// generateStoreCreditCode issues an SC- prefixed 8-char uppercase hex code
func generateStoreCreditCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("SC-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return "SC-" + strings.ToUpper(hex.EncodeToString(buf))
}

// Process transitions the refund from pending to processing
func (r *Refund) Process(processorID uuid.UUID) error {
	if r.Status.IsTerminal() {
		return NewTerminalStateError(r.RefundNumber, r.Status)
	}
	if !r.Status.CanTransitionTo(RefundStatusProcessing) {
		return r.invalidTransition(RefundStatusProcessing)
	}
	if processorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Processor ID cannot be empty")
	}

	now := time.Now()
	r.Status = RefundStatusProcessing
	r.ProcessedBy = &processorID
	r.ProcessedAt = &now
	r.Touch()

	r.AddDomainEvent(NewRefundProcessingEvent(r))

	return nil
}

// Complete transitions the refund from processing to completed.
// The application layer posts the accounting pair in the same transaction.
func (r *Refund) Complete(gatewayReference string) error {
	if r.Status.IsTerminal() {
		return NewTerminalStateError(r.RefundNumber, r.Status)
	}
	if !r.Status.CanTransitionTo(RefundStatusCompleted) {
		return r.invalidTransition(RefundStatusCompleted)
	}

	now := time.Now()
	r.Status = RefundStatusCompleted
	r.GatewayReference = gatewayReference
	r.CompletedAt = &now
	r.Touch()

	r.AddDomainEvent(NewRefundCompletedEvent(r))

	return nil
}

// Fail transitions the refund from processing to failed. The amount stops
// counting against the return's refundable capacity.
func (r *Refund) Fail(reason string) error {
	if r.Status.IsTerminal() {
		return NewTerminalStateError(r.RefundNumber, r.Status)
	}
	if !r.Status.CanTransitionTo(RefundStatusFailed) {
		return r.invalidTransition(RefundStatusFailed)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Failure reason is required")
	}

	now := time.Now()
	r.Status = RefundStatusFailed
	r.FailureReason = reason
	r.FailedAt = &now
	r.Touch()

	r.AddDomainEvent(NewRefundFailedEvent(r))

	return nil
}

// Cancel transitions a pending or processing refund to cancelled.
// A reason may be recorded but is not required.
func (r *Refund) Cancel(cancellerID uuid.UUID, reason string) error {
	if r.Status.IsTerminal() {
		return NewTerminalStateError(r.RefundNumber, r.Status)
	}
	if !r.Status.CanTransitionTo(RefundStatusCancelled) {
		return r.invalidTransition(RefundStatusCancelled)
	}
	if cancellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Cancelling user ID cannot be empty")
	}

	now := time.Now()
	r.Status = RefundStatusCancelled
	r.CancelReason = reason
	r.CancelledBy = &cancellerID
	r.CancelledAt = &now
	r.Touch()

	r.AddDomainEvent(NewRefundCancelledEvent(r))

	return nil
}

func (r *Refund) invalidTransition(target RefundStatus) error {
	return shared.NewDomainError("INVALID_REFUND_STATE",
		fmt.Sprintf("Refund in %s status cannot move to %s", r.Status, target))
}

// GetAmountMoney returns the refund amount as Money
func (r *Refund) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(r.Amount, r.Currency)
	return m
}

// CountsAgainstCapacity reports whether this refund's amount consumes the
// return's refundable capacity. Failed and cancelled refunds do not.
func (r *Refund) CountsAgainstCapacity() bool {
	return r.Status != RefundStatusFailed && r.Status != RefundStatusCancelled
}

// IsCompleted returns true if the refund finished successfully
func (r *Refund) IsCompleted() bool {
	return r.Status == RefundStatusCompleted
}

// IsStoreCredit returns true for store-credit refunds
func (r *Refund) IsStoreCredit() bool {
	return r.Method == MethodStoreCredit
}

// TableName returns the table name for GORM
func (Refund) TableName() string {
	return "refunds"
}
