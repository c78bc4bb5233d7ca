package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RefundExceedsRemainingError is returned when a refund request asks for
// more than the return's remaining refundable capacity. It carries both
// amounts so callers can present the gap.
type RefundExceedsRemainingError struct {
	ReturnNumber string
	Requested    decimal.Decimal
	Remaining    decimal.Decimal
}

// Error implements the error interface
func (e *RefundExceedsRemainingError) Error() string {
	return fmt.Sprintf("refund of %s exceeds remaining refundable amount %s for return %s",
		e.Requested.StringFixed(2), e.Remaining.StringFixed(2), e.ReturnNumber)
}

// Code returns the stable error code for the HTTP layer
func (e *RefundExceedsRemainingError) Code() string {
	return "REFUND_EXCEEDS_REMAINING"
}

// AlreadyFullyRefundedError is returned when a return has no refundable
// capacity left.
type AlreadyFullyRefundedError struct {
	ReturnNumber string
	Requested    decimal.Decimal
}

// Error implements the error interface
func (e *AlreadyFullyRefundedError) Error() string {
	if e.Requested.IsZero() {
		return fmt.Sprintf("return %s is already fully refunded", e.ReturnNumber)
	}
	return fmt.Sprintf("return %s is already fully refunded, cannot refund %s",
		e.ReturnNumber, e.Requested.StringFixed(2))
}

// Code returns the stable error code for the HTTP layer
func (e *AlreadyFullyRefundedError) Code() string {
	return "ALREADY_FULLY_REFUNDED"
}

// TerminalStateError is returned when a lifecycle operation targets a
// refund already in a terminal status.
type TerminalStateError struct {
	RefundNumber string
	Status       RefundStatus
}

// NewTerminalStateError creates a TerminalStateError
func NewTerminalStateError(refundNumber string, status RefundStatus) *TerminalStateError {
	return &TerminalStateError{RefundNumber: refundNumber, Status: status}
}

// Error implements the error interface
func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("refund %s is in terminal status %s", e.RefundNumber, e.Status)
}

// Code returns the stable error code for the HTTP layer
func (e *TerminalStateError) Code() string {
	return "TERMINAL_STATE"
}
