package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// RefundRepository defines persistence operations for refunds
type RefundRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Refund, error)
	FindByRefundNumber(ctx context.Context, refundNumber string) (*Refund, error)
	FindByReturnID(ctx context.Context, returnID uuid.UUID) ([]Refund, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Refund, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, refund *Refund) error
	// SaveWithLock persists the aggregate with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, refund *Refund) error

	// SumCountedAmountByReturn totals the amounts of refunds that consume
	// the return's capacity (all statuses except failed and cancelled).
	SumCountedAmountByReturn(ctx context.Context, returnID uuid.UUID) (decimal.Decimal, error)

	// SumCompletedAmountByReturn totals completed refund amounts only
	SumCompletedAmountByReturn(ctx context.Context, returnID uuid.UUID) (decimal.Decimal, error)

	// GetStatistics aggregates counts and amounts for a period
	GetStatistics(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (*RefundStatistics, error)
}

// RefundStatistics summarizes refund activity over a period
type RefundStatistics struct {
	TotalCount      int64                  `json:"total_count"`
	CountByStatus   map[RefundStatus]int64 `json:"count_by_status"`
	CountByMethod   map[RefundMethod]int64 `json:"count_by_method"`
	CompletedAmount decimal.Decimal        `json:"completed_amount"`
	PendingAmount   decimal.Decimal        `json:"pending_amount"`
}

// TransactionRepository defines persistence for ledger postings
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]Transaction, error)
	FindByAccountInPeriod(ctx context.Context, accountID uuid.UUID, storeID *uuid.UUID, from, to time.Time) ([]Transaction, error)
	Save(ctx context.Context, txn *Transaction) error

	// TrialBalanceLines sums completed postings per account over a period.
	// A non-nil storeID restricts the report to that store's postings.
	TrialBalanceLines(ctx context.Context, storeID *uuid.UUID, from, to time.Time) ([]TrialBalanceLine, error)

	// AccountBalanceBefore nets completed postings for the account prior
	// to the cutoff (debits minus credits).
	AccountBalanceBefore(ctx context.Context, accountID uuid.UUID, storeID *uuid.UUID, cutoff time.Time) (decimal.Decimal, error)
}

// AccountRepository defines persistence for ledger accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByCode(ctx context.Context, code string) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

// AccountDirectory resolves the accounts refund postings target.
// Backed by the account table with well-known codes.
type AccountDirectory interface {
	CashAccountFor(ctx context.Context, storeID uuid.UUID) (*Account, error)
	SalesRevenueAccount(ctx context.Context) (*Account, error)
}
