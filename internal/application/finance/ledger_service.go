package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/finance"
)

// ReportCache caches rendered financial reports. Implementations must
// treat a miss and an unavailable backend the same way: report, false.
type ReportCache interface {
	GetTrialBalance(ctx context.Context, from, to time.Time) (*finance.TrialBalance, bool)
	SetTrialBalance(ctx context.Context, from, to time.Time, tb *finance.TrialBalance)
	InvalidateTrialBalance(ctx context.Context)
}

// NoOpReportCache never caches
type NoOpReportCache struct{}

// GetTrialBalance always misses
func (NoOpReportCache) GetTrialBalance(context.Context, time.Time, time.Time) (*finance.TrialBalance, bool) {
	return nil, false
}

// SetTrialBalance discards the report
func (NoOpReportCache) SetTrialBalance(context.Context, time.Time, time.Time, *finance.TrialBalance) {}

// InvalidateTrialBalance does nothing
func (NoOpReportCache) InvalidateTrialBalance(context.Context) {}

// LedgerService produces trial balance and account ledger reports from
// posted transactions
type LedgerService struct {
	txnRepo     finance.TransactionRepository
	accountRepo finance.AccountRepository
	cache       ReportCache
	logger      *zap.Logger
}

// NewLedgerService creates a LedgerService
func NewLedgerService(
	txnRepo finance.TransactionRepository,
	accountRepo finance.AccountRepository,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		cache:       NoOpReportCache{},
		logger:      logger,
	}
}

// SetReportCache sets the report cache
func (s *LedgerService) SetReportCache(cache ReportCache) {
	s.cache = cache
}

// GetTrialBalance sums completed postings per account over the period.
// A non-nil storeID restricts the report to that store's postings; only
// the company-wide report goes through the cache.
func (s *LedgerService) GetTrialBalance(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (*finance.TrialBalance, error) {
	if storeID == nil {
		if cached, ok := s.cache.GetTrialBalance(ctx, from, to); ok {
			return cached, nil
		}
	}

	lines, err := s.txnRepo.TrialBalanceLines(ctx, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading trial balance lines: %w", err)
	}

	tb := finance.NewTrialBalance(from, to, lines)
	if !tb.InBalance {
		s.logger.Error("trial balance out of balance",
			zap.String("difference", tb.Difference.StringFixed(2)),
			zap.Time("period_start", from),
			zap.Time("period_end", to))
	}

	if storeID == nil {
		s.cache.SetTrialBalance(ctx, from, to, tb)
	}

	return tb, nil
}

// GetAccountLedger builds the running-balance statement for one account,
// optionally restricted to one store's postings
func (s *LedgerService) GetAccountLedger(ctx context.Context, accountID uuid.UUID, storeID *uuid.UUID, from, to time.Time) (*finance.AccountLedger, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening, err := s.txnRepo.AccountBalanceBefore(ctx, accountID, storeID, from)
	if err != nil {
		return nil, fmt.Errorf("loading opening balance: %w", err)
	}

	transactions, err := s.txnRepo.FindByAccountInPeriod(ctx, accountID, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading account transactions: %w", err)
	}

	return finance.BuildAccountLedger(account, from, to, opening, transactions), nil
}
