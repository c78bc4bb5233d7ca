package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/finance"
	"github.com/retailops/backend/internal/domain/returns"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
)

// RefundService handles the refund lifecycle and its ledger postings
type RefundService struct {
	refundRepo finance.RefundRepository
	returnRepo returns.ProductReturnRepository
	accounts   finance.AccountDirectory
	numbers    shared.NumberGenerator
	txScope    TransactionScope
	publisher  shared.EventPublisher
	cache      ReportCache
	logger     *zap.Logger
}

// NewRefundService creates a RefundService
func NewRefundService(
	refundRepo finance.RefundRepository,
	returnRepo returns.ProductReturnRepository,
	accounts finance.AccountDirectory,
	numbers shared.NumberGenerator,
	txScope TransactionScope,
	logger *zap.Logger,
) *RefundService {
	return &RefundService{
		refundRepo: refundRepo,
		returnRepo: returnRepo,
		accounts:   accounts,
		numbers:    numbers,
		txScope:    txScope,
		publisher:  shared.NoOpEventPublisher{},
		cache:      NoOpReportCache{},
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for cross-context integration
func (s *RefundService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetReportCache sets the cache invalidated when postings change
func (s *RefundService) SetReportCache(cache ReportCache) {
	s.cache = cache
}

// Create initiates a refund against a refundable return. The amount is
// resolved from the request mode and checked against the return's
// remaining refundable capacity.
func (s *RefundService) Create(ctx context.Context, actorID uuid.UUID, req CreateRefundRequest) (*RefundResponse, error) {
	pr, err := s.returnRepo.FindByID(ctx, req.ReturnID)
	if err != nil {
		return nil, err
	}
	if !pr.IsRefundable() {
		return nil, shared.NewDomainError("INVALID_RETURN_STATE",
			fmt.Sprintf("Return %s in %s status is not eligible for refunds", pr.ReturnNumber, pr.Status))
	}

	consumed, err := s.refundRepo.SumCountedAmountByReturn(ctx, pr.ID)
	if err != nil {
		return nil, fmt.Errorf("loading refunded amounts: %w", err)
	}
	remaining := pr.TotalRefundAmount.Sub(consumed)
	if remaining.LessThanOrEqual(finance.BalanceTolerance) {
		return nil, &finance.AlreadyFullyRefundedError{
			ReturnNumber: pr.ReturnNumber,
			Requested:    decimal.Zero,
		}
	}

	fee := decimal.Zero
	if req.Fee != nil {
		fee = *req.Fee
	}
	amount, err := finance.ResolveRefundAmount(
		finance.RefundAmountMode(req.AmountMode),
		pr.GetTotalRefundAmountMoney(),
		valueobject.NewMoneyUSD(consumed),
		req.Percentage,
		req.Amount,
		fee,
	)
	if err != nil {
		return nil, err
	}

	if amount.Amount().GreaterThan(remaining) {
		return nil, &finance.RefundExceedsRemainingError{
			ReturnNumber: pr.ReturnNumber,
			Requested:    amount.Amount(),
			Remaining:    remaining,
		}
	}

	refundNumber, err := s.numbers.Next(ctx, shared.RefundNumberPrefix, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generating refund number: %w", err)
	}

	refund, err := finance.NewRefund(finance.RefundParams{
		RefundNumber:   refundNumber,
		ReturnID:       pr.ID,
		ReturnNumber:   pr.ReturnNumber,
		OrderID:        pr.OrderID,
		CustomerID:     pr.CustomerID,
		StoreID:        pr.StoreID,
		Method:         finance.RefundMethod(req.Method),
		AmountMode:     finance.RefundAmountMode(req.AmountMode),
		Amount:         amount,
		Percentage:     req.Percentage,
		OriginalAmount: pr.TotalRefundAmount,
		ProcessingFee:  fee,
		Notes:          req.Notes,
		InitiatedBy:    actorID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.refundRepo.Save(ctx, refund); err != nil {
		return nil, fmt.Errorf("saving refund: %w", err)
	}

	s.publishEvents(refund)
	s.logger.Info("refund created",
		zap.String("refund_number", refund.RefundNumber),
		zap.String("return_number", pr.ReturnNumber),
		zap.String("method", string(refund.Method)),
		zap.String("amount", refund.Amount.StringFixed(2)))

	response := ToRefundResponse(refund)
	return &response, nil
}

// GetByID retrieves a refund
func (s *RefundService) GetByID(ctx context.Context, refundID uuid.UUID) (*RefundResponse, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	response := ToRefundResponse(refund)
	return &response, nil
}

// ListByReturn retrieves all refunds against a return
func (s *RefundService) ListByReturn(ctx context.Context, returnID uuid.UUID) ([]RefundResponse, error) {
	refunds, err := s.refundRepo.FindByReturnID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	responses := make([]RefundResponse, 0, len(refunds))
	for idx := range refunds {
		responses = append(responses, ToRefundResponse(&refunds[idx]))
	}
	return responses, nil
}

// List retrieves refunds matching the filter, with the total count
func (s *RefundService) List(ctx context.Context, filter ListRefundsFilter) ([]RefundResponse, int64, error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	repoFilter.Filters = filter.ToFilter()

	refunds, err := s.refundRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.refundRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RefundResponse, 0, len(refunds))
	for idx := range refunds {
		responses = append(responses, ToRefundResponse(&refunds[idx]))
	}
	return responses, total, nil
}

// Process moves a pending refund to processing
func (s *RefundService) Process(ctx context.Context, refundID, actorID uuid.UUID) (*RefundResponse, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}

	if err := refund.Process(actorID); err != nil {
		return nil, err
	}

	if err := s.refundRepo.SaveWithLock(ctx, refund); err != nil {
		return nil, err
	}

	s.publishEvents(refund)
	response := ToRefundResponse(refund)
	return &response, nil
}

// Complete finishes a processing refund. In one database transaction it
// marks the refund completed, posts the balanced cash/revenue pair, and,
// when completed refunds now cover the return's refundable amount, marks
// the return refunded.
func (s *RefundService) Complete(ctx context.Context, refundID, actorID uuid.UUID, req CompleteRefundRequest) (*RefundResponse, error) {
	cashAccount, revenueAccount, err := s.resolveAccounts(ctx, refundID)
	if err != nil {
		return nil, err
	}

	var refund *finance.Refund

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		refund, err = repos.RefundRepo().FindByID(ctx, refundID)
		if err != nil {
			return err
		}

		if err := refund.Complete(req.GatewayReference); err != nil {
			return err
		}

		pair, err := finance.NewRefundPostingPair(refund, cashAccount.ID, revenueAccount.ID, actorID)
		if err != nil {
			return err
		}
		for _, entry := range pair.Entries() {
			if err := repos.TransactionRepo().Save(ctx, entry); err != nil {
				return fmt.Errorf("posting ledger entry %s: %w", entry.TransactionNumber, err)
			}
		}

		if err := repos.RefundRepo().SaveWithLock(ctx, refund); err != nil {
			return err
		}

		completed, err := repos.RefundRepo().SumCompletedAmountByReturn(ctx, refund.ReturnID)
		if err != nil {
			return fmt.Errorf("summing completed refunds: %w", err)
		}

		pr, err := repos.ReturnRepo().FindByID(ctx, refund.ReturnID)
		if err != nil {
			return err
		}
		if pr.TotalRefundAmount.Sub(completed).Abs().LessThan(finance.BalanceTolerance) && pr.IsCompleted() {
			if err := pr.MarkRefunded(); err != nil {
				return err
			}
			if err := repos.ReturnRepo().SaveWithLock(ctx, pr); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(refund)
	s.cache.InvalidateTrialBalance(ctx)
	s.logger.Info("refund completed",
		zap.String("refund_number", refund.RefundNumber),
		zap.String("amount", refund.Amount.StringFixed(2)),
		zap.String("completed_by", actorID.String()))

	response := ToRefundResponse(refund)
	return &response, nil
}

// resolveAccounts loads the posting targets before opening the completion
// transaction; account lookups are read-only and cacheable.
func (s *RefundService) resolveAccounts(ctx context.Context, refundID uuid.UUID) (*finance.Account, *finance.Account, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, nil, err
	}

	cashAccount, err := s.accounts.CashAccountFor(ctx, refund.StoreID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving cash account: %w", err)
	}
	revenueAccount, err := s.accounts.SalesRevenueAccount(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving revenue account: %w", err)
	}
	return cashAccount, revenueAccount, nil
}

// Fail marks a processing refund as failed
func (s *RefundService) Fail(ctx context.Context, refundID uuid.UUID, req FailRefundRequest) (*RefundResponse, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}

	if err := refund.Fail(req.Reason); err != nil {
		return nil, err
	}

	if err := s.refundRepo.SaveWithLock(ctx, refund); err != nil {
		return nil, err
	}

	s.publishEvents(refund)
	s.logger.Warn("refund failed",
		zap.String("refund_number", refund.RefundNumber),
		zap.String("reason", req.Reason))

	response := ToRefundResponse(refund)
	return &response, nil
}

// Cancel cancels a pending or processing refund
func (s *RefundService) Cancel(ctx context.Context, refundID, actorID uuid.UUID, req CancelRefundRequest) (*RefundResponse, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}

	if err := refund.Cancel(actorID, req.Reason); err != nil {
		return nil, err
	}

	if err := s.refundRepo.SaveWithLock(ctx, refund); err != nil {
		return nil, err
	}

	s.publishEvents(refund)
	response := ToRefundResponse(refund)
	return &response, nil
}

// GetStatistics aggregates refund activity over a period
func (s *RefundService) GetStatistics(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (*finance.RefundStatistics, error) {
	return s.refundRepo.GetStatistics(ctx, storeID, from, to)
}

func (s *RefundService) publishEvents(refund *finance.Refund) {
	events := refund.GetDomainEvents()
	if len(events) > 0 {
		s.publisher.Publish(events...)
		refund.ClearDomainEvents()
	}
}
