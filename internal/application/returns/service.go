package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/returns"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
)

// ReturnService handles the product return lifecycle
type ReturnService struct {
	returnRepo returns.ProductReturnRepository
	orderRead  returns.OrderReader
	numbers    shared.NumberGenerator
	txScope    TransactionScope
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewReturnService creates a ReturnService
func NewReturnService(
	returnRepo returns.ProductReturnRepository,
	orderRead returns.OrderReader,
	numbers shared.NumberGenerator,
	txScope TransactionScope,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		orderRead:  orderRead,
		numbers:    numbers,
		txScope:    txScope,
		publisher:  shared.NoOpEventPublisher{},
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create validates a return request against the order and the quantities
// already returned, then persists a pending return.
func (s *ReturnService) Create(ctx context.Context, actorID uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	order, err := s.orderRead.GetOrderForReturn(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.Returnable {
		return nil, shared.NewDomainError("ORDER_NOT_RETURNABLE", "Order is not in a returnable state")
	}

	alreadyReturned, err := s.returnRepo.GetReturnedQuantities(ctx, order.OrderID)
	if err != nil {
		return nil, fmt.Errorf("loading returned quantities: %w", err)
	}

	returnNumber, err := s.numbers.Next(ctx, shared.ReturnNumberPrefix, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generating return number: %w", err)
	}

	pr, err := returns.NewProductReturn(
		returnNumber,
		order.OrderID,
		order.OrderNumber,
		order.CustomerID,
		order.StoreID,
		returns.ReturnType(req.Type),
		returns.ReturnReason(req.Reason),
		req.ReasonDetail,
		actorID,
	)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		line := findOrderLine(order, input.OrderItemID)
		if line == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found: "+input.OrderItemID.String())
		}

		remaining := line.Quantity.Sub(alreadyReturned[input.OrderItemID])
		if input.Quantity.GreaterThan(remaining) {
			return nil, shared.NewDomainError("QUANTITY_EXCEEDS_RETURNABLE",
				fmt.Sprintf("Requested quantity %s exceeds returnable quantity %s for order item %s",
					input.Quantity, remaining, input.OrderItemID))
		}

		if _, err := pr.AddItem(
			line.OrderItemID,
			line.ProductID,
			input.BatchID,
			line.ProductName,
			line.ProductSKU,
			input.Quantity,
			valueobject.NewMoneyUSD(line.UnitPrice),
			returns.ItemCondition(input.Condition),
			input.Notes,
		); err != nil {
			return nil, err
		}
	}

	if err := s.returnRepo.Save(ctx, pr); err != nil {
		return nil, fmt.Errorf("saving return: %w", err)
	}

	s.publishEvents(pr)
	s.logger.Info("return created",
		zap.String("return_number", pr.ReturnNumber),
		zap.String("order_id", pr.OrderID.String()),
		zap.String("requested_by", actorID.String()))

	response := ToReturnResponse(pr)
	return &response, nil
}

func findOrderLine(order *returns.OrderSummary, orderItemID uuid.UUID) *returns.OrderLine {
	for idx := range order.Lines {
		if order.Lines[idx].OrderItemID == orderItemID {
			return &order.Lines[idx]
		}
	}
	return nil
}

// GetByID retrieves a return with its items
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	pr, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(pr)
	return &response, nil
}

// List retrieves returns matching the filter, with the total count
func (s *ReturnService) List(ctx context.Context, filter ListReturnsFilter) ([]ReturnResponse, int64, error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	repoFilter.Filters = filter.ToFilter()

	items, err := s.returnRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.returnRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReturnResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToReturnResponse(&items[idx]))
	}
	return responses, total, nil
}

// RecordQualityCheck records an inspection outcome on a pending or
// approved return
func (s *ReturnService) RecordQualityCheck(ctx context.Context, returnID, actorID uuid.UUID, req QualityCheckRequest) (*ReturnResponse, error) {
	pr, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := pr.RecordQualityCheck(req.Passed, req.Notes, actorID, req.Fee, req.RefundAmount); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, pr); err != nil {
		return nil, err
	}

	s.publishEvents(pr)
	response := ToReturnResponse(pr)
	return &response, nil
}

// Approve moves a quality-checked return to approved
func (s *ReturnService) Approve(ctx context.Context, returnID, actorID uuid.UUID, req ApproveReturnRequest) (*ReturnResponse, error) {
	pr, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := pr.Approve(actorID, req.RefundAmount, req.Fee); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, pr); err != nil {
		return nil, err
	}

	s.publishEvents(pr)
	s.logger.Info("return approved",
		zap.String("return_number", pr.ReturnNumber),
		zap.String("approved_by", actorID.String()),
		zap.String("refund_amount", pr.TotalRefundAmount.StringFixed(2)))

	response := ToReturnResponse(pr)
	return &response, nil
}

// Reject moves a pending or approved return to rejected
func (s *ReturnService) Reject(ctx context.Context, returnID, actorID uuid.UUID, req RejectReturnRequest) (*ReturnResponse, error) {
	pr, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := pr.Reject(actorID, req.Reason); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, pr); err != nil {
		return nil, err
	}

	s.publishEvents(pr)
	s.logger.Info("return rejected",
		zap.String("return_number", pr.ReturnNumber),
		zap.String("rejected_by", actorID.String()))

	response := ToReturnResponse(pr)
	return &response, nil
}

// Process moves an approved return to processing and restores inventory.
// The status change, batch increments, and movement records commit in one
// database transaction. An item pointing at a batch that no longer exists
// is skipped with a warning; the rest of the restoration still happens.
func (s *ReturnService) Process(ctx context.Context, returnID, actorID uuid.UUID) (*ReturnResponse, error) {
	var pr *returns.ProductReturn

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		pr, err = repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		if err := pr.StartProcessing(actorID); err != nil {
			return err
		}

		for _, item := range pr.Items {
			if item.BatchID == nil {
				continue
			}

			err := repos.BatchRepo().IncrementQuantity(ctx, *item.BatchID, item.Quantity)
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("batch missing during return processing, skipping stock restore",
					zap.String("return_number", pr.ReturnNumber),
					zap.String("batch_id", item.BatchID.String()),
					zap.String("product_id", item.ProductID.String()))
				continue
			}
			if err != nil {
				return fmt.Errorf("restoring batch %s: %w", item.BatchID, err)
			}

			movement, err := inventory.NewReturnMovement(
				item.ProductID,
				item.BatchID,
				pr.StoreID,
				item.Quantity,
				item.UnitPrice,
				pr.ID,
				actorID,
			)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Save(ctx, movement); err != nil {
				return fmt.Errorf("recording stock movement: %w", err)
			}
		}

		return repos.ReturnRepo().SaveWithLock(ctx, pr)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(pr)
	s.logger.Info("return processing, inventory restored",
		zap.String("return_number", pr.ReturnNumber),
		zap.Int("item_count", pr.ItemCount()))

	response := ToReturnResponse(pr)
	return &response, nil
}

// Complete moves a processing return to completed
func (s *ReturnService) Complete(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	pr, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := pr.Complete(); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, pr); err != nil {
		return nil, err
	}

	s.publishEvents(pr)
	response := ToReturnResponse(pr)
	return &response, nil
}

// GetStatistics aggregates return activity over a period
func (s *ReturnService) GetStatistics(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (*returns.ReturnStatistics, error) {
	return s.returnRepo.GetStatistics(ctx, storeID, from, to)
}

func (s *ReturnService) publishEvents(pr *returns.ProductReturn) {
	events := pr.GetDomainEvents()
	if len(events) > 0 {
		s.publisher.Publish(events...)
		pr.ClearDomainEvents()
	}
}
