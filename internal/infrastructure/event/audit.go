package event

import (
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/finance"
	"github.com/retailops/backend/internal/domain/returns"
	"github.com/retailops/backend/internal/domain/shared"
)

// AuditLogHandler writes every return and refund lifecycle event to the
// structured log, giving operators a queryable audit trail without a
// dedicated event store.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// EventTypes implements Handler
func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		returns.EventTypeReturnRequested,
		returns.EventTypeReturnQualityChecked,
		returns.EventTypeReturnApproved,
		returns.EventTypeReturnRejected,
		returns.EventTypeReturnProcessing,
		returns.EventTypeReturnCompleted,
		returns.EventTypeReturnRefunded,
		finance.EventTypeRefundCreated,
		finance.EventTypeRefundProcessing,
		finance.EventTypeRefundCompleted,
		finance.EventTypeRefundFailed,
		finance.EventTypeRefundCancelled,
	}
}

// Handle implements Handler
func (h *AuditLogHandler) Handle(evt shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

var _ Handler = (*AuditLogHandler)(nil)
