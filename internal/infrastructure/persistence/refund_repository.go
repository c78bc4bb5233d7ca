package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/finance"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormRefundRepository is the GORM implementation of RefundRepository
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GormRefundRepository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

var _ finance.RefundRepository = (*GormRefundRepository)(nil)

// FindByID finds a refund by ID
func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Refund, error) {
	var refund finance.Refund
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&refund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &refund, nil
}

// FindByRefundNumber finds a refund by its document number
func (r *GormRefundRepository) FindByRefundNumber(ctx context.Context, refundNumber string) (*finance.Refund, error) {
	var refund finance.Refund
	if err := r.db.WithContext(ctx).Where("refund_number = ?", refundNumber).First(&refund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &refund, nil
}

// FindByReturnID finds all refunds against a return, oldest first
func (r *GormRefundRepository) FindByReturnID(ctx context.Context, returnID uuid.UUID) ([]finance.Refund, error) {
	var refunds []finance.Refund
	if err := r.db.WithContext(ctx).
		Where("return_id = ?", returnID).
		Order("created_at ASC").
		Find(&refunds).Error; err != nil {
		return nil, err
	}
	return refunds, nil
}

// FindAll finds refunds matching the filter
func (r *GormRefundRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Refund, error) {
	var refunds []finance.Refund
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Refund{}), filter)
	if err := query.Find(&refunds).Error; err != nil {
		return nil, err
	}
	return refunds, nil
}

// Count counts refunds matching the filter
func (r *GormRefundRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&finance.Refund{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a refund
func (r *GormRefundRepository) Save(ctx context.Context, refund *finance.Refund) error {
	return r.db.WithContext(ctx).Save(refund).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormRefundRepository) SaveWithLock(ctx context.Context, refund *finance.Refund) error {
	currentVersion := refund.Version
	refund.Version++
	refund.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&finance.Refund{}).
		Where("id = ? AND version = ?", refund.ID, currentVersion).
		Updates(map[string]any{
			"status":            refund.Status,
			"gateway_reference": refund.GatewayReference,
			"failure_reason":    refund.FailureReason,
			"cancel_reason":     refund.CancelReason,
			"processed_by":      refund.ProcessedBy,
			"processed_at":      refund.ProcessedAt,
			"completed_at":      refund.CompletedAt,
			"failed_at":         refund.FailedAt,
			"cancelled_by":      refund.CancelledBy,
			"cancelled_at":      refund.CancelledAt,
			"version":           refund.Version,
			"updated_at":        refund.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		refund.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SumCountedAmountByReturn totals amounts of refunds that consume the
// return's capacity (everything except failed and cancelled).
func (r *GormRefundRepository) SumCountedAmountByReturn(ctx context.Context, returnID uuid.UUID) (decimal.Decimal, error) {
	return r.sumByReturn(ctx, returnID,
		"status NOT IN ?", []string{string(finance.RefundStatusFailed), string(finance.RefundStatusCancelled)})
}

// SumCompletedAmountByReturn totals completed refund amounts only
func (r *GormRefundRepository) SumCompletedAmountByReturn(ctx context.Context, returnID uuid.UUID) (decimal.Decimal, error) {
	return r.sumByReturn(ctx, returnID, "status = ?", string(finance.RefundStatusCompleted))
}

func (r *GormRefundRepository) sumByReturn(ctx context.Context, returnID uuid.UUID, cond string, arg any) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&finance.Refund{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("return_id = ?", returnID).
		Where(cond, arg).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// refundStatsRow is the scan target for GetStatistics
type refundStatsRow struct {
	Status string
	Method string
	Count  int64
	Amount decimal.Decimal
}

// GetStatistics aggregates counts and amounts for a period
func (r *GormRefundRepository) GetStatistics(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (*finance.RefundStatistics, error) {
	query := r.db.WithContext(ctx).
		Model(&finance.Refund{}).
		Select("status, method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("status, method")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var rows []refundStatsRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &finance.RefundStatistics{
		CountByStatus:   make(map[finance.RefundStatus]int64),
		CountByMethod:   make(map[finance.RefundMethod]int64),
		CompletedAmount: decimal.Zero,
		PendingAmount:   decimal.Zero,
	}
	for _, row := range rows {
		stats.TotalCount += row.Count
		stats.CountByStatus[finance.RefundStatus(row.Status)] += row.Count
		stats.CountByMethod[finance.RefundMethod(row.Method)] += row.Count
		switch finance.RefundStatus(row.Status) {
		case finance.RefundStatusCompleted:
			stats.CompletedAmount = stats.CompletedAmount.Add(row.Amount)
		case finance.RefundStatusPending, finance.RefundStatusProcessing:
			stats.PendingAmount = stats.PendingAmount.Add(row.Amount)
		}
	}
	return stats, nil
}

func (r *GormRefundRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormRefundRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("refund_number ILIKE ? OR return_number ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "return_id":
			query = query.Where("return_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "date_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "date_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}
