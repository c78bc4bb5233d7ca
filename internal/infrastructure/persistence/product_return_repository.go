package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/returns"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormProductReturnRepository is the GORM implementation of ProductReturnRepository
type GormProductReturnRepository struct {
	db *gorm.DB
}

// NewGormProductReturnRepository creates a new GormProductReturnRepository
func NewGormProductReturnRepository(db *gorm.DB) *GormProductReturnRepository {
	return &GormProductReturnRepository{db: db}
}

var _ returns.ProductReturnRepository = (*GormProductReturnRepository)(nil)

// FindByID finds a product return by ID, with items
func (r *GormProductReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ProductReturn, error) {
	var pr returns.ProductReturn
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&pr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// FindByReturnNumber finds a product return by its document number
func (r *GormProductReturnRepository) FindByReturnNumber(ctx context.Context, returnNumber string) (*returns.ProductReturn, error) {
	var pr returns.ProductReturn
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("return_number = ?", returnNumber).
		First(&pr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// FindAll finds product returns matching the filter
func (r *GormProductReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ProductReturn, error) {
	var items []returns.ProductReturn
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&returns.ProductReturn{}).Preload("Items"),
		filter,
	)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts product returns matching the filter
func (r *GormProductReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&returns.ProductReturn{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product return with its items
func (r *GormProductReturnRepository) Save(ctx context.Context, pr *returns.ProductReturn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(pr).Error; err != nil {
			return err
		}
		for idx := range pr.Items {
			if err := tx.Save(&pr.Items[idx]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check). Items are
// immutable after creation, so only the header is updated.
func (r *GormProductReturnRepository) SaveWithLock(ctx context.Context, pr *returns.ProductReturn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := pr.Version
		pr.Version++
		pr.UpdatedAt = time.Now()

		result := tx.Model(&returns.ProductReturn{}).
			Where("id = ? AND version = ?", pr.ID, currentVersion).
			Updates(map[string]any{
				"status":               pr.Status,
				"total_return_value":   pr.TotalReturnValue,
				"total_refund_amount":  pr.TotalRefundAmount,
				"quality_check_passed": pr.QualityCheckPassed,
				"quality_check_notes":  pr.QualityCheckNotes,
				"quality_checked_by":   pr.QualityCheckedBy,
				"quality_checked_at":   pr.QualityCheckedAt,
				"received_at_store":    pr.ReceivedAtStore,
				"approved_by":          pr.ApprovedBy,
				"approved_at":          pr.ApprovedAt,
				"rejected_by":          pr.RejectedBy,
				"rejected_at":          pr.RejectedAt,
				"rejection_reason":     pr.RejectionReason,
				"processed_by":         pr.ProcessedBy,
				"processed_at":         pr.ProcessedAt,
				"completed_at":         pr.CompletedAt,
				"refunded_at":          pr.RefundedAt,
				"version":              pr.Version,
				"updated_at":           pr.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			pr.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// returnedQuantityRow is the scan target for GetReturnedQuantities
type returnedQuantityRow struct {
	OrderItemID uuid.UUID
	Total       decimal.Decimal
}

// GetReturnedQuantities sums returned quantity per order item across all
// non-rejected returns for the order. Rejected returns release their
// quantities back to the returnable pool.
func (r *GormProductReturnRepository) GetReturnedQuantities(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []returnedQuantityRow
	err := r.db.WithContext(ctx).
		Model(&returns.ProductReturnItem{}).
		Select("product_return_items.order_item_id AS order_item_id, COALESCE(SUM(product_return_items.quantity), 0) AS total").
		Joins("JOIN product_returns ON product_returns.id = product_return_items.return_id").
		Where("product_returns.order_id = ? AND product_returns.status <> ?", orderID, returns.ReturnStatusRejected).
		Group("product_return_items.order_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.OrderItemID] = row.Total
	}
	return result, nil
}

// statisticsRow is the scan target for GetStatistics
type statisticsRow struct {
	Status      string
	Count       int64
	ReturnValue decimal.Decimal
	RefundValue decimal.Decimal
}

// GetStatistics aggregates counts and value totals for a period
func (r *GormProductReturnRepository) GetStatistics(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (*returns.ReturnStatistics, error) {
	query := r.db.WithContext(ctx).
		Model(&returns.ProductReturn{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_return_value), 0) AS return_value, COALESCE(SUM(total_refund_amount), 0) AS refund_value").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("status")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var rows []statisticsRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &returns.ReturnStatistics{
		CountByStatus:    make(map[returns.ReturnStatus]int64),
		TotalReturnValue: decimal.Zero,
		TotalRefundValue: decimal.Zero,
	}
	for _, row := range rows {
		stats.TotalCount += row.Count
		stats.CountByStatus[returns.ReturnStatus(row.Status)] = row.Count
		stats.TotalReturnValue = stats.TotalReturnValue.Add(row.ReturnValue)
		stats.TotalRefundValue = stats.TotalRefundValue.Add(row.RefundValue)
	}
	return stats, nil
}

func (r *GormProductReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

func (r *GormProductReturnRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("return_number ILIKE ? OR order_number ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
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
