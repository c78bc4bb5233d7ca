package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// GormProductBatchRepository is the GORM implementation of ProductBatchRepository
type GormProductBatchRepository struct {
	db *gorm.DB
}

// NewGormProductBatchRepository creates a new GormProductBatchRepository
func NewGormProductBatchRepository(db *gorm.DB) *GormProductBatchRepository {
	return &GormProductBatchRepository{db: db}
}

var _ inventory.ProductBatchRepository = (*GormProductBatchRepository)(nil)

// FindByID finds a batch by ID
func (r *GormProductBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductBatch, error) {
	var batch inventory.ProductBatch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct finds all batches of a product in a store
func (r *GormProductBatchRepository) FindByProduct(ctx context.Context, productID, storeID uuid.UUID) ([]inventory.ProductBatch, error) {
	var batches []inventory.ProductBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		Order("created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch
func (r *GormProductBatchRepository) Save(ctx context.Context, batch *inventory.ProductBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// IncrementQuantity atomically adjusts a batch quantity in the database.
// Returns shared.ErrNotFound when the batch row no longer exists.
func (r *GormProductBatchRepository) IncrementQuantity(ctx context.Context, batchID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.ProductBatch{}).
		Where("id = ?", batchID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormStockMovementRepository is the GORM implementation of StockMovementRepository
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)

// Save appends a movement. Movements are never updated or deleted.
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByReference finds movements for a source document
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByProductInPeriod finds movements of a product over a period
func (r *GormStockMovementRepository) FindByProductInPeriod(ctx context.Context, productID uuid.UUID, from, to time.Time) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND created_at >= ? AND created_at <= ?",
			productID, from, to).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
