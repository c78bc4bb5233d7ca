package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/returns"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
)

// setupReturnTestDB creates an in-memory SQLite database for testing
func setupReturnTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Create product_returns table
	err = db.Exec(`
		CREATE TABLE product_returns (
			id TEXT PRIMARY KEY,
			return_number TEXT NOT NULL UNIQUE,
			order_id TEXT NOT NULL,
			order_number TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			store_id TEXT NOT NULL,
			type TEXT NOT NULL,
			reason TEXT NOT NULL,
			reason_detail TEXT,
			status TEXT NOT NULL,
			total_return_value NUMERIC NOT NULL DEFAULT 0,
			total_refund_amount NUMERIC NOT NULL DEFAULT 0,
			processing_fee NUMERIC NOT NULL DEFAULT 0,
			quality_check_passed INTEGER,
			quality_check_notes TEXT,
			quality_checked_by TEXT,
			quality_checked_at DATETIME,
			received_at_store INTEGER NOT NULL DEFAULT 0,
			requested_at DATETIME NOT NULL,
			approved_by TEXT,
			approved_at DATETIME,
			rejected_by TEXT,
			rejected_at DATETIME,
			rejection_reason TEXT,
			processed_by TEXT,
			processed_at DATETIME,
			completed_at DATETIME,
			refunded_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_by TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	// Create product_return_items table
	err = db.Exec(`
		CREATE TABLE product_return_items (
			id TEXT PRIMARY KEY,
			return_id TEXT NOT NULL,
			order_item_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			batch_id TEXT,
			product_name TEXT,
			product_sku TEXT,
			quantity NUMERIC NOT NULL,
			unit_price NUMERIC NOT NULL,
			line_value NUMERIC NOT NULL,
			condition TEXT NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

// buildTestReturn creates a pending return with two line items
func buildTestReturn(t *testing.T, returnNumber string) *returns.ProductReturn {
	t.Helper()

	pr, err := returns.NewProductReturn(
		returnNumber,
		uuid.New(),
		"SO-20260829-0001",
		uuid.New(),
		uuid.New(),
		returns.ReturnTypeCustomer,
		returns.ReasonDefectiveProduct,
		"Screen flickers on startup",
		uuid.New(),
	)
	require.NoError(t, err)

	_, err = pr.AddItem(uuid.New(), uuid.New(), nil, "27in Monitor", "MON-27",
		decimal.NewFromInt(2), valueobject.NewMoneyUSD(decimal.NewFromFloat(149.99)),
		returns.ConditionDefective, "")
	require.NoError(t, err)

	_, err = pr.AddItem(uuid.New(), uuid.New(), nil, "HDMI Cable", "CBL-HDMI-2M",
		decimal.NewFromInt(1), valueobject.NewMoneyUSD(decimal.NewFromFloat(12.50)),
		returns.ConditionNew, "Unopened")
	require.NoError(t, err)

	return pr
}

func TestGormProductReturnRepository_SaveAndFindByID(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)
	ctx := context.Background()

	pr := buildTestReturn(t, "RET-20260829-0001")
	require.NoError(t, repo.Save(ctx, pr))

	retrieved, err := repo.FindByID(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, pr.ID, retrieved.ID)
	assert.Equal(t, "RET-20260829-0001", retrieved.ReturnNumber)
	assert.Equal(t, returns.ReturnStatusPending, retrieved.Status)
	require.Len(t, retrieved.Items, 2)
	assert.True(t, retrieved.TotalReturnValue.Equal(decimal.NewFromFloat(312.48)),
		"expected 312.48, got %s", retrieved.TotalReturnValue)
	assert.True(t, retrieved.TotalRefundAmount.Equal(retrieved.TotalReturnValue))
}

func TestGormProductReturnRepository_FindByID_NotFound(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormProductReturnRepository_FindByReturnNumber(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)
	ctx := context.Background()

	pr := buildTestReturn(t, "RET-20260829-0007")
	require.NoError(t, repo.Save(ctx, pr))

	retrieved, err := repo.FindByReturnNumber(ctx, "RET-20260829-0007")
	require.NoError(t, err)
	assert.Equal(t, pr.ID, retrieved.ID)
	require.Len(t, retrieved.Items, 2)

	_, err = repo.FindByReturnNumber(ctx, "RET-20260829-9999")
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormProductReturnRepository_FindAllAndCount(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)
	ctx := context.Background()

	first := buildTestReturn(t, "RET-20260829-0001")
	require.NoError(t, repo.Save(ctx, first))

	second := buildTestReturn(t, "RET-20260829-0002")
	require.NoError(t, second.RecordQualityCheck(true, "All good", uuid.New(), nil, nil))
	require.NoError(t, second.Approve(uuid.New(), nil, nil))
	require.NoError(t, repo.Save(ctx, second))

	all, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := repo.FindAll(ctx, shared.Filter{
		Page:     1,
		PageSize: 10,
		Filters:  map[string]interface{}{"status": string(returns.ReturnStatusPending)},
	})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	count, err := repo.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{"status": string(returns.ReturnStatusApproved)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormProductReturnRepository_SaveWithLock(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)
	ctx := context.Background()

	pr := buildTestReturn(t, "RET-20260829-0003")
	require.NoError(t, repo.Save(ctx, pr))

	require.NoError(t, pr.RecordQualityCheck(true, "Verified defect", uuid.New(), nil, nil))
	require.NoError(t, pr.Approve(uuid.New(), nil, nil))
	require.NoError(t, repo.SaveWithLock(ctx, pr))
	assert.Equal(t, 2, pr.Version)

	retrieved, err := repo.FindByID(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, returns.ReturnStatusApproved, retrieved.Status)
	assert.Equal(t, 2, retrieved.Version)
}

func TestGormProductReturnRepository_SaveWithLock_Conflict(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)
	ctx := context.Background()

	pr := buildTestReturn(t, "RET-20260829-0004")
	require.NoError(t, repo.Save(ctx, pr))

	stale, err := repo.FindByID(ctx, pr.ID)
	require.NoError(t, err)

	// First writer wins
	require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
	require.NoError(t, repo.SaveWithLock(ctx, pr))

	// Second writer holds the old version
	require.NoError(t, stale.Reject(uuid.New(), "Outside return window"))
	err = repo.SaveWithLock(ctx, stale)
	assert.Equal(t, shared.ErrConcurrencyConflict, err)
	assert.Equal(t, 1, stale.Version, "version rolls back on conflict")
}

func TestGormProductReturnRepository_GetReturnedQuantities(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	orderItemID := uuid.New()

	makeReturn := func(returnNumber string, qty int64) *returns.ProductReturn {
		pr, err := returns.NewProductReturn(returnNumber, orderID, "SO-20260829-0002",
			uuid.New(), uuid.New(), returns.ReturnTypeCustomer, returns.ReasonChangedMind, "",
			uuid.New())
		require.NoError(t, err)
		_, err = pr.AddItem(orderItemID, uuid.New(), nil, "Desk Lamp", "LAMP-01",
			decimal.NewFromInt(qty), valueobject.NewMoneyUSD(decimal.NewFromFloat(39.99)),
			returns.ConditionOpened, "")
		require.NoError(t, err)
		return pr
	}

	active := makeReturn("RET-20260829-0005", 2)
	require.NoError(t, repo.Save(ctx, active))

	rejected := makeReturn("RET-20260829-0006", 3)
	require.NoError(t, rejected.Reject(uuid.New(), "Item shows heavy wear"))
	require.NoError(t, repo.Save(ctx, rejected))

	quantities, err := repo.GetReturnedQuantities(ctx, orderID)
	require.NoError(t, err)
	require.Contains(t, quantities, orderItemID)
	assert.True(t, quantities[orderItemID].Equal(decimal.NewFromInt(2)),
		"rejected returns release their quantities, got %s", quantities[orderItemID])
}

func TestGormProductReturnRepository_GetStatistics(t *testing.T) {
	db := setupReturnTestDB(t)
	repo := NewGormProductReturnRepository(db)
	ctx := context.Background()

	first := buildTestReturn(t, "RET-20260829-0008")
	require.NoError(t, repo.Save(ctx, first))

	second := buildTestReturn(t, "RET-20260829-0009")
	require.NoError(t, second.Reject(uuid.New(), "Not eligible"))
	require.NoError(t, repo.Save(ctx, second))

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	stats, err := repo.GetStatistics(ctx, nil, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCount)
	assert.Equal(t, int64(1), stats.CountByStatus[returns.ReturnStatusPending])
	assert.Equal(t, int64(1), stats.CountByStatus[returns.ReturnStatusRejected])
	assert.True(t, stats.TotalReturnValue.Equal(decimal.NewFromFloat(624.96)),
		"expected 624.96, got %s", stats.TotalReturnValue)

	// Store filter excludes both returns
	otherStore := uuid.New()
	stats, err = repo.GetStatistics(ctx, &otherStore, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalCount)
}
