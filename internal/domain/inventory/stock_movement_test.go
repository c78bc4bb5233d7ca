package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnMovement(t *testing.T) {
	t.Run("records inflow valued at sale price", func(t *testing.T) {
		productID := uuid.New()
		returnID := uuid.New()
		batchID := uuid.New()

		m, err := NewReturnMovement(productID, &batchID, uuid.New(),
			decimal.NewFromInt(3), decimal.NewFromFloat(19.99), returnID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, MovementReturn, m.Type)
		assert.Equal(t, "return", m.ReferenceType)
		assert.Equal(t, returnID, m.ReferenceID)
		assert.Equal(t, batchID, *m.BatchID)
		assert.True(t, m.TotalCost.Equal(decimal.NewFromFloat(59.97)), "got %s", m.TotalCost)
		assert.False(t, m.MovedAt.IsZero())
	})

	t.Run("allows nil batch for untracked products", func(t *testing.T) {
		m, err := NewReturnMovement(uuid.New(), nil, uuid.New(),
			decimal.NewFromInt(1), decimal.NewFromInt(10), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Nil(t, m.BatchID)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		m, err := NewReturnMovement(uuid.New(), nil, uuid.New(),
			decimal.Zero, decimal.NewFromInt(10), uuid.New(), uuid.New())
		assert.Nil(t, m)
		assert.Error(t, err)
	})

	t.Run("rejects missing return reference", func(t *testing.T) {
		m, err := NewReturnMovement(uuid.New(), nil, uuid.New(),
			decimal.NewFromInt(1), decimal.NewFromInt(10), uuid.Nil, uuid.New())
		assert.Nil(t, m)
		assert.Error(t, err)
	})
}

func TestNewAdjustmentMovement(t *testing.T) {
	t.Run("records signed quantity with absolute cost", func(t *testing.T) {
		m, err := NewAdjustmentMovement(uuid.New(), nil, uuid.New(),
			decimal.NewFromInt(-4), decimal.NewFromInt(5), "shrinkage after count", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, MovementAdjustment, m.Type)
		assert.True(t, m.Quantity.Equal(decimal.NewFromInt(-4)))
		assert.True(t, m.TotalCost.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, "shrinkage after count", m.Notes)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		m, err := NewAdjustmentMovement(uuid.New(), nil, uuid.New(),
			decimal.Zero, decimal.Zero, "", uuid.New())
		assert.Nil(t, m)
		assert.Error(t, err)
	})
}

func TestMovementType(t *testing.T) {
	assert.True(t, MovementReturn.IsInflow())
	assert.True(t, MovementPurchase.IsInflow())
	assert.False(t, MovementSale.IsInflow())
	assert.False(t, MovementAdjustment.IsInflow())

	assert.True(t, MovementReturn.IsValid())
	assert.False(t, MovementType("teleport").IsValid())
}
