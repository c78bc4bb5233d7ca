package returns

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/domain/shared/valueobject"
)

// Helper function to create a pending return with two line items
func createTestReturn(t *testing.T) *ProductReturn {
	pr, err := NewProductReturn(
		"RET-20260829-0001",
		uuid.New(), "SO-20260820-0042",
		uuid.New(), uuid.New(),
		ReturnTypeCustomer, ReasonDefectiveProduct, "screen cracked on arrival",
		uuid.New(),
	)
	require.NoError(t, err)

	_, err = pr.AddItem(
		uuid.New(), uuid.New(), nil,
		"Widget A", "WID-A",
		decimal.NewFromInt(2), valueobject.NewMoneyUSD(decimal.NewFromInt(50)),
		ConditionDamaged, "",
	)
	require.NoError(t, err)

	_, err = pr.AddItem(
		uuid.New(), uuid.New(), nil,
		"Widget B", "WID-B",
		decimal.NewFromInt(1), valueobject.NewMoneyUSD(decimal.NewFromInt(25)),
		ConditionNew, "unopened box",
	)
	require.NoError(t, err)

	return pr
}

// Helper function to drive a return to completed status
func createCompletedReturn(t *testing.T) *ProductReturn {
	pr := createTestReturn(t)
	require.NoError(t, pr.RecordQualityCheck(true, "all items verified", uuid.New(), nil, nil))
	require.NoError(t, pr.Approve(uuid.New(), nil, nil))
	require.NoError(t, pr.StartProcessing(uuid.New()))
	require.NoError(t, pr.Complete())
	return pr
}

func TestNewProductReturn(t *testing.T) {
	t.Run("creates pending return", func(t *testing.T) {
		pr, err := NewProductReturn(
			"RET-20260829-0001",
			uuid.New(), "SO-001",
			uuid.New(), uuid.New(),
			ReturnTypeCustomer, ReasonChangedMind, "",
			uuid.New(),
		)
		require.NoError(t, err)
		assert.Equal(t, ReturnStatusPending, pr.Status)
		assert.Equal(t, "RET-20260829-0001", pr.ReturnNumber)
		assert.Equal(t, 0, pr.ItemCount())
		assert.True(t, pr.TotalReturnValue.IsZero())
		assert.True(t, pr.ProcessingFee.IsZero())
		assert.Nil(t, pr.QualityCheckPassed)
		assert.False(t, pr.RequestedAt.IsZero())

		events := pr.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReturnRequested, events[0].EventType())
	})

	t.Run("fails with empty return number", func(t *testing.T) {
		pr, err := NewProductReturn("", uuid.New(), "SO-001", uuid.New(), uuid.New(),
			ReturnTypeCustomer, ReasonDefectiveProduct, "", uuid.New())
		assert.Nil(t, pr)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Return number cannot be empty")
	})

	t.Run("accepts empty return type", func(t *testing.T) {
		pr, err := NewProductReturn("RET-001", uuid.New(), "SO-001", uuid.New(), uuid.New(),
			"", ReasonDefectiveProduct, "", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, ReturnType(""), pr.Type)
	})

	t.Run("fails with unknown return type", func(t *testing.T) {
		pr, err := NewProductReturn("RET-001", uuid.New(), "SO-001", uuid.New(), uuid.New(),
			ReturnType("teleport"), ReasonDefectiveProduct, "", uuid.New())
		assert.Nil(t, pr)
		assert.Error(t, err)
	})

	t.Run("fails with unknown reason", func(t *testing.T) {
		pr, err := NewProductReturn("RET-001", uuid.New(), "SO-001", uuid.New(), uuid.New(),
			ReturnTypeCustomer, ReturnReason("bored"), "", uuid.New())
		assert.Nil(t, pr)
		assert.Error(t, err)
	})

	t.Run("fails with nil actor", func(t *testing.T) {
		pr, err := NewProductReturn("RET-001", uuid.New(), "SO-001", uuid.New(), uuid.New(),
			ReturnTypeCustomer, ReasonDefectiveProduct, "", uuid.Nil)
		assert.Nil(t, pr)
		assert.Error(t, err)
	})
}

func TestProductReturn_AddItem(t *testing.T) {
	t.Run("recalculates totals per item", func(t *testing.T) {
		pr := createTestReturn(t)

		assert.Equal(t, 2, pr.ItemCount())
		// 2 * 50 + 1 * 25
		assert.True(t, pr.TotalReturnValue.Equal(decimal.NewFromInt(125)),
			"got %s", pr.TotalReturnValue)
		assert.True(t, pr.TotalRefundAmount.Equal(decimal.NewFromInt(125)))
	})

	t.Run("rejects duplicate order item", func(t *testing.T) {
		pr := createTestReturn(t)
		orderItemID := pr.Items[0].OrderItemID

		_, err := pr.AddItem(orderItemID, uuid.New(), nil, "Widget A", "WID-A",
			decimal.NewFromInt(1), valueobject.NewMoneyUSD(decimal.NewFromInt(50)),
			ConditionNew, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already present")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		pr := createTestReturn(t)

		_, err := pr.AddItem(uuid.New(), uuid.New(), nil, "Widget C", "WID-C",
			decimal.Zero, valueobject.NewMoneyUSD(decimal.NewFromInt(10)),
			ConditionNew, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("rejects items after approval", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))

		_, err := pr.AddItem(uuid.New(), uuid.New(), nil, "Widget C", "WID-C",
			decimal.NewFromInt(1), valueobject.NewMoneyUSD(decimal.NewFromInt(10)),
			ConditionNew, "")
		assert.Error(t, err)
	})
}

func TestProductReturn_RecordQualityCheck(t *testing.T) {
	t.Run("records inspection outcome", func(t *testing.T) {
		pr := createTestReturn(t)
		inspector := uuid.New()

		err := pr.RecordQualityCheck(true, "minor scuffs only", inspector, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, pr.QualityCheckPassed)
		assert.True(t, *pr.QualityCheckPassed)
		assert.Equal(t, "minor scuffs only", pr.QualityCheckNotes)
		assert.Equal(t, inspector, *pr.QualityCheckedBy)
		assert.NotNil(t, pr.QualityCheckedAt)
	})

	t.Run("may be corrected while pending", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(false, "thought it was broken", uuid.New(), nil, nil))

		err := pr.RecordQualityCheck(true, "works after reseating cable", uuid.New(), nil, nil)
		require.NoError(t, err)
		assert.True(t, *pr.QualityCheckPassed)
	})

	t.Run("may be repeated on an approved return", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))

		err := pr.RecordQualityCheck(false, "box resealed, contents missing", uuid.New(), nil, nil)
		require.NoError(t, err)
		assert.False(t, *pr.QualityCheckPassed)
	})

	t.Run("adjusts fee and refund amount", func(t *testing.T) {
		pr := createTestReturn(t)
		fee := decimal.NewFromInt(10)
		amount := decimal.NewFromInt(100)

		err := pr.RecordQualityCheck(true, "light wear, restocking fee applies", uuid.New(), &fee, &amount)
		require.NoError(t, err)
		assert.True(t, pr.ProcessingFee.Equal(fee))
		assert.True(t, pr.TotalRefundAmount.Equal(amount))
		assert.True(t, pr.TotalReturnValue.Equal(decimal.NewFromInt(125)))
	})

	t.Run("rejects refund amount above total return value", func(t *testing.T) {
		pr := createTestReturn(t)
		amount := decimal.NewFromInt(200)

		err := pr.RecordQualityCheck(true, "", uuid.New(), nil, &amount)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds total return value")
	})

	t.Run("rejects negative fee", func(t *testing.T) {
		pr := createTestReturn(t)
		fee := decimal.NewFromInt(-1)

		err := pr.RecordQualityCheck(true, "", uuid.New(), &fee, nil)
		assert.Error(t, err)
	})

	t.Run("fails once processing started", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))
		require.NoError(t, pr.StartProcessing(uuid.New()))

		err := pr.RecordQualityCheck(false, "", uuid.New(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("fails with nil inspector", func(t *testing.T) {
		pr := createTestReturn(t)
		err := pr.RecordQualityCheck(true, "", uuid.Nil, nil, nil)
		assert.Error(t, err)
	})
}

func TestProductReturn_Approve(t *testing.T) {
	t.Run("approves after passed quality check", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		approver := uuid.New()

		err := pr.Approve(approver, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, ReturnStatusApproved, pr.Status)
		assert.Equal(t, approver, *pr.ApprovedBy)
		assert.True(t, pr.IsApproved())
	})

	t.Run("fails without quality check", func(t *testing.T) {
		pr := createTestReturn(t)

		err := pr.Approve(uuid.New(), nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "quality check")
	})

	t.Run("fails with failed quality check", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(false, "damage beyond resale", uuid.New(), nil, nil))

		err := pr.Approve(uuid.New(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("override may lower the refundable amount", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		lowered := decimal.NewFromInt(100)

		err := pr.Approve(uuid.New(), &lowered, nil)
		require.NoError(t, err)
		assert.True(t, pr.TotalRefundAmount.Equal(lowered))
		assert.True(t, pr.TotalReturnValue.Equal(decimal.NewFromInt(125)))
	})

	t.Run("override may set the processing fee", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		fee := decimal.NewFromInt(15)

		err := pr.Approve(uuid.New(), nil, &fee)
		require.NoError(t, err)
		assert.True(t, pr.ProcessingFee.Equal(fee))
	})

	t.Run("override may not exceed total return value", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		raised := decimal.NewFromInt(200)

		err := pr.Approve(uuid.New(), &raised, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds total return value")
		assert.Equal(t, ReturnStatusPending, pr.Status)
	})

	t.Run("fails on rejected return", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.Reject(uuid.New(), "out of return window"))

		err := pr.Approve(uuid.New(), nil, nil)
		assert.Error(t, err)
	})
}

func TestProductReturn_Reject(t *testing.T) {
	t.Run("rejects with reason", func(t *testing.T) {
		pr := createTestReturn(t)
		rejecter := uuid.New()

		err := pr.Reject(rejecter, "items not eligible for return")
		require.NoError(t, err)
		assert.Equal(t, ReturnStatusRejected, pr.Status)
		assert.Equal(t, "items not eligible for return", pr.RejectionReason)
		assert.True(t, pr.IsTerminal())
	})

	t.Run("requires a reason", func(t *testing.T) {
		pr := createTestReturn(t)
		err := pr.Reject(uuid.New(), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "reason is required")
	})

	t.Run("may reject an approved return", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))

		err := pr.Reject(uuid.New(), "customer withdrew the request")
		require.NoError(t, err)
		assert.Equal(t, ReturnStatusRejected, pr.Status)
	})

	t.Run("fails once processing started", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))
		require.NoError(t, pr.StartProcessing(uuid.New()))

		err := pr.Reject(uuid.New(), "changed my mind")
		assert.Error(t, err)
	})
}

func TestProductReturn_Lifecycle(t *testing.T) {
	t.Run("full happy path to refunded", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))
		require.NoError(t, pr.StartProcessing(uuid.New()))
		assert.Equal(t, ReturnStatusProcessing, pr.Status)
		assert.True(t, pr.IsRefundable())

		require.NoError(t, pr.Complete())
		assert.Equal(t, ReturnStatusCompleted, pr.Status)
		assert.True(t, pr.IsRefundable())
		assert.NotNil(t, pr.CompletedAt)

		require.NoError(t, pr.MarkRefunded())
		assert.Equal(t, ReturnStatusRefunded, pr.Status)
		assert.False(t, pr.IsRefundable())
		assert.True(t, pr.IsTerminal())
		assert.NotNil(t, pr.RefundedAt)
	})

	t.Run("not refundable before processing", func(t *testing.T) {
		pr := createTestReturn(t)
		assert.False(t, pr.IsRefundable())

		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))
		assert.False(t, pr.IsRefundable())
	})

	t.Run("cannot process before approval", func(t *testing.T) {
		pr := createTestReturn(t)
		err := pr.StartProcessing(uuid.New())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot move to")
	})

	t.Run("cannot complete before processing", func(t *testing.T) {
		pr := createTestReturn(t)
		require.NoError(t, pr.RecordQualityCheck(true, "", uuid.New(), nil, nil))
		require.NoError(t, pr.Approve(uuid.New(), nil, nil))

		err := pr.Complete()
		assert.Error(t, err)
	})

	t.Run("cannot mark refunded before completion", func(t *testing.T) {
		pr := createTestReturn(t)
		err := pr.MarkRefunded()
		assert.Error(t, err)
	})

	t.Run("refunded is terminal", func(t *testing.T) {
		pr := createCompletedReturn(t)
		require.NoError(t, pr.MarkRefunded())

		assert.Error(t, pr.MarkRefunded())
		assert.Error(t, pr.Complete())
		assert.Error(t, pr.StartProcessing(uuid.New()))
	})
}

func TestReturnStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    ReturnStatus
		to      ReturnStatus
		allowed bool
	}{
		{ReturnStatusPending, ReturnStatusApproved, true},
		{ReturnStatusPending, ReturnStatusRejected, true},
		{ReturnStatusPending, ReturnStatusCompleted, false},
		{ReturnStatusApproved, ReturnStatusProcessing, true},
		{ReturnStatusApproved, ReturnStatusRejected, true},
		{ReturnStatusProcessing, ReturnStatusRejected, false},
		{ReturnStatusProcessing, ReturnStatusCompleted, true},
		{ReturnStatusCompleted, ReturnStatusRefunded, true},
		{ReturnStatusRejected, ReturnStatusApproved, false},
		{ReturnStatusRefunded, ReturnStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestProductReturn_GetItem(t *testing.T) {
	pr := createTestReturn(t)

	found := pr.GetItem(pr.Items[1].ID)
	require.NotNil(t, found)
	assert.Equal(t, "Widget B", found.ProductName)

	assert.Nil(t, pr.GetItem(uuid.New()))
}
