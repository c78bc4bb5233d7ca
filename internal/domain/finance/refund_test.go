package finance

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/domain/shared/valueobject"
)

// Helper function to build constructor params for a pending refund
func testRefundParams(method RefundMethod) RefundParams {
	return RefundParams{
		RefundNumber:   "REF-20260829-0001",
		ReturnID:       uuid.New(),
		ReturnNumber:   "RET-20260829-0001",
		OrderID:        uuid.New(),
		CustomerID:     uuid.New(),
		StoreID:        uuid.New(),
		Method:         method,
		AmountMode:     AmountModeFull,
		Amount:         valueobject.NewMoneyUSD(decimal.NewFromInt(75)),
		OriginalAmount: decimal.NewFromInt(75),
		ProcessingFee:  decimal.Zero,
		InitiatedBy:    uuid.New(),
	}
}

// Helper function to create a pending refund
func createTestRefund(t *testing.T, method RefundMethod) *Refund {
	r, err := NewRefund(testRefundParams(method))
	require.NoError(t, err)
	return r
}

func TestNewRefund(t *testing.T) {
	t.Run("creates pending refund", func(t *testing.T) {
		r := createTestRefund(t, MethodCardRefund)

		assert.Equal(t, RefundStatusPending, r.Status)
		assert.Equal(t, "REF-20260829-0001", r.RefundNumber)
		assert.True(t, r.Amount.Equal(decimal.NewFromInt(75)))
		assert.Equal(t, valueobject.USD, r.Currency)
		assert.Empty(t, r.StoreCreditCode)
		assert.False(t, r.InitiatedAt.IsZero())

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRefundCreated, events[0].EventType())
	})

	t.Run("persists how the amount was derived", func(t *testing.T) {
		pct := decimal.NewFromInt(60)
		p := testRefundParams(MethodBankTransfer)
		p.AmountMode = AmountModePercentage
		p.Percentage = &pct
		p.Amount = valueobject.NewMoneyUSD(decimal.NewFromInt(40))
		p.OriginalAmount = decimal.NewFromInt(75)
		p.ProcessingFee = decimal.NewFromInt(5)

		r, err := NewRefund(p)
		require.NoError(t, err)
		assert.Equal(t, p.OrderID, r.OrderID)
		assert.Equal(t, AmountModePercentage, r.AmountMode)
		require.NotNil(t, r.Percentage)
		assert.True(t, r.Percentage.Equal(pct))
		assert.True(t, r.OriginalAmount.Equal(decimal.NewFromInt(75)))
		assert.True(t, r.ProcessingFee.Equal(decimal.NewFromInt(5)))
	})

	t.Run("issues store credit code on creation", func(t *testing.T) {
		r := createTestRefund(t, MethodStoreCredit)

		assert.True(t, strings.HasPrefix(r.StoreCreditCode, "SC-"), "got %q", r.StoreCreditCode)
		assert.Len(t, r.StoreCreditCode, 11)
		require.NotNil(t, r.StoreCreditExpiresAt)
		assert.WithinDuration(t, time.Now().Add(StoreCreditValidity), *r.StoreCreditExpiresAt, time.Minute)
		assert.True(t, r.IsStoreCredit())
	})

	t.Run("fails with non-positive amount", func(t *testing.T) {
		p := testRefundParams(MethodCash)
		p.Amount = valueobject.NewMoneyUSD(decimal.Zero)
		r, err := NewRefund(p)
		assert.Nil(t, r)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("fails with unknown method", func(t *testing.T) {
		p := testRefundParams(RefundMethod("barter"))
		r, err := NewRefund(p)
		assert.Nil(t, r)
		assert.Error(t, err)
	})

	t.Run("fails with unknown amount mode", func(t *testing.T) {
		p := testRefundParams(MethodCash)
		p.AmountMode = RefundAmountMode("vibes")
		r, err := NewRefund(p)
		assert.Nil(t, r)
		assert.Error(t, err)
	})

	t.Run("fails with empty refund number", func(t *testing.T) {
		p := testRefundParams(MethodCash)
		p.RefundNumber = ""
		r, err := NewRefund(p)
		assert.Nil(t, r)
		assert.Error(t, err)
	})
}

func TestRefundMethod_IsValid(t *testing.T) {
	for _, m := range []RefundMethod{
		MethodCash, MethodBankTransfer, MethodCardRefund, MethodStoreCredit,
		MethodGiftCard, MethodDigitalWallet, MethodCheck, MethodOther,
	} {
		assert.True(t, m.IsValid(), "%s", m)
	}
	assert.False(t, RefundMethod("original_payment").IsValid())
	assert.False(t, RefundMethod("").IsValid())
}

func TestRefund_Lifecycle(t *testing.T) {
	t.Run("pending to completed", func(t *testing.T) {
		r := createTestRefund(t, MethodCardRefund)
		processor := uuid.New()

		require.NoError(t, r.Process(processor))
		assert.Equal(t, RefundStatusProcessing, r.Status)
		assert.Equal(t, processor, *r.ProcessedBy)

		require.NoError(t, r.Complete("gw-tx-991"))
		assert.Equal(t, RefundStatusCompleted, r.Status)
		assert.Equal(t, "gw-tx-991", r.GatewayReference)
		assert.True(t, r.IsCompleted())
		assert.True(t, r.CountsAgainstCapacity())
	})

	t.Run("cannot complete while pending", func(t *testing.T) {
		r := createTestRefund(t, MethodCash)
		err := r.Complete("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot move to")
	})

	t.Run("processing to failed releases capacity", func(t *testing.T) {
		r := createTestRefund(t, MethodBankTransfer)
		require.NoError(t, r.Process(uuid.New()))

		require.NoError(t, r.Fail("bank account closed"))
		assert.Equal(t, RefundStatusFailed, r.Status)
		assert.Equal(t, "bank account closed", r.FailureReason)
		assert.False(t, r.CountsAgainstCapacity())
	})

	t.Run("fail requires a reason", func(t *testing.T) {
		r := createTestRefund(t, MethodBankTransfer)
		require.NoError(t, r.Process(uuid.New()))
		assert.Error(t, r.Fail(""))
	})

	t.Run("cancel from pending", func(t *testing.T) {
		r := createTestRefund(t, MethodCash)
		canceller := uuid.New()

		require.NoError(t, r.Cancel(canceller, "duplicate request"))
		assert.Equal(t, RefundStatusCancelled, r.Status)
		assert.Equal(t, canceller, *r.CancelledBy)
		assert.False(t, r.CountsAgainstCapacity())
	})

	t.Run("cancel without a reason", func(t *testing.T) {
		r := createTestRefund(t, MethodCash)

		require.NoError(t, r.Cancel(uuid.New(), ""))
		assert.Equal(t, RefundStatusCancelled, r.Status)
		assert.Empty(t, r.CancelReason)
	})

	t.Run("cancel from processing", func(t *testing.T) {
		r := createTestRefund(t, MethodCash)
		require.NoError(t, r.Process(uuid.New()))
		require.NoError(t, r.Cancel(uuid.New(), "customer withdrew the return"))
		assert.Equal(t, RefundStatusCancelled, r.Status)
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		r := createTestRefund(t, MethodCardRefund)
		require.NoError(t, r.Process(uuid.New()))
		require.NoError(t, r.Complete(""))

		var termErr *TerminalStateError
		assert.ErrorAs(t, r.Process(uuid.New()), &termErr)
		assert.ErrorAs(t, r.Fail("too late"), &termErr)
		assert.ErrorAs(t, r.Cancel(uuid.New(), "too late"), &termErr)
		assert.Equal(t, "TERMINAL_STATE", termErr.Code())
	})
}

func TestRefundStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    RefundStatus
		to      RefundStatus
		allowed bool
	}{
		{RefundStatusPending, RefundStatusProcessing, true},
		{RefundStatusPending, RefundStatusCancelled, true},
		{RefundStatusPending, RefundStatusCompleted, false},
		{RefundStatusProcessing, RefundStatusCompleted, true},
		{RefundStatusProcessing, RefundStatusFailed, true},
		{RefundStatusProcessing, RefundStatusCancelled, true},
		{RefundStatusCompleted, RefundStatusFailed, false},
		{RefundStatusFailed, RefundStatusProcessing, false},
		{RefundStatusCancelled, RefundStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestResolveRefundAmount(t *testing.T) {
	refundable := valueobject.NewMoneyUSD(decimal.NewFromInt(200))
	nothingRefunded := valueobject.NewMoneyUSD(decimal.Zero)

	t.Run("full mode deducts the fee", func(t *testing.T) {
		amount, err := ResolveRefundAmount(AmountModeFull, refundable, nothingRefunded, nil, nil, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.True(t, amount.Amount().Equal(decimal.NewFromInt(195)), "got %s", amount.Amount())
	})

	t.Run("full mode deducts prior refunds", func(t *testing.T) {
		already := valueobject.NewMoneyUSD(decimal.NewFromInt(80))
		amount, err := ResolveRefundAmount(AmountModeFull, refundable, already, nil, nil, decimal.NewFromInt(5))
		require.NoError(t, err)
		// 200 - 80 - 5
		assert.True(t, amount.Amount().Equal(decimal.NewFromInt(115)), "got %s", amount.Amount())
	})

	t.Run("percentage mode deducts the fee", func(t *testing.T) {
		pct := decimal.NewFromInt(50)
		amount, err := ResolveRefundAmount(AmountModePercentage, refundable, nothingRefunded, &pct, nil, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, amount.Amount().Equal(decimal.NewFromInt(90)), "got %s", amount.Amount())
	})

	t.Run("partial mode takes the amount literally", func(t *testing.T) {
		partial := decimal.NewFromFloat(33.335)
		amount, err := ResolveRefundAmount(AmountModePartial, refundable, nothingRefunded, nil, &partial, decimal.NewFromInt(5))
		require.NoError(t, err)
		// rounded to cents, fee ignored
		assert.True(t, amount.Amount().Equal(decimal.NewFromFloat(33.34)), "got %s", amount.Amount())
	})

	t.Run("rejects percentage outside range", func(t *testing.T) {
		pct := decimal.NewFromInt(150)
		_, err := ResolveRefundAmount(AmountModePercentage, refundable, nothingRefunded, &pct, nil, decimal.Zero)
		assert.Error(t, err)

		zero := decimal.Zero
		_, err = ResolveRefundAmount(AmountModePercentage, refundable, nothingRefunded, &zero, nil, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects missing percentage", func(t *testing.T) {
		_, err := ResolveRefundAmount(AmountModePercentage, refundable, nothingRefunded, nil, nil, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects missing partial amount", func(t *testing.T) {
		_, err := ResolveRefundAmount(AmountModePartial, refundable, nothingRefunded, nil, nil, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects fee swallowing the whole amount", func(t *testing.T) {
		_, err := ResolveRefundAmount(AmountModeFull, refundable, nothingRefunded, nil, nil, decimal.NewFromInt(200))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("rejects negative fee", func(t *testing.T) {
		_, err := ResolveRefundAmount(AmountModeFull, refundable, nothingRefunded, nil, nil, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		_, err := ResolveRefundAmount(RefundAmountMode("vibes"), refundable, nothingRefunded, nil, nil, decimal.Zero)
		assert.Error(t, err)
	})
}
