package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found maps to 404", ErrCodeNotFound, http.StatusNotFound},
		{"concurrency conflict maps to 409", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"quality check required maps to 422", ErrCodeQualityCheckRequired, http.StatusUnprocessableEntity},
		{"refund exceeds remaining maps to 422", ErrCodeRefundExceedsRemaining, http.StatusUnprocessableEntity},
		{"already fully refunded maps to 422", ErrCodeAlreadyFullyRefunded, http.StatusUnprocessableEntity},
		{"terminal state maps to 422", ErrCodeTerminalState, http.StatusUnprocessableEntity},
		{"unauthorized maps to 401", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"invalid input maps to 400", ErrCodeInvalidInput, http.StatusBadRequest},
		{"unknown code defaults to 500", "ERR_NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"domain not found", "NOT_FOUND", ErrCodeNotFound},
		{"domain invalid return state", "INVALID_RETURN_STATE", ErrCodeInvalidState},
		{"domain quality check gate", "QUALITY_CHECK_REQUIRED", ErrCodeQualityCheckRequired},
		{"domain refund cap", "REFUND_EXCEEDS_REMAINING", ErrCodeRefundExceedsRemaining},
		{"domain terminal refund", "TERMINAL_STATE", ErrCodeTerminalState},
		{"already normalized code passes through", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown code passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Return not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Return not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "order_id", Message: "order_id is required"},
		{Field: "items", Message: "at least one item is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "order_id", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
