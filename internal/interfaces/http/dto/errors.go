package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeQualityCheckRequired is used when approval is attempted before inspection
	ErrCodeQualityCheckRequired = "ERR_QUALITY_CHECK_REQUIRED"
	// ErrCodeQuantityExceedsReturnable is used when a return asks for more than was sold
	ErrCodeQuantityExceedsReturnable = "ERR_QUANTITY_EXCEEDS_RETURNABLE"
	// ErrCodeRefundExceedsReturnValue is used when an approval override exceeds the return value
	ErrCodeRefundExceedsReturnValue = "ERR_REFUND_EXCEEDS_RETURN_VALUE"
	// ErrCodeRefundExceedsRemaining is used when a refund exceeds the unrefunded remainder
	ErrCodeRefundExceedsRemaining = "ERR_REFUND_EXCEEDS_REMAINING"
	// ErrCodeAlreadyFullyRefunded is used when a return has no refundable remainder left
	ErrCodeAlreadyFullyRefunded = "ERR_ALREADY_FULLY_REFUNDED"
	// ErrCodeTerminalState is used when mutating a refund in a terminal status
	ErrCodeTerminalState = "ERR_TERMINAL_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:              http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:              http.StatusUnprocessableEntity,
	ErrCodeQualityCheckRequired:      http.StatusUnprocessableEntity,
	ErrCodeQuantityExceedsReturnable: http.StatusUnprocessableEntity,
	ErrCodeRefundExceedsReturnValue:  http.StatusUnprocessableEntity,
	ErrCodeRefundExceedsRemaining:    http.StatusUnprocessableEntity,
	ErrCodeAlreadyFullyRefunded:      http.StatusUnprocessableEntity,
	ErrCodeTerminalState:             http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"ALREADY_EXISTS":              ErrCodeAlreadyExists,
	"INVALID_INPUT":               ErrCodeInvalidInput,
	"INVALID_STATE":               ErrCodeInvalidState,
	"UNAUTHORIZED":                ErrCodeUnauthorized,
	"FORBIDDEN":                   ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":        ErrCodeConcurrencyConflict,
	"INVALID_RETURN_STATE":        ErrCodeInvalidState,
	"ORDER_NOT_RETURNABLE":        ErrCodeBusinessRule,
	"ITEM_NOT_FOUND":              ErrCodeNotFound,
	"DUPLICATE_ITEM":              ErrCodeBusinessRule,
	"INVALID_REFUND_STATE":        ErrCodeInvalidState,
	"QUALITY_CHECK_REQUIRED":      ErrCodeQualityCheckRequired,
	"QUANTITY_EXCEEDS_RETURNABLE": ErrCodeQuantityExceedsReturnable,
	"REFUND_EXCEEDS_RETURN_VALUE": ErrCodeRefundExceedsReturnValue,
	"REFUND_EXCEEDS_REMAINING":    ErrCodeRefundExceedsRemaining,
	"ALREADY_FULLY_REFUNDED":      ErrCodeAlreadyFullyRefunded,
	"TERMINAL_STATE":              ErrCodeTerminalState,
	"VALIDATION_ERROR":            ErrCodeValidation,
	"BAD_REQUEST":                 ErrCodeBadRequest,
	"INTERNAL_ERROR":              ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// If the code is already in the API format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
