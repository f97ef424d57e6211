package dto

import "net/http"

// Transport-level error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeValidation is used when request body or query validation fails
	ErrCodeValidation = "VALIDATION"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeValidation:   http.StatusBadRequest,

	// Input problems -> 400 Bad Request
	"INVALID_INPUT":              http.StatusBadRequest,
	"INVALID_NAME":               http.StatusBadRequest,
	"INVALID_SKU":                http.StatusBadRequest,
	"INVALID_PRICE":              http.StatusBadRequest,
	"INVALID_STOCK":              http.StatusBadRequest,
	"INVALID_DESCRIPTION":        http.StatusBadRequest,
	"INVALID_QUANTITY":           http.StatusBadRequest,
	"INVALID_PRODUCT":            http.StatusBadRequest,
	"INVALID_STATUS":             http.StatusBadRequest,
	"MISSING_PAYMENT_METHOD":     http.StatusBadRequest,
	"UNSUPPORTED_PAYMENT_METHOD": http.StatusBadRequest,
	"UNSUPPORTED_MARKETPLACE":    http.StatusBadRequest,
	"EMPTY_CART":                 http.StatusBadRequest,

	// Resource problems
	"NOT_FOUND":      http.StatusNotFound,
	"ITEM_NOT_FOUND": http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"NOT_CANCELABLE":     http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,

	// Payment outcomes -> 402 Payment Required
	"PAYMENT_DECLINED": http.StatusPaymentRequired,
	"PAYMENT_FAILED":   http.StatusPaymentRequired,

	// Upstream marketplace failures
	"MARKETPLACE_UNAVAILABLE": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
