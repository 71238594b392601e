// Package errors provides custom error types for the FinAssist API.
// Service-layer errors use AppError so that every failure reaching a client
// or the language model is a short, human-readable message.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// Transaction validation errors. Messages are shown verbatim to the user.
var (
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Invalid transaction type. Must be 'income' or 'expense'.", StatusCode: http.StatusBadRequest}
	ErrInvalidCurrency        = &AppError{Code: "INVALID_CURRENCY", Message: "Invalid currency code. Must be a 3-letter code (e.g., USD).", StatusCode: http.StatusBadRequest}
	ErrInvalidDateFormat      = &AppError{Code: "INVALID_DATE_FORMAT", Message: "Invalid date format. Please use YYYY-MM-DD.", StatusCode: http.StatusBadRequest}
	ErrInvalidTimeFormat      = &AppError{Code: "INVALID_TIME_FORMAT", Message: "Invalid time format. Please use HH:MM.", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount          = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be a non-zero number.", StatusCode: http.StatusBadRequest}
)

// Aggregation errors.
var (
	ErrConversionFailed = &AppError{Code: "CONVERSION_FAILED", Message: "Currency conversion failed", StatusCode: http.StatusBadGateway}
)

// Report errors.
var (
	ErrReportNotFound = &AppError{Code: "REPORT_NOT_FOUND", Message: "Report not found", StatusCode: http.StatusNotFound}
	ErrNoTransactions = &AppError{Code: "NO_TRANSACTIONS", Message: "No transactions to export", StatusCode: http.StatusNotFound}
)
