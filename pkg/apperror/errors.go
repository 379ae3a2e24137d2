package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication & Authorization (AUTH) ----

func ErrUnauthenticated() *AppError {
	return New("AUTH_001", "User must be authenticated", http.StatusUnauthorized)
}

func ErrPermissionDenied() *AppError {
	return New("AUTH_002", "Caller is not allowed to perform this operation", http.StatusForbidden)
}

// ---- Wallet Business Logic (WAL) ----

func ErrAccountNotFound() *AppError {
	return New("WAL_001", "Account not found", http.StatusNotFound)
}

func ErrInvalidAmount() *AppError {
	return New("WAL_002", "Amount must be a positive number", http.StatusBadRequest)
}

func ErrAlreadyClaimed() *AppError {
	return New("WAL_003", "Already claimed today", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_002-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("WAL_002", message, http.StatusBadRequest)
}
