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

// ---- Validation (VAL) ----

// Validation returns a 400 error for malformed or incomplete input.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

// ErrInvalidCode covers missing, mismatched and expired verification codes.
// Deliberately one message for all three cases.
func ErrInvalidCode() *AppError {
	return New("AUTH_001", "Invalid or expired verification code", http.StatusBadRequest)
}

func ErrUnauthorized() *AppError {
	return New("AUTH_002", "Unauthorized", http.StatusUnauthorized)
}

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- SMS vendor (SMS) ----

// ErrSMSDelivery reports a vendor-side delivery failure. The vendor message
// is surfaced to the caller when present.
func ErrSMSDelivery(vendorMessage string, err error) *AppError {
	msg := "Failed to send SMS"
	if vendorMessage != "" {
		msg = fmt.Sprintf("Failed to send SMS: %s", vendorMessage)
	}
	return Wrap("SMS_001", msg, http.StatusInternalServerError, err)
}

func ErrSMSTimeout(err error) *AppError {
	return Wrap("SMS_002", "SMS vendor did not respond in time", http.StatusGatewayTimeout, err)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Too many requests, try again later", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
