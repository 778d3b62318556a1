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

// Retryable reports whether a gateway should redeliver the request later.
func (e *AppError) Retryable() bool {
	return e.HTTPStatus >= http.StatusInternalServerError || e.HTTPStatus == http.StatusConflict
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

// ---- Inbound webhooks (WHK) ----

func ErrInvalidPayload(err error) *AppError {
	return Wrap("WHK_001", "Invalid webhook payload", http.StatusBadRequest, err)
}

func ErrInvalidWebhookSignature() *AppError {
	return New("WHK_002", "Invalid webhook signature", http.StatusUnauthorized)
}

func ErrEventInProgress(eventID string) *AppError {
	return New("WHK_003", fmt.Sprintf("Event %s is already being processed", eventID), http.StatusConflict)
}

func ErrPayloadTooLarge() *AppError {
	return New("WHK_005", "Request body too large", http.StatusRequestEntityTooLarge)
}

func ErrNotFound(entity string) *AppError {
	return New("WHK_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Relay authentication (SEC) ----

func ErrMissingRelayHeaders() *AppError {
	return New("SEC_001", "Missing relay authentication headers", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Operator authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Downstream synchronisation (SYNC) ----

// ErrSyncFailed marks an upstream CRM/email/gateway failure. Gateways treat
// the 503 as retryable and redeliver.
func ErrSyncFailed(err error) *AppError {
	return Wrap("SYNC_001", "Donor record synchronisation failed", http.StatusServiceUnavailable, err)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WHK_001-style validation error.
func Validation(message string) *AppError {
	return New("WHK_001", message, http.StatusBadRequest)
}
