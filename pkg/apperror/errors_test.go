package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WHK_002", "Invalid webhook signature", http.StatusUnauthorized),
			expected: "[WHK_002] Invalid webhook signature",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("WHK_001", "test", http.StatusBadRequest).Unwrap())
}

func TestAppError_Retryable(t *testing.T) {
	assert.True(t, ErrSyncFailed(errors.New("crm down")).Retryable())
	assert.True(t, ErrEventInProgress("evt_1").Retryable())
	assert.True(t, InternalError(errors.New("x")).Retryable())
	assert.False(t, ErrInvalidWebhookSignature().Retryable())
	assert.False(t, ErrInvalidPayload(errors.New("bad json")).Retryable())
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidPayload", ErrInvalidPayload(nil), "WHK_001", 400},
		{"InvalidWebhookSignature", ErrInvalidWebhookSignature(), "WHK_002", 401},
		{"EventInProgress", ErrEventInProgress("evt_1"), "WHK_003", 409},
		{"NotFound", ErrNotFound("Event"), "WHK_004", 404},
		{"PayloadTooLarge", ErrPayloadTooLarge(), "WHK_005", 413},
		{"MissingRelayHeaders", ErrMissingRelayHeaders(), "SEC_001", 401},
		{"InvalidSignature", ErrInvalidSignature(), "SEC_002", 401},
		{"TimestampExpired", ErrTimestampExpired(), "SEC_003", 403},
		{"NonceUsed", ErrNonceUsed(), "SEC_004", 403},
		{"InvalidToken", ErrInvalidToken(), "AUTH_001", 401},
		{"RateLimitExceeded", ErrRateLimitExceeded(), "RATE_001", 429},
		{"SyncFailed", ErrSyncFailed(nil), "SYNC_001", 503},
		{"Database", ErrDatabaseError(nil), "SYS_001", 500},
		{"Encryption", ErrEncryptionFailure(nil), "SYS_003", 500},
		{"Validation", Validation("bad"), "WHK_001", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("Webhook event")
	assert.Contains(t, err.Message, "Webhook event")
	assert.Contains(t, ErrEventInProgress("evt_42").Message, "evt_42")
}
