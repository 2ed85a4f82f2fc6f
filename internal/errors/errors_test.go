package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeValidation, "Invalid request body")
		assert.Equal(t, "VALIDATION_ERROR: Invalid request body", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := wrap(ErrCodeDatabase, "Database error", cause)
		assert.Contains(t, err.Error(), "DATABASE_ERROR")
		assert.Contains(t, err.Error(), "database connection failed")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := New(ErrCodeInternal, "Something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.ErrorIs(t, err, cause)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"InvalidCredentials", func() *AppError { return InvalidCredentials() }, ErrCodeInvalidCredentials},
		{"InvalidSecret", func() *AppError { return InvalidSecret() }, ErrCodeInvalidSecret},
		{"ValidationError", func() *AppError { return ValidationError("test") }, ErrCodeValidation},
		{"InvalidInput", func() *AppError { return InvalidInput("regNo", "must be positive") }, ErrCodeInvalidInput},
		{"MissingRequired", func() *AppError { return MissingRequired("username") }, ErrCodeMissingRequired},
		{"InvalidBadge", func() *AppError { return InvalidBadge("12345A") }, ErrCodeInvalidBadge},
		{"PayloadTooLarge", func() *AppError { return PayloadTooLarge(1024) }, ErrCodePayloadTooLarge},
		{"RateLimitExceeded", func() *AppError { return RateLimitExceeded() }, ErrCodeRateLimitExceeded},
		{"Telegram", func() *AppError { return Telegram("sendMessage", "Bad Request") }, ErrCodeTelegram},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.constructor()
			assert.Equal(t, tc.expectedCode, err.Code)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestInvalidBadge(t *testing.T) {
	err := InvalidBadge("12345A")
	assert.Equal(t, "12345A is not a valid badge number", err.Message)
	assert.Equal(t, map[string]string{"badge": "12345A"}, err.Details)
}

func TestDatabase(t *testing.T) {
	cause := errors.New("connection refused")
	err := Database(cause)
	assert.Equal(t, ErrCodeDatabase, err.Code)
	assert.Equal(t, cause, err.Unwrap())
}

func TestExternal(t *testing.T) {
	cause := errors.New("timeout")
	err := External("Telegram Bot API", cause)
	assert.Equal(t, ErrCodeExternal, err.Code)
	assert.Contains(t, err.Message, "Telegram Bot API")
	assert.Equal(t, cause, err.Unwrap())
}

func TestAsAppError(t *testing.T) {
	t.Run("extracts AppError", func(t *testing.T) {
		original := InvalidCredentials()
		extracted, ok := AsAppError(original)
		assert.True(t, ok)
		assert.Equal(t, original, extracted)
	})

	t.Run("extracts AppError wrapped with %w", func(t *testing.T) {
		original := Database(errors.New("boom"))
		extracted, ok := AsAppError(fmt.Errorf("get permissions of alice: %w", original))
		assert.True(t, ok)
		assert.Equal(t, original, extracted)
	})

	t.Run("returns false for non-AppError", func(t *testing.T) {
		extracted, ok := AsAppError(errors.New("standard error"))
		assert.False(t, ok)
		assert.Nil(t, extracted)
	})
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeTelegram, GetCode(Telegram("sendMessage", "Forbidden")))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("standard error")))
}

func TestMissingRequiredMessage(t *testing.T) {
	err := MissingRequired("regNo")
	assert.Equal(t, "regNo is required", err.Message)
}
