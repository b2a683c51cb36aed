package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_FormatsMessage(t *testing.T) {
	err := NewNotFoundError("product %s not found", "p1")

	assert.Equal(t, "product p1 not found", err.Error())
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsConflictError(err))
}

func TestConflictError_FormatsMessage(t *testing.T) {
	err := NewConflictError("insufficient stock for product %s", "p1")

	assert.Equal(t, "insufficient stock for product p1", err.Error())
	assert.True(t, IsConflictError(err))
	assert.False(t, IsNotFoundError(err))
}

func TestValidationError_FormatsMessage(t *testing.T) {
	err := NewValidationError("delta cannot be zero")

	assert.Equal(t, "delta cannot be zero", err.Error())
	assert.True(t, IsValidationError(err))
}

func TestUnauthorizedError_FormatsMessage(t *testing.T) {
	err := NewUnauthorizedError("invalid credentials")

	assert.Equal(t, "invalid credentials", err.Error())
	assert.True(t, IsUnauthorizedError(err))
}

func TestInternalError_WrapsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewInternalError("failed to save stock entry", cause)

	assert.Equal(t, "failed to save stock entry: database is locked", err.Error())
	assert.True(t, IsInternalError(err))
	assert.ErrorIs(t, err, cause)
}

func TestInternalError_WithoutCause(t *testing.T) {
	err := NewInternalError("failed to save stock entry", nil)

	assert.Equal(t, "failed to save stock entry", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestCheckers_RejectOtherErrors(t *testing.T) {
	err := errors.New("some other error")

	assert.False(t, IsNotFoundError(err))
	assert.False(t, IsConflictError(err))
	assert.False(t, IsValidationError(err))
	assert.False(t, IsUnauthorizedError(err))
	assert.False(t, IsInternalError(err))
}
