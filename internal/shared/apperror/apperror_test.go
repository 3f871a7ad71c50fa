package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-vacation/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
		assert.Equal(t, "Resource not found", got.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("load department: %w", apperror.ErrNotFound)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, got.Status)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestAppError_WithErr(t *testing.T) {
	cause := errors.New("duplicate key")
	err := apperror.ErrNotFound.WithErr(cause)

	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Resource not found: duplicate key", err.Error())
	assert.Nil(t, apperror.ErrNotFound.Err)
}

func TestMapValidationError(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
		Mail string `validate:"email"`
	}
	v := validator.New()

	t.Run("required", func(t *testing.T) {
		err := v.Struct(payload{Mail: "a@b.co"})

		got := apperror.MapValidationError(err)

		assert.Equal(t, apperror.CodeValidationError, got.Code)
		assert.Equal(t, "Name is required", got.Message)
	})

	t.Run("invalid", func(t *testing.T) {
		err := v.Struct(payload{Name: "x", Mail: "nope"})

		got := apperror.MapValidationError(err)

		assert.Equal(t, "Mail is invalid", got.Message)
	})

	t.Run("non validation error", func(t *testing.T) {
		got := apperror.MapValidationError(errors.New("EOF"))

		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
		assert.Equal(t, "Invalid input", got.Message)
	})
}
