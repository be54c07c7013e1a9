package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_TypesAndStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    *AppError
		typ    ErrorType
		status int
	}{
		{NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{NewNotFoundError("author"), ErrorTypeNotFound, http.StatusNotFound},
		{NewConflictError("taken"), ErrorTypeConflict, http.StatusConflict},
		{NewUnauthorizedError(""), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{NewUnavailableError("get", errors.New("timeout")), ErrorTypeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.typ, tc.err.Type)
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
	}
}

func TestTypeHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsConflict(NewConflictError("taken")))
	assert.True(t, IsNotFound(NewNotFoundError("book")))
	assert.True(t, IsUnavailable(NewUnavailableError("scan", errors.New("timeout"))))
	assert.False(t, IsConflict(NewNotFoundError("book")))
	assert.False(t, IsConflict(errors.New("plain")))
	assert.False(t, IsConflict(nil))
}

func TestTypeHelpers_WrappedError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("saving user: %w", NewConflictError("taken"))
	assert.True(t, IsConflict(wrapped))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeConflict, appErr.Type)
}

func TestUnavailableError_PreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewUnavailableError("query", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query")
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Wrap(nil, "context"))

	wrapped := Wrap(NewNotFoundError("author"), "resolving book author")
	require.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "resolving book author")

	plain := Wrap(errors.New("boom"), "doing work")
	appErr := GetAppError(plain)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeInternal, appErr.Type)
}
