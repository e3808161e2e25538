package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/errors"
)

func TestConstructors(t *testing.T) {
	notFound := errors.NewNotFoundError("item", 42)
	assert.Equal(t, errors.ErrCodeNotFound, notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, "item not found: 42", notFound.Message)

	invalid := errors.NewValidationError("term", "must not be empty")
	assert.Equal(t, http.StatusBadRequest, invalid.Status)
	assert.Equal(t, "VALIDATION_ERROR: validation failed for term: must not be empty", invalid.Error())

	cause := stderrors.New("disk full")
	internal := errors.NewInternalError(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.ErrorIs(t, internal, cause)
	assert.Contains(t, internal.Error(), "disk full")

	unavailable := errors.NewUnavailableError("definition", cause)
	assert.Equal(t, http.StatusServiceUnavailable, unavailable.Status)
	assert.ErrorIs(t, unavailable, cause)
}

func TestAsAndIsNotFound(t *testing.T) {
	wrapped := fmt.Errorf("define: %w", errors.NewNotFoundError("definition", "zzzqx"))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	assert.True(t, errors.IsNotFound(wrapped))

	_, ok = errors.As(stderrors.New("plain"))
	assert.False(t, ok)
	assert.False(t, errors.IsNotFound(errors.NewBadRequestError("bad")))
}
