package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFieldsError_ListsEveryField(t *testing.T) {
	err := MissingFieldsError([]string{"city", "rent", "ownerId"})

	assert.Equal(t, "missing required fields: city, rent, ownerId", err.Error())
	assert.Equal(t, []string{"city", "rent", "ownerId"}, err.Fields)
}

func TestValidationError_MatchesSentinelThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create flat: %w", NewValidationError("rent must be a positive number", "rent"))

	assert.True(t, errors.Is(wrapped, ErrorValidation))

	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, []string{"rent"}, ve.Fields)
	assert.False(t, errors.Is(wrapped, ErrorNotFound))
}

func TestError_KeepsMessageAndKind(t *testing.T) {
	err := fmt.Errorf("get flat: %w", NewError(ErrorNotFound, "flat not found"))

	assert.ErrorIs(t, err, ErrorNotFound)

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "flat not found", ce.Msg)
}
