package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	s, err := NewMessage(Raw{FieldContent: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = NewMessage(Raw{FieldContent: "   "})
	require.Error(t, err)
	assert.Equal(t, "missing required fields: content", err.Error())

	_, err = NewMessage(Raw{})
	assert.Error(t, err)
}
