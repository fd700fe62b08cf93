package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewNotFound("doctor", fmt.Errorf("name %q", "Dr. Who"))
	assert.Equal(t, `doctor not found: name "Dr. Who"`, err.Error())
	assert.Equal(t, "doctor not found", NewNotFound("doctor", nil).Error())
}

func TestHasCodeThroughWrapping(t *testing.T) {
	base := NewConflict("doctor not available", nil)
	wrapped := fmt.Errorf("failed to schedule appointment: %w", base)

	assert.True(t, HasCode(wrapped, ErrConflict))
	assert.False(t, HasCode(wrapped, ErrNotFound))
	assert.False(t, HasCode(stderrors.New("plain"), ErrConflict))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, appErr)
}

func TestSentinelMatching(t *testing.T) {
	sentinel := NewConflict("doctor not available", nil)
	other := NewConflict("doctor not available", nil)

	assert.True(t, stderrors.Is(fmt.Errorf("wrap: %w", other), sentinel))
	assert.False(t, stderrors.Is(NewConflict("something else", nil), sentinel))
}

func TestOutOfRange(t *testing.T) {
	err := NewOutOfRange(9, 8)
	assert.Equal(t, ErrOutOfRange, err.Code)
	assert.Equal(t, "index 9 out of range [0, 8)", err.Error())
	assert.Equal(t, "out_of_range", err.Code.String())
}
