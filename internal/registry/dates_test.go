package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

func TestValidateDate(t *testing.T) {
	now := time.Date(2025, 1, 10, 15, 45, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"today", "2025-01-10", false},
		{"future", "2026-02-01", false},
		{"yesterday", "2025-01-09", true},
		{"wrong layout", "10.01.2025", true},
		{"not a day", "2025-02-30", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.date, now)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidDate))
		})
	}
}

func TestValidateDateTime(t *testing.T) {
	now := time.Date(2025, 1, 10, 15, 45, 0, 0, time.UTC)

	assert.NoError(t, ValidateDateTime("2025-01-10 08:00", now))
	assert.Error(t, ValidateDateTime("2025-01-09 08:00", now))
	assert.Error(t, ValidateDateTime("2025-01-10", now))
	assert.Error(t, ValidateDateTime("2025-01-10 25:00", now))
}

func TestTomorrow(t *testing.T) {
	got, err := Tomorrow("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", got)

	_, err = Tomorrow("tomorrow")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidDate))
}
