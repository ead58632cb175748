package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"wall clock", "2025-12-15 20:00:00", time.Date(2025, 12, 15, 20, 0, 0, 0, time.UTC), false},
		{"rfc3339 offset", "2025-12-15T20:00:00-03:00", time.Date(2025, 12, 15, 23, 0, 0, 0, time.UTC), false},
		{"padded", "  2025-01-02 03:04:05 ", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), false},
		{"malformed", "15/12/2025 20:00", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseOptionalTimestamp(t *testing.T) {
	got, err := ParseOptionalTimestamp(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := "   "
	got, err = ParseOptionalTimestamp(&blank)
	require.NoError(t, err)
	assert.Nil(t, got)

	value := "2025-12-15 23:00:00"
	got, err = ParseOptionalTimestamp(&value)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, value, FormatTimestamp(*got))
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(nil))
	empty := " "
	assert.Nil(t, OptionalString(&empty))
	name := " Pérez "
	assert.Equal(t, "Pérez", *OptionalString(&name))
}
