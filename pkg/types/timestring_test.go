package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid morning", "09:30", false},
		{"valid midnight", "00:00", false},
		{"valid last minute", "23:59", false},
		{"hour out of range", "25:00", true},
		{"minute out of range", "10:60", true},
		{"empty", "", true},
		{"missing minutes", "10", true},
		{"garbage", "ten:30", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeStringMinutesAndOrdering(t *testing.T) {
	open := TimeString("10:00")
	close := TimeString("20:30")

	assert.Equal(t, 600, open.Minutes())
	assert.Equal(t, 1230, close.Minutes())
	assert.True(t, open.IsBefore(close))
	assert.True(t, close.IsAfter(open))
	assert.False(t, open.IsBefore(open))
}

func TestTimeStringOnDate(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	got := TimeString("14:15").OnDate(day)

	assert.Equal(t, time.Date(2025, 11, 3, 14, 15, 0, 0, time.UTC), got)
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("09:00")))
	assert.Equal(t, TimeString("09:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 11, 3, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeStringValue(t *testing.T) {
	v, err := TimeString("12:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "12:00", v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}
