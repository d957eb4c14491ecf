//go:build unit

package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDay(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "valid day", input: "2025-07-04", wantError: false},
		{name: "leap day", input: "2024-02-29", wantError: false},
		{name: "not canonical", input: "2025-7-4", wantError: true},
		{name: "not a date", input: "2025-13-40", wantError: true},
		{name: "empty", input: "", wantError: true},
		{name: "garbage", input: "yesterday", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDay(tt.input)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrInvalidDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, d.String())
		})
	}
}

func TestDayOrderingAndNext(t *testing.T) {
	a, err := NewDay("2025-06-30")
	require.NoError(t, err)
	b, err := NewDay("2025-07-01")
	require.NoError(t, err)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, b, a.Next())

	// 月末・年末の繰り上がり
	eoy, err := NewDay("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, Day("2026-01-01"), eoy.Next())
}

func TestDayOfUsesClubZone(t *testing.T) {
	// 東部時間の7月4日 23:30 は UTC では翌日になるが、日付はクラブ基準
	utc := time.Date(2025, time.July, 5, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, Day("2025-07-04"), DayOf(utc))
}

func TestNewID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "valid year", input: "2025", wantError: false},
		{name: "too short", input: "25", wantError: true},
		{name: "not numeric", input: "20x5", wantError: true},
		{name: "too long", input: "20255", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewID(tt.input)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrInvalidSeason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestDefaultSeasonRollsOverOnSeptember20(t *testing.T) {
	zone := Zone()

	tests := []struct {
		name string
		now  time.Time
		want ID
	}{
		{
			name: "mid summer stays current year",
			now:  time.Date(2025, time.July, 10, 12, 0, 0, 0, zone),
			want: ID("2025"),
		},
		{
			name: "september 19 stays current year",
			now:  time.Date(2025, time.September, 19, 23, 59, 0, 0, zone),
			want: ID("2025"),
		},
		{
			name: "september 20 rolls to next year",
			now:  time.Date(2025, time.September, 20, 0, 0, 0, 0, zone),
			want: ID("2026"),
		},
		{
			name: "december rolls to next year",
			now:  time.Date(2025, time.December, 1, 9, 0, 0, 0, zone),
			want: ID("2026"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Default(tt.now))
		})
	}
}
