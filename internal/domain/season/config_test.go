//go:build unit

package season

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackConfig(t *testing.T) {
	cfg := Fallback(ID("2025"))

	assert.Equal(t, Day("2025-06-01"), cfg.Start)
	assert.Equal(t, Day("2025-09-01"), cfg.End)
	assert.Equal(t, DefaultPerDayCap, cfg.PerDayCap)
	assert.Equal(t, DefaultPerUserMax, cfg.PerUserMax)
	assert.Equal(t, DefaultCostIndividualPerPerson, cfg.Cost.IndividualPerPerson)
	assert.Equal(t, DefaultCostFamilyFlat, cfg.Cost.FamilyFlat)
	assert.True(t, cfg.Visible)
	require.NoError(t, cfg.Validate())
}

func TestConfigContainsInclusiveBounds(t *testing.T) {
	cfg := Fallback(ID("2025"))

	tests := []struct {
		name string
		day  Day
		want bool
	}{
		{name: "start is inside", day: Day("2025-06-01"), want: true},
		{name: "end is inside", day: Day("2025-09-01"), want: true},
		{name: "middle is inside", day: Day("2025-07-15"), want: true},
		{name: "day before start", day: Day("2025-05-31"), want: false},
		{name: "day after end", day: Day("2025-09-02"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Contains(tt.day))
		})
	}
}

func TestConfigDays(t *testing.T) {
	cfg := Config{
		Season: ID("2025"),
		Start:  Day("2025-06-29"),
		End:    Day("2025-07-02"),
	}

	days := cfg.Days()
	assert.Equal(t, []Day{
		Day("2025-06-29"),
		Day("2025-06-30"),
		Day("2025-07-01"),
		Day("2025-07-02"),
	}, days)
}

func TestConfigDaysSingleAndInverted(t *testing.T) {
	single := Config{Start: Day("2025-07-01"), End: Day("2025-07-01")}
	assert.Equal(t, []Day{Day("2025-07-01")}, single.Days())

	inverted := Config{Start: Day("2025-07-02"), End: Day("2025-07-01")}
	assert.Nil(t, inverted.Days())
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidRange)
}
