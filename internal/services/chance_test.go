package services

import (
	"testing"
	"time"

	"cordpal/config"

	"github.com/stretchr/testify/assert"
)

func TestChancePercentage(t *testing.T) {
	t.Run("Proportional share rounded to two decimals", func(t *testing.T) {
		assert.InDelta(t, 33.33, chancePercentage(1, 3), 1e-9)
		assert.InDelta(t, 66.67, chancePercentage(2, 3), 1e-9)
		assert.InDelta(t, 50.0, chancePercentage(5, 10), 1e-9)
		assert.InDelta(t, 100.0, chancePercentage(7, 7), 1e-9)
	})

	t.Run("Shares sum to roughly one hundred", func(t *testing.T) {
		counts := []int64{1, 2, 3, 5, 8}
		var total int64
		for _, c := range counts {
			total += c
		}

		sum := 0.0
		for _, c := range counts {
			sum += chancePercentage(c, total)
		}
		assert.InDelta(t, 100.0, sum, 0.05)
	})

	t.Run("Empty pool yields zero instead of dividing by zero", func(t *testing.T) {
		assert.Equal(t, 0.0, chancePercentage(0, 0))
		assert.Equal(t, 0.0, chancePercentage(5, 0))
	})

	t.Run("User with no eligible submissions gets zero", func(t *testing.T) {
		assert.Equal(t, 0.0, chancePercentage(0, 12))
	})
}

func TestInactivityCutoff(t *testing.T) {
	service := &ChanceService{
		config: config.Config{InactivityWindowDays: 3},
	}

	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	// The window ends at the next midnight, so with a 3 day window a review
	// on the 28th still counts on the 30th
	cutoff := service.inactivityCutoff(today)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), cutoff)
}
