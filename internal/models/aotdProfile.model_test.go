package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsStreakAtRisk(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	t.Run("No streak means nothing at risk", func(t *testing.T) {
		profile := &AotdProfile{CurrentStreak: 0, LastReviewDate: &yesterday}
		assert.False(t, profile.IsStreakAtRisk(today))
	})

	t.Run("Reviewed today means safe", func(t *testing.T) {
		profile := &AotdProfile{CurrentStreak: 4, LastReviewDate: &today}
		assert.False(t, profile.IsStreakAtRisk(today))
	})

	t.Run("Reviewed yesterday means at risk", func(t *testing.T) {
		profile := &AotdProfile{CurrentStreak: 4, LastReviewDate: &yesterday}
		assert.True(t, profile.IsStreakAtRisk(today))
	})

	t.Run("Streak with no recorded review is at risk", func(t *testing.T) {
		profile := &AotdProfile{CurrentStreak: 1}
		assert.True(t, profile.IsStreakAtRisk(today))
	})
}

func TestToStreakData(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	profile := &AotdProfile{
		CurrentStreak:  5,
		LongestStreak:  12,
		LastReviewDate: &yesterday,
	}

	data := profile.ToStreakData(today)
	assert.Equal(t, 5, data.CurrentStreak)
	assert.Equal(t, 12, data.LongestStreak)
	assert.True(t, data.StreakAtRisk)
}
