package models

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/stretchr/testify/assert"
)

func TestDailyPickFinalized(t *testing.T) {
	t.Run("Sentinel rating means not finalized", func(t *testing.T) {
		rating := UnfinalizedRating
		pick := &DailyPick{Rating: &rating}
		assert.False(t, pick.Finalized())
	})

	t.Run("Numeric rating means finalized", func(t *testing.T) {
		rating := 7.5
		pick := &DailyPick{Rating: &rating}
		assert.True(t, pick.Finalized())
	})

	t.Run("Nil rating means finalized with no reviews", func(t *testing.T) {
		pick := &DailyPick{}
		assert.True(t, pick.Finalized())
	})
}

func TestDailyPickHasTimeline(t *testing.T) {
	tests := []struct {
		name     string
		timeline string
		expected bool
	}{
		{"empty column", "", false},
		{"empty array", "[]", false},
		{"json null", "null", false},
		{"populated", `[{"type":"Review"}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick := &DailyPick{Timeline: datatypes.JSON(tt.timeline)}
			assert.Equal(t, tt.expected, pick.HasTimeline())
		})
	}
}
