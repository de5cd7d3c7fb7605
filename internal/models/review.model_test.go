package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReviewEdited(t *testing.T) {
	submitted := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("Untouched review is not edited", func(t *testing.T) {
		review := &Review{ReviewDate: submitted, LastUpdated: submitted}
		assert.False(t, review.Edited())
	})

	t.Run("Later update marks it edited", func(t *testing.T) {
		review := &Review{
			ReviewDate:  submitted,
			LastUpdated: submitted.Add(2 * time.Hour),
		}
		assert.True(t, review.Edited())
	})
}

func TestReviewSnapshot(t *testing.T) {
	submitted := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	edited := submitted.Add(3 * time.Hour)

	review := &Review{
		AotdDate:    time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Score:       8.5,
		ReviewText:  "spins well",
		FirstListen: true,
		ReviewDate:  submitted,
		LastUpdated: submitted,
	}
	review.ID = uuid.New()

	snapshot := review.Snapshot(edited)

	assert.Equal(t, review.ID, snapshot.ReviewID)
	assert.Equal(t, review.AotdDate, snapshot.AotdDate)
	assert.Equal(t, 8.5, snapshot.Score)
	assert.Equal(t, "spins well", snapshot.ReviewText)
	assert.True(t, snapshot.FirstListen)
	assert.Equal(t, submitted, snapshot.LastUpdated)
	assert.Equal(t, edited, snapshot.RecordedAt)
}
