package services

import (
	"testing"
	"time"

	. "cordpal/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(hour, min int) time.Time {
	return time.Date(2026, 8, 30, hour, min, 0, 0, time.UTC)
}

// lookupFromHistory resolves snapshots the way the repository would: the most
// recent row for the review with last_updated at or before the instant.
func lookupFromHistory(history []*ReviewHistory) snapshotLookup {
	return func(reviewID uuid.UUID, asOf time.Time) (*ReviewHistory, error) {
		var best *ReviewHistory
		for _, h := range history {
			if h.ReviewID != reviewID || h.LastUpdated.After(asOf) {
				continue
			}
			if best == nil || h.LastUpdated.After(best.LastUpdated) {
				best = h
			}
		}
		return best, nil
	}
}

func newReview(user User, score float64, submitted, updated time.Time) *Review {
	r := &Review{
		UserID:      user.ID,
		User:        user,
		Score:       score,
		ReviewDate:  submitted,
		LastUpdated: updated,
	}
	r.ID = uuid.New()
	return r
}

func newSnapshot(review *Review, score float64, lastUpdated, recordedAt time.Time) *ReviewHistory {
	return &ReviewHistory{
		ReviewID:    review.ID,
		Review:      *review,
		Score:       score,
		ReviewDate:  review.ReviewDate,
		LastUpdated: lastUpdated,
		RecordedAt:  recordedAt,
	}
}

func testUser(nickname string) User {
	u := User{
		DiscordID: nickname + "#1234",
		Nickname:  nickname,
	}
	u.ID = uuid.New()
	return u
}

func TestMergeTimeline(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")

	t.Run("Merges submissions and edits chronologically", func(t *testing.T) {
		// alice submits 8.0 at 10:00, bob submits 6.0 at 11:00,
		// alice edits to 9.0 at 12:00
		reviewA := newReview(alice, 9.0, day(10, 0), day(12, 0))
		reviewB := newReview(bob, 6.0, day(11, 0), day(11, 0))
		snapshot := newSnapshot(reviewA, 8.0, day(10, 0), day(12, 0))

		// Ordered by last_updated and recorded_at respectively
		reviews := []*Review{reviewB, reviewA}
		history := []*ReviewHistory{snapshot}

		events, err := mergeTimeline(reviews, history, lookupFromHistory(history))
		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, TimelineEventReview, events[0].Type)
		assert.Equal(t, bob.Nickname, events[0].UserNickname)
		assert.Equal(t, 6.0, events[0].Score)
		assert.InDelta(t, 7.0, events[0].Value, 1e-9)

		assert.Equal(t, TimelineEventReview, events[1].Type)
		assert.Equal(t, alice.Nickname, events[1].UserNickname)
		assert.InDelta(t, 7.5, events[1].Value, 1e-9)

		assert.Equal(t, TimelineEventFirstUpdate, events[2].Type)
		assert.Equal(t, alice.Nickname, events[2].UserNickname)
		assert.Equal(t, 8.0, events[2].Score)
		assert.Equal(t, day(10, 0), events[2].Timestamp)
		assert.InDelta(t, 7.0, events[2].Value, 1e-9)
	})

	t.Run("Review events carry the final score at the edit instant", func(t *testing.T) {
		// An edited review emits its Review event at last_updated with the
		// final score; the original submission surfaces only as First Update.
		// Long-standing behavior the frontend renders around.
		reviewA := newReview(alice, 9.0, day(10, 0), day(12, 0))
		snapshot := newSnapshot(reviewA, 8.0, day(10, 0), day(12, 0))

		reviews := []*Review{reviewA}
		history := []*ReviewHistory{snapshot}

		events, err := mergeTimeline(reviews, history, lookupFromHistory(history))
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, TimelineEventReview, events[0].Type)
		assert.Equal(t, day(12, 0), events[0].Timestamp)
		assert.Equal(t, 9.0, events[0].Score)

		assert.Equal(t, TimelineEventFirstUpdate, events[1].Type)
		assert.Equal(t, day(10, 0), events[1].Timestamp)
		assert.Equal(t, 8.0, events[1].Score)
	})

	t.Run("Suppresses edits that did not change the score", func(t *testing.T) {
		// alice edits twice: first only the text (score unchanged), then the
		// score. Only the score change shows up.
		reviewA := newReview(alice, 7.0, day(10, 0), day(13, 0))
		first := newSnapshot(reviewA, 8.0, day(10, 0), day(11, 0))
		second := newSnapshot(reviewA, 8.0, day(11, 0), day(13, 0))

		reviews := []*Review{reviewA}
		history := []*ReviewHistory{first, second}

		events, err := mergeTimeline(reviews, history, lookupFromHistory(history))
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, TimelineEventFirstUpdate, events[0].Type)
		assert.Equal(t, 8.0, events[0].Score)

		assert.Equal(t, TimelineEventReview, events[1].Type)
		assert.Equal(t, 7.0, events[1].Score)
	})

	t.Run("Second changed edit is tagged Update", func(t *testing.T) {
		reviewA := newReview(alice, 5.0, day(10, 0), day(14, 0))
		first := newSnapshot(reviewA, 8.0, day(10, 0), day(11, 0))
		second := newSnapshot(reviewA, 6.0, day(11, 0), day(14, 0))

		reviews := []*Review{reviewA}
		history := []*ReviewHistory{first, second}

		events, err := mergeTimeline(reviews, history, lookupFromHistory(history))
		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, TimelineEventFirstUpdate, events[0].Type)
		assert.Equal(t, 8.0, events[0].Score)
		// The final edit's snapshot lands at the same instant as the review's
		// last_updated; the review wins the tie
		assert.Equal(t, TimelineEventReview, events[1].Type)
		assert.Equal(t, 5.0, events[1].Score)
		assert.Equal(t, TimelineEventUpdate, events[2].Type)
		assert.Equal(t, 6.0, events[2].Score)
	})

	t.Run("Empty day yields empty timeline", func(t *testing.T) {
		events, err := mergeTimeline(nil, nil, lookupFromHistory(nil))
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestPartialAverage(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")

	t.Run("Unedited reviews contribute their current score", func(t *testing.T) {
		reviews := []*Review{
			newReview(alice, 8.0, day(10, 0), day(10, 0)),
			newReview(bob, 6.0, day(11, 0), day(11, 0)),
		}

		avg, err := partialAverage(reviews, day(10, 30), lookupFromHistory(nil))
		require.NoError(t, err)
		assert.InDelta(t, 7.0, avg, 1e-9)
	})

	t.Run("Edited review rolls back to its snapshot before the instant", func(t *testing.T) {
		reviewA := newReview(alice, 9.0, day(10, 0), day(12, 0))
		reviewB := newReview(bob, 6.0, day(11, 0), day(11, 0))
		history := []*ReviewHistory{
			newSnapshot(reviewA, 8.0, day(10, 0), day(12, 0)),
		}

		avg, err := partialAverage(
			[]*Review{reviewA, reviewB}, day(11, 0), lookupFromHistory(history))
		require.NoError(t, err)
		assert.InDelta(t, 7.0, avg, 1e-9)
	})

	t.Run("Edited review past the instant uses its current score", func(t *testing.T) {
		reviewA := newReview(alice, 9.0, day(10, 0), day(12, 0))

		avg, err := partialAverage([]*Review{reviewA}, day(13, 0), lookupFromHistory(nil))
		require.NoError(t, err)
		assert.InDelta(t, 9.0, avg, 1e-9)
	})

	t.Run("Missing snapshot falls back to the current score", func(t *testing.T) {
		reviewA := newReview(alice, 9.0, day(10, 0), day(12, 0))

		avg, err := partialAverage([]*Review{reviewA}, day(9, 0), lookupFromHistory(nil))
		require.NoError(t, err)
		assert.InDelta(t, 9.0, avg, 1e-9)
	})

	t.Run("Every review counts exactly once", func(t *testing.T) {
		// A review edited three times still contributes a single share
		reviewA := newReview(alice, 4.0, day(10, 0), day(14, 0))
		reviewB := newReview(bob, 6.0, day(11, 0), day(11, 0))
		history := []*ReviewHistory{
			newSnapshot(reviewA, 8.0, day(10, 0), day(12, 0)),
			newSnapshot(reviewA, 7.0, day(12, 0), day(13, 0)),
			newSnapshot(reviewA, 5.0, day(13, 0), day(14, 0)),
		}

		avg, err := partialAverage(
			[]*Review{reviewA, reviewB}, day(12, 30), lookupFromHistory(history))
		require.NoError(t, err)
		// alice's state at 12:30 was the 7.0 snapshot
		assert.InDelta(t, 6.5, avg, 1e-9)
	})
}
