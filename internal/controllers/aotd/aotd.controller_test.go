package aotdController

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cordpal/internal/database"
	. "cordpal/internal/models"
	"cordpal/internal/services"
	"cordpal/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// stubPickRepo serves picks by date; mutation paths are never reached in
// these tests.
type stubPickRepo struct {
	picks   []*DailyPick
	updates int
}

func (s *stubPickRepo) GetByDate(_ context.Context, _ *gorm.DB, date time.Time) (*DailyPick, error) {
	for _, p := range s.picks {
		if utils.SameDay(p.Date, date) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPickRepo) GetMostRecentBefore(_ context.Context, _ *gorm.DB, _ time.Time) (*DailyPick, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPickRepo) GetLatestForAlbum(_ context.Context, _ *gorm.DB, _ uuid.UUID) (*DailyPick, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPickRepo) GetDatesForAlbum(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ time.Time) ([]time.Time, error) {
	return nil, nil
}

func (s *stubPickRepo) Create(_ context.Context, _ *gorm.DB, _ *DailyPick) error {
	return nil
}

func (s *stubPickRepo) Update(_ context.Context, _ *gorm.DB, _ *DailyPick) error {
	s.updates++
	return nil
}

func (s *stubPickRepo) CountForAlbumSince(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ time.Time) (int64, error) {
	return 0, nil
}

func (s *stubPickRepo) CountForSubmitterSince(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ time.Time) (int64, error) {
	return 0, nil
}

func TestGetTimeline(t *testing.T) {
	ctx := context.Background()
	today := utils.Today()

	t.Run("Today's pick without a stored timeline stays live", func(t *testing.T) {
		rating := UnfinalizedRating
		pick := &DailyPick{
			AlbumID: uuid.New(),
			Date:    today,
			Rating:  &rating,
		}
		pick.ID = uuid.New()

		repo := &stubPickRepo{picks: []*DailyPick{pick}}
		// No transaction service wired: a rebuild attempt would panic here,
		// so a clean empty result proves none was made
		controller := &AotdController{pickRepo: repo, db: database.DB{}}

		events, err := controller.GetTimeline(ctx, today)
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.False(t, pick.HasTimeline())
		assert.Zero(t, repo.updates)
	})

	t.Run("Stored timeline is returned as-is", func(t *testing.T) {
		stored := []TimelineEvent{{
			Timestamp: today.Add(10 * time.Hour),
			Value:     8.0,
			UserID:    uuid.New(),
			Type:      TimelineEventReview,
			Score:     8.0,
			ReviewID:  uuid.New(),
		}}
		raw, err := json.Marshal(stored)
		require.NoError(t, err)

		rating := UnfinalizedRating
		pick := &DailyPick{
			AlbumID:  uuid.New(),
			Date:     today,
			Rating:   &rating,
			Timeline: datatypes.JSON(raw),
		}
		pick.ID = uuid.New()

		repo := &stubPickRepo{picks: []*DailyPick{pick}}
		controller := &AotdController{pickRepo: repo, db: database.DB{}}

		events, err := controller.GetTimeline(ctx, today)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, TimelineEventReview, events[0].Type)
		assert.Equal(t, 8.0, events[0].Score)
	})

	t.Run("Unknown day yields not found", func(t *testing.T) {
		controller := &AotdController{pickRepo: &stubPickRepo{}, db: database.DB{}}
		_, err := controller.GetTimeline(ctx, today.AddDate(0, 0, -30))
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}
