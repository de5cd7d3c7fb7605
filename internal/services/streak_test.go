package services

import (
	"context"
	"testing"
	"time"

	. "cordpal/internal/models"
	"cordpal/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreakFixture() (*StreakService, *fakeProfileRepo, *fakePickRepo) {
	profileRepo := &fakeProfileRepo{}
	pickRepo := &fakePickRepo{}
	service := &StreakService{
		profileRepo: profileRepo,
		pickRepo:    pickRepo,
		log:         logger.New("streakServiceTest"),
	}
	return service, profileRepo, pickRepo
}

func testProfile(current, longest int, lastReview *time.Time) *AotdProfile {
	p := &AotdProfile{
		UserID:         uuid.New(),
		CurrentStreak:  current,
		LongestStreak:  longest,
		LastReviewDate: lastReview,
	}
	p.ID = uuid.New()
	return p
}

func pickOn(date time.Time) *DailyPick {
	p := &DailyPick{
		AlbumID: uuid.New(),
		Date:    utils.DateOnly(date),
	}
	p.ID = uuid.New()
	return p
}

func TestRecordReview(t *testing.T) {
	ctx := context.Background()
	today := utils.Today()
	yesterday := today.AddDate(0, 0, -1)

	t.Run("First review starts a streak", func(t *testing.T) {
		service, profileRepo, _ := newStreakFixture()
		profile := testProfile(0, 0, nil)
		profileRepo.profiles = []*AotdProfile{profile}

		require.NoError(t, service.RecordReview(ctx, nil, profile.UserID, today))
		assert.Equal(t, 1, profile.CurrentStreak)
		assert.Equal(t, 1, profile.LongestStreak)
		require.NotNil(t, profile.LastReviewDate)
		assert.True(t, utils.SameDay(*profile.LastReviewDate, today))
	})

	t.Run("Reviewing the prior pick day extends the streak", func(t *testing.T) {
		service, profileRepo, pickRepo := newStreakFixture()
		profile := testProfile(3, 3, &yesterday)
		profileRepo.profiles = []*AotdProfile{profile}
		pickRepo.picks = []*DailyPick{pickOn(yesterday)}

		require.NoError(t, service.RecordReview(ctx, nil, profile.UserID, today))
		assert.Equal(t, 4, profile.CurrentStreak)
		assert.Equal(t, 4, profile.LongestStreak)
	})

	t.Run("Skipped community days do not break the streak", func(t *testing.T) {
		service, profileRepo, pickRepo := newStreakFixture()
		// No pick ran on the three days in between; the last pick day is the
		// last day the user reviewed
		fourDaysAgo := today.AddDate(0, 0, -4)
		profile := testProfile(2, 2, &fourDaysAgo)
		profileRepo.profiles = []*AotdProfile{profile}
		pickRepo.picks = []*DailyPick{pickOn(fourDaysAgo)}

		require.NoError(t, service.RecordReview(ctx, nil, profile.UserID, today))
		assert.Equal(t, 3, profile.CurrentStreak)
	})

	t.Run("Missing the prior pick day resets to one", func(t *testing.T) {
		service, profileRepo, pickRepo := newStreakFixture()
		threeDaysAgo := today.AddDate(0, 0, -3)
		profile := testProfile(5, 9, &threeDaysAgo)
		profileRepo.profiles = []*AotdProfile{profile}
		pickRepo.picks = []*DailyPick{pickOn(threeDaysAgo), pickOn(yesterday)}

		require.NoError(t, service.RecordReview(ctx, nil, profile.UserID, today))
		assert.Equal(t, 1, profile.CurrentStreak)
		assert.Equal(t, 9, profile.LongestStreak)
	})

	t.Run("Second review on the same day is a no-op", func(t *testing.T) {
		service, profileRepo, _ := newStreakFixture()
		profile := testProfile(2, 6, &today)
		profileRepo.profiles = []*AotdProfile{profile}

		require.NoError(t, service.RecordReview(ctx, nil, profile.UserID, today))
		assert.Equal(t, 2, profile.CurrentStreak)
		assert.Equal(t, 6, profile.LongestStreak)
		assert.Zero(t, profileRepo.updates)
	})

	t.Run("Unknown user yields not found", func(t *testing.T) {
		service, _, _ := newStreakFixture()
		err := service.RecordReview(ctx, nil, uuid.New(), today)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestResetStaleStreaks(t *testing.T) {
	ctx := context.Background()
	today := utils.Today()
	priorPickDay := today.AddDate(0, 0, -2)
	staleDay := today.AddDate(0, 0, -5)

	service, profileRepo, pickRepo := newStreakFixture()
	pickRepo.picks = []*DailyPick{pickOn(priorPickDay), pickOn(today)}

	reviewedToday := testProfile(4, 4, &today)
	onPriorPick := testProfile(6, 8, &priorPickDay)
	stale := testProfile(3, 8, &staleDay)
	idle := testProfile(0, 2, nil)
	profileRepo.profiles = []*AotdProfile{reviewedToday, onPriorPick, stale, idle}

	require.NoError(t, service.ResetStaleStreaks(ctx, nil))

	assert.Equal(t, 4, reviewedToday.CurrentStreak)
	assert.Equal(t, 6, onPriorPick.CurrentStreak)
	assert.Equal(t, 0, stale.CurrentStreak)
	assert.Equal(t, 8, stale.LongestStreak)
	assert.Equal(t, 0, idle.CurrentStreak)
	assert.Equal(t, 1, profileRepo.updates)
}
