package services

import (
	"context"
	"time"

	"cordpal/internal/database"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StreakService keeps per-user review streak counters. A streak advances when
// a user reviews consecutive pick days; pick days are the calendar, so a day
// the community skipped does not break anyone's streak.
type StreakService struct {
	profileRepo repositories.AotdProfileRepository
	pickRepo    repositories.DailyPickRepository
	db          database.DB
	log         logger.Logger
}

func NewStreakService(repos repositories.Repository, db database.DB) *StreakService {
	return &StreakService{
		profileRepo: repos.Profile,
		pickRepo:    repos.DailyPick,
		db:          db,
		log:         logger.New("streakService"),
	}
}

// RecordReview advances a user's streak for a newly created review on the
// given pick day. Safe to call at most once per user per day; a repeat call
// for the same day is a no-op.
func (s *StreakService) RecordReview(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	pickDay time.Time,
) error {
	log := s.log.Function("RecordReview")

	profile, err := s.profileRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	day := utils.DateOnly(pickDay)

	if profile.LastReviewDate != nil && utils.SameDay(*profile.LastReviewDate, day) {
		log.Debug("review already counted for day", "userID", userID, "day", day)
		return nil
	}

	continued := false
	priorPick, err := s.pickRepo.GetMostRecentBefore(ctx, tx, day)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil && profile.LastReviewDate != nil &&
		utils.SameDay(*profile.LastReviewDate, priorPick.Date) {
		continued = true
	}

	if continued {
		profile.CurrentStreak++
	} else {
		profile.CurrentStreak = 1
	}
	if profile.CurrentStreak > profile.LongestStreak {
		profile.LongestStreak = profile.CurrentStreak
	}
	profile.LastReviewDate = &day

	if err := s.profileRepo.Update(ctx, tx, profile); err != nil {
		return err
	}

	log.Info("streak recorded", "userID", userID, "day", day,
		"currentStreak", profile.CurrentStreak, "longestStreak", profile.LongestStreak)
	return nil
}

// ResetStaleStreaks zeroes the running streak of every user who missed the
// most recent pick day and has not reviewed today either. Longest streaks are
// never touched.
func (s *StreakService) ResetStaleStreaks(ctx context.Context, tx *gorm.DB) error {
	log := s.log.Function("ResetStaleStreaks")

	profiles, err := s.profileRepo.GetAll(ctx, tx)
	if err != nil {
		return err
	}

	today := utils.Today()

	var priorPickDay *time.Time
	priorPick, err := s.pickRepo.GetMostRecentBefore(ctx, tx, today)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil {
		day := utils.DateOnly(priorPick.Date)
		priorPickDay = &day
	}

	reset := 0
	for _, profile := range profiles {
		if profile.CurrentStreak == 0 {
			continue
		}
		if profile.LastReviewDate != nil {
			if utils.SameDay(*profile.LastReviewDate, today) {
				continue
			}
			if priorPickDay != nil && utils.SameDay(*profile.LastReviewDate, *priorPickDay) {
				continue
			}
		}

		profile.CurrentStreak = 0
		if err := s.profileRepo.Update(ctx, tx, profile); err != nil {
			return err
		}
		reset++
	}

	log.Info("stale streaks reset", "profiles", len(profiles), "reset", reset)
	return nil
}

// GetStreak returns a user's streak counters along with whether today's
// review is still outstanding.
func (s *StreakService) GetStreak(
	ctx context.Context,
	userID uuid.UUID,
) (*StreakData, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, s.db.SQL, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	data := profile.ToStreakData(utils.Today())
	return &data, nil
}
