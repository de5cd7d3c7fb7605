package services

import (
	"context"
	"fmt"
	"time"

	"cordpal/config"
	"cordpal/internal/database"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChanceService maintains each participant's selection eligibility and their
// proportional chance of having a submission drawn. Flags and chance rows are
// recomputed on review submission and in batch ahead of each selection run,
// never inline on reads.
type ChanceService struct {
	profileRepo repositories.AotdProfileRepository
	reviewRepo  repositories.ReviewRepository
	outageRepo  repositories.OutageRepository
	albumRepo   repositories.AlbumRepository
	pickRepo    repositories.DailyPickRepository
	chanceRepo  repositories.SelectionChanceRepository
	db          database.DB
	config      config.Config
	log         logger.Logger
}

func NewChanceService(
	repos repositories.Repository,
	db database.DB,
	config config.Config,
) *ChanceService {
	return &ChanceService{
		profileRepo: repos.Profile,
		reviewRepo:  repos.Review,
		outageRepo:  repos.Outage,
		albumRepo:   repos.Album,
		pickRepo:    repos.DailyPick,
		chanceRepo:  repos.Chance,
		db:          db,
		config:      config,
		log:         logger.New("chanceService"),
	}
}

// inactivityCutoff returns the earliest pick day that still counts as active:
// the trailing window ends at the next midnight, not the current one.
func (s *ChanceService) inactivityCutoff(today time.Time) time.Time {
	tomorrow := today.AddDate(0, 0, 1)
	return tomorrow.AddDate(0, 0, -s.config.InactivityWindowDays)
}

// RefreshBlockedFlag recomputes one user's inactivity flag. An active outage
// takes precedence and leaves the persisted flag untouched.
func (s *ChanceService) RefreshBlockedFlag(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) error {
	log := s.log.Function("RefreshBlockedFlag")

	profile, err := s.profileRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	today := utils.Today()
	tomorrow := today.AddDate(0, 0, 1)

	_, err = s.outageRepo.GetActiveForUser(ctx, tx, userID, tomorrow)
	if err == nil {
		log.Debug("user under outage, leaving inactivity flag untouched", "userID", userID)
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	blocked := true
	latest, err := s.reviewRepo.GetLatestByUser(ctx, tx, userID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil && !latest.AotdDate.Before(s.inactivityCutoff(today)) {
		blocked = false
	}

	if profile.SelectionBlocked == blocked {
		return nil
	}

	if err := s.profileRepo.SetSelectionBlocked(ctx, tx, profile.ID, blocked); err != nil {
		return err
	}

	log.Info("inactivity flag updated", "userID", userID, "blocked", blocked)
	return nil
}

// RefreshAllBlockedFlags recomputes every participant's inactivity flag in one
// pass, used ahead of selection and the chance batch.
func (s *ChanceService) RefreshAllBlockedFlags(ctx context.Context, tx *gorm.DB) error {
	log := s.log.Function("RefreshAllBlockedFlags")

	profiles, err := s.profileRepo.GetAll(ctx, tx)
	if err != nil {
		return err
	}

	today := utils.Today()
	tomorrow := today.AddDate(0, 0, 1)

	outageIDs, err := s.outageRepo.GetActiveUserIDs(ctx, tx, tomorrow)
	if err != nil {
		return err
	}
	underOutage := toIDSet(outageIDs)

	activeIDs, err := s.reviewRepo.GetActiveReviewerIDs(ctx, tx, s.inactivityCutoff(today))
	if err != nil {
		return err
	}
	active := toIDSet(activeIDs)

	updated := 0
	for _, profile := range profiles {
		if underOutage[profile.UserID] {
			continue
		}
		blocked := !active[profile.UserID]
		if profile.SelectionBlocked == blocked {
			continue
		}
		if err := s.profileRepo.SetSelectionBlocked(ctx, tx, profile.ID, blocked); err != nil {
			return err
		}
		profile.SelectionBlocked = blocked
		updated++
	}

	log.Info("inactivity flags refreshed", "profiles", len(profiles), "updated", updated)
	return nil
}

// RefreshAllChances recomputes the chance row for every participant. Blocked
// users get a zero row carrying the block reason; the rest split 100% in
// proportion to their unpicked submission counts.
func (s *ChanceService) RefreshAllChances(ctx context.Context, tx *gorm.DB) error {
	log := s.log.Function("RefreshAllChances")

	if err := s.RefreshAllBlockedFlags(ctx, tx); err != nil {
		return err
	}

	profiles, err := s.profileRepo.GetAll(ctx, tx)
	if err != nil {
		return err
	}

	today := utils.Today()
	tomorrow := today.AddDate(0, 0, 1)
	yearAgo := today.AddDate(0, 0, -s.config.NoRepeatWindowDays)

	// First pass: eligible submission counts, so percentages share one total
	eligibleCounts := make(map[uuid.UUID]int64, len(profiles))
	totalEligible := int64(0)
	for _, profile := range profiles {
		if profile.SelectionBlocked {
			continue
		}
		if _, err := s.outageRepo.GetActiveForUser(ctx, tx, profile.UserID, tomorrow); err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		submitted, err := s.albumRepo.CountBySubmitter(ctx, tx, profile.UserID)
		if err != nil {
			return err
		}
		picked, err := s.pickRepo.CountForSubmitterSince(ctx, tx, profile.UserID, yearAgo)
		if err != nil {
			return err
		}
		eligibleCounts[profile.UserID] = submitted - picked
		totalEligible += submitted - picked
	}

	for _, profile := range profiles {
		row, err := s.buildChanceRow(ctx, tx, profile, today, tomorrow, eligibleCounts, totalEligible)
		if err != nil {
			return err
		}
		if err := s.chanceRepo.Upsert(ctx, tx, row); err != nil {
			return err
		}
	}

	log.Info("selection chances refreshed",
		"profiles", len(profiles), "totalEligible", totalEligible)
	return nil
}

func (s *ChanceService) buildChanceRow(
	ctx context.Context,
	tx *gorm.DB,
	profile *AotdProfile,
	today, tomorrow time.Time,
	eligibleCounts map[uuid.UUID]int64,
	totalEligible int64,
) (*SelectionChance, error) {
	outage, err := s.outageRepo.GetActiveForUser(ctx, tx, profile.UserID, tomorrow)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if outage != nil {
		reason := outage.Reason
		return &SelectionChance{
			ProfileID:        profile.ID,
			ChancePercentage: 0,
			BlockType:        BlockOutage,
			Reason:           &reason,
			OutageID:         &outage.ID,
		}, nil
	}

	if profile.SelectionBlocked {
		reason := s.inactivityReason(ctx, tx, profile.UserID, today)
		return &SelectionChance{
			ProfileID:        profile.ID,
			ChancePercentage: 0,
			BlockType:        BlockInactivity,
			Reason:           &reason,
		}, nil
	}

	return &SelectionChance{
		ProfileID:        profile.ID,
		ChancePercentage: chancePercentage(eligibleCounts[profile.UserID], totalEligible),
		BlockType:        BlockNone,
	}, nil
}

// chancePercentage is the user's rounded share of the eligible pool. A drained
// pool yields 0 for everyone rather than a divide-by-zero.
func chancePercentage(userEligible, totalEligible int64) float64 {
	if totalEligible <= 0 {
		return 0
	}
	return decimal.NewFromInt(userEligible * 100).
		Div(decimal.NewFromInt(totalEligible)).
		Round(2).
		InexactFloat64()
}

func (s *ChanceService) inactivityReason(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	today time.Time,
) string {
	latest, err := s.reviewRepo.GetLatestByUser(ctx, tx, userID)
	if err != nil {
		return fmt.Sprintf("No reviews submitted in the last %d days",
			s.config.InactivityWindowDays)
	}

	days := int(today.Sub(utils.DateOnly(latest.AotdDate)).Hours() / 24)
	return fmt.Sprintf("No reviews submitted in the last %d days (last review %d days ago)",
		s.config.InactivityWindowDays, days)
}

// GetChance reads the cached chance row for a user. It never recomputes; a
// missing row means the batch has not run for them yet.
func (s *ChanceService) GetChance(
	ctx context.Context,
	userID uuid.UUID,
) (*ChanceResult, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, s.db.SQL, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	chance, err := s.chanceRepo.GetByProfileID(ctx, s.db.SQL, profile.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := chance.ToResult()
	return &result, nil
}

func toIDSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
