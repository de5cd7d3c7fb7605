package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"cordpal/config"
	"cordpal/internal/database"
	"cordpal/internal/events"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SelectionService draws the album of the day. A day's pick moves through
// three states: no pick, pick with the unfinalized sentinel rating, and
// finalized pick carrying its frozen rating (or null when nobody reviewed).
type SelectionService struct {
	albumRepo   repositories.AlbumRepository
	pickRepo    repositories.DailyPickRepository
	reviewRepo  repositories.ReviewRepository
	profileRepo repositories.AotdProfileRepository
	outageRepo  repositories.OutageRepository
	chance      *ChanceService
	timeline    *TimelineService
	transaction *TransactionService
	eventBus    *events.EventBus
	db          database.DB
	config      config.Config
	log         logger.Logger
}

func NewSelectionService(
	repos repositories.Repository,
	chance *ChanceService,
	timeline *TimelineService,
	transaction *TransactionService,
	eventBus *events.EventBus,
	db database.DB,
	config config.Config,
) *SelectionService {
	return &SelectionService{
		albumRepo:   repos.Album,
		pickRepo:    repos.DailyPick,
		reviewRepo:  repos.Review,
		profileRepo: repos.Profile,
		outageRepo:  repos.Outage,
		chance:      chance,
		timeline:    timeline,
		transaction: transaction,
		eventBus:    eventBus,
		db:          db,
		config:      config,
		log:         logger.New("selectionService"),
	}
}

// SelectDailyPick runs the daily draw for today. It refreshes eligibility
// flags, draws uniformly from unblocked submitters' albums while rejecting
// anything picked within the no-repeat window, persists the pick, and
// finalizes yesterday's pick as a side effect.
func (s *SelectionService) SelectDailyPick(ctx context.Context) (*DailyPick, error) {
	log := s.log.Function("SelectDailyPick")

	today := utils.Today()

	var pick *DailyPick
	var finalized *DailyPick
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		pick, finalized, err = s.selectDailyPickTx(ctx, tx, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.PublishPickSelected(pick, false); err != nil {
		log.Warn("failed to publish selection event", "pickID", pick.ID, "error", err)
	}
	if finalized != nil {
		if err := s.eventBus.PublishPickFinalized(finalized); err != nil {
			log.Warn("failed to publish finalization event", "pickID", finalized.ID, "error", err)
		}
	}

	log.Info("daily pick selected", "pickID", pick.ID, "albumID", pick.AlbumID, "date", today)
	return pick, nil
}

// selectDailyPickTx runs the draw inside an open transaction: precondition
// check, flag refresh, draw, create, then yesterday's finalization.
func (s *SelectionService) selectDailyPickTx(
	ctx context.Context,
	tx *gorm.DB,
	today time.Time,
) (*DailyPick, *DailyPick, error) {
	log := s.log.Function("selectDailyPickTx")

	_, err := s.pickRepo.GetByDate(ctx, tx, today)
	if err == nil {
		return nil, nil, ErrAlreadySelected
	}
	if err != gorm.ErrRecordNotFound {
		return nil, nil, err
	}

	if err := s.chance.RefreshAllBlockedFlags(ctx, tx); err != nil {
		return nil, nil, err
	}

	album, err := s.drawAlbum(ctx, tx, today)
	if err != nil {
		return nil, nil, err
	}

	rating := UnfinalizedRating
	pick := &DailyPick{
		AlbumID: album.ID,
		Album:   *album,
		Date:    today,
		Manual:  false,
		Rating:  &rating,
	}
	if err := s.pickRepo.Create(ctx, tx, pick); err != nil {
		// Unique index on the pick date closes the race between two
		// concurrent selection runs
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrAlreadySelected
		}
		return nil, nil, err
	}

	// Yesterday's pick freezes now that its review window is over. A
	// finalization failure never voids today's draw.
	yesterday := today.AddDate(0, 0, -1)
	finalized, err := s.FinalizeDay(ctx, tx, yesterday)
	if err != nil {
		log.Warn("failed to finalize previous pick", "day", yesterday, "error", err)
		finalized = nil
	}

	return pick, finalized, nil
}

// drawAlbum builds the candidate pool and draws until an album clears the
// no-repeat window or the pool runs dry.
func (s *SelectionService) drawAlbum(
	ctx context.Context,
	tx *gorm.DB,
	today time.Time,
) (*Album, error) {
	log := s.log.Function("drawAlbum")

	blockedIDs, err := s.profileRepo.GetBlockedUserIDs(ctx, tx)
	if err != nil {
		return nil, err
	}
	outageIDs, err := s.outageRepo.GetActiveUserIDs(ctx, tx, today)
	if err != nil {
		return nil, err
	}

	excluded := make([]uuid.UUID, 0, len(blockedIDs)+len(outageIDs))
	excluded = append(excluded, blockedIDs...)
	excluded = append(excluded, outageIDs...)

	pool, err := s.albumRepo.GetAllExcludingSubmitters(ctx, tx, excluded)
	if err != nil {
		return nil, err
	}

	noRepeatCutoff := today.AddDate(0, 0, -s.config.NoRepeatWindowDays)

	for len(pool) > 0 {
		i := rand.IntN(len(pool))
		candidate := pool[i]

		picked, err := s.pickRepo.CountForAlbumSince(ctx, tx, candidate.ID, noRepeatCutoff)
		if err != nil {
			return nil, err
		}
		if picked == 0 {
			return candidate, nil
		}

		// Rejected draws leave the working pool, not the album store
		log.Debug("candidate picked within no-repeat window, rejecting",
			"albumID", candidate.ID)
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	return nil, ErrNoEligibleAlbums
}

// SelectDailyPickAdmin creates or overwrites the pick for an arbitrary date.
// It bypasses eligibility, the no-repeat window, and the one-pick-per-day
// precondition. Intentionally unsafe; the admin surface owns the consequences.
func (s *SelectionService) SelectDailyPickAdmin(
	ctx context.Context,
	date time.Time,
	albumID uuid.UUID,
	annotation *string,
) (*DailyPick, error) {
	log := s.log.Function("SelectDailyPickAdmin")

	day := utils.DateOnly(date)

	var pick *DailyPick
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		album, err := s.albumRepo.GetByID(ctx, tx, albumID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		existing, err := s.pickRepo.GetByDate(ctx, tx, day)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		if existing != nil {
			existing.AlbumID = album.ID
			existing.Album = *album
			existing.Manual = true
			existing.AdminMessage = annotation
			if err := s.pickRepo.Update(ctx, tx, existing); err != nil {
				return err
			}
			pick = existing
			return nil
		}

		rating := UnfinalizedRating
		pick = &DailyPick{
			AlbumID:      album.ID,
			Album:        *album,
			Date:         day,
			Manual:       true,
			AdminMessage: annotation,
			Rating:       &rating,
		}
		return s.pickRepo.Create(ctx, tx, pick)
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.PublishPickSelected(pick, true); err != nil {
		log.Warn("failed to publish selection event", "pickID", pick.ID, "error", err)
	}

	log.Info("manual pick set", "pickID", pick.ID, "albumID", albumID, "date", day)
	return pick, nil
}

// FinalizeDay freezes a past pick: rebuild its timeline, then write the
// unrounded average (null when the day drew no reviews) over the sentinel.
// Already-finalized picks are left alone.
func (s *SelectionService) FinalizeDay(
	ctx context.Context,
	tx *gorm.DB,
	day time.Time,
) (*DailyPick, error) {
	log := s.log.Function("FinalizeDay")

	day = utils.DateOnly(day)

	pick, err := s.pickRepo.GetByDate(ctx, tx, day)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	if pick.Finalized() {
		log.Debug("pick already finalized", "pickID", pick.ID, "day", day)
		return nil, nil
	}

	if _, err := s.timeline.BuildTimeline(ctx, tx, pick); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.GetForAlbumDay(ctx, tx, pick.AlbumID, day)
	if err != nil {
		return nil, err
	}

	pick.Rating = nil
	if len(reviews) > 0 {
		sum := 0.0
		for _, review := range reviews {
			sum += review.Score
		}
		mean := sum / float64(len(reviews))
		pick.Rating = &mean
	}

	if err := s.pickRepo.Update(ctx, tx, pick); err != nil {
		return nil, err
	}

	log.Info("pick finalized", "pickID", pick.ID, "day", day,
		"reviews", len(reviews))
	return pick, nil
}
