package services

import (
	"context"
	"math"
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

// ReviewSubmission is the validated input for creating or editing a review.
type ReviewSubmission struct {
	AlbumID     uuid.UUID
	UserID      uuid.UUID
	Day         time.Time
	Score       float64
	ReviewText  string
	FirstListen bool
}

// ReviewService owns review writes. A first submission feeds the streak
// tracker and eligibility flags; an edit snapshots the old state into history
// so timelines stay reconstructable.
type ReviewService struct {
	pickRepo    repositories.DailyPickRepository
	reviewRepo  repositories.ReviewRepository
	profileRepo repositories.AotdProfileRepository
	streak      *StreakService
	chance      *ChanceService
	transaction *TransactionService
	eventBus    *events.EventBus
	db          database.DB
	config      config.Config
	log         logger.Logger
}

func NewReviewService(
	repos repositories.Repository,
	streak *StreakService,
	chance *ChanceService,
	transaction *TransactionService,
	eventBus *events.EventBus,
	db database.DB,
	config config.Config,
) *ReviewService {
	return &ReviewService{
		pickRepo:    repos.DailyPick,
		reviewRepo:  repos.Review,
		profileRepo: repos.Profile,
		streak:      streak,
		chance:      chance,
		transaction: transaction,
		eventBus:    eventBus,
		db:          db,
		config:      config,
		log:         logger.New("reviewService"),
	}
}

// SubmitReview creates a user's review for a pick day, or routes to the edit
// path when one already exists.
func (s *ReviewService) SubmitReview(
	ctx context.Context,
	submission ReviewSubmission,
) (*Review, error) {
	log := s.log.Function("SubmitReview")

	if !s.validScore(submission.Score) {
		return nil, ErrInvalidScore
	}

	day := utils.DateOnly(submission.Day)

	var review *Review
	var created bool
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		pick, err := s.pickRepo.GetByDate(ctx, tx, day)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPickMismatch
			}
			return err
		}
		if pick.AlbumID != submission.AlbumID {
			return ErrPickMismatch
		}

		existing, err := s.reviewRepo.GetByAlbumUserDay(
			ctx, tx, submission.AlbumID, submission.UserID, day)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		if existing != nil {
			review = existing
			return s.RecordEdit(ctx, tx, review, submission)
		}

		now := time.Now().UTC()
		review = &Review{
			AlbumID:     submission.AlbumID,
			UserID:      submission.UserID,
			AotdDate:    day,
			Score:       submission.Score,
			ReviewText:  submission.ReviewText,
			FirstListen: submission.FirstListen,
			ReviewDate:  now,
			LastUpdated: now,
			Version:     1,
		}
		if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
			return err
		}
		created = true

		s.ensureProfile(ctx, tx, submission.UserID)

		if err := s.streak.RecordReview(ctx, tx, submission.UserID, day); err != nil {
			return err
		}
		return s.chance.RefreshBlockedFlag(ctx, tx, submission.UserID)
	})
	if err != nil {
		return nil, err
	}

	eventType := events.REVIEW_EDITED
	if created {
		eventType = events.REVIEW_SUBMITTED
	}
	if err := s.eventBus.PublishReviewActivity(eventType, review); err != nil {
		log.Warn("failed to publish review event", "reviewID", review.ID, "error", err)
	}

	log.Info("review submitted", "reviewID", review.ID, "userID", submission.UserID,
		"day", day, "created", created)
	return review, nil
}

// RecordEdit snapshots the review's current state into history, then applies
// the new values with a fresh LastUpdated and a version bump. Always explicit;
// nothing mutates a review row without passing through here.
func (s *ReviewService) RecordEdit(
	ctx context.Context,
	tx *gorm.DB,
	review *Review,
	submission ReviewSubmission,
) error {
	now := time.Now().UTC()

	snapshot := review.Snapshot(now)
	if err := s.reviewRepo.CreateHistory(ctx, tx, &snapshot); err != nil {
		return err
	}

	review.Score = submission.Score
	review.ReviewText = submission.ReviewText
	review.FirstListen = submission.FirstListen
	review.LastUpdated = now
	review.Version++

	return s.reviewRepo.Update(ctx, tx, review)
}

// GetUserReview returns a user's review for an album on a pick day.
func (s *ReviewService) GetUserReview(
	ctx context.Context,
	albumID, userID uuid.UUID,
	day time.Time,
) (*Review, error) {
	review, err := s.reviewRepo.GetByAlbumUserDay(
		ctx, s.db.SQL, albumID, userID, utils.DateOnly(day))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

// GetReviewsForDay lists a pick day's reviews in submission order.
func (s *ReviewService) GetReviewsForDay(
	ctx context.Context,
	albumID uuid.UUID,
	day time.Time,
) ([]*Review, error) {
	return s.reviewRepo.GetForAlbumDay(ctx, s.db.SQL, albumID, utils.DateOnly(day))
}

// GetReviewHistory returns a review's edit trail, current version first.
func (s *ReviewService) GetReviewHistory(
	ctx context.Context,
	reviewID uuid.UUID,
) (*Review, []*ReviewHistory, error) {
	review, err := s.reviewRepo.GetByID(ctx, s.db.SQL, reviewID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	history, err := s.reviewRepo.GetHistoryForReview(ctx, s.db.SQL, reviewID)
	if err != nil {
		return nil, nil, err
	}

	return review, history, nil
}

// ensureProfile lazily creates the streak profile for first-time reviewers.
func (s *ReviewService) ensureProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID) {
	log := s.log.Function("ensureProfile")

	_, err := s.profileRepo.GetByUserID(ctx, tx, userID)
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Warn("failed to look up profile", "userID", userID, "error", err)
		return
	}

	profile := &AotdProfile{UserID: userID}
	if err := s.profileRepo.Create(ctx, tx, profile); err != nil {
		log.Warn("failed to create profile", "userID", userID, "error", err)
	}
}

// validScore accepts scores in [0, 10] on the configured step.
func (s *ReviewService) validScore(score float64) bool {
	if score < 0 || score > 10 {
		return false
	}
	steps := score / s.config.ScoreStep
	return math.Abs(steps-math.Round(steps)) < 1e-9
}
