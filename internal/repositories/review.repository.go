package repositories

import (
	"context"
	"time"

	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Review, error)
	GetForAlbumDay(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, day time.Time) ([]*Review, error)
	GetByAlbumUserDay(ctx context.Context, tx *gorm.DB, albumID, userID uuid.UUID, day time.Time) (*Review, error)
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Review, error)
	GetActiveReviewerIDs(ctx context.Context, tx *gorm.DB, since time.Time) ([]uuid.UUID, error)
	Create(ctx context.Context, tx *gorm.DB, review *Review) error
	Update(ctx context.Context, tx *gorm.DB, review *Review) error

	CreateHistory(ctx context.Context, tx *gorm.DB, history *ReviewHistory) error
	GetHistoryForReviewsOnDay(ctx context.Context, tx *gorm.DB, reviewIDs []uuid.UUID, day time.Time) ([]*ReviewHistory, error)
	GetHistoryForReview(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) ([]*ReviewHistory, error)
	GetLatestHistoryBefore(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, asOf time.Time) (*ReviewHistory, error)
}

type reviewRepository struct {
	log logger.Logger
}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{
		log: logger.New("reviewRepository"),
	}
}

func (r *reviewRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Review, error) {
	log := r.log.Function("GetByID")

	review, err := gorm.G[*Review](tx).
		Preload("User", nil).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get review", err, "id", id)
	}

	return review, nil
}

// GetForAlbumDay returns a pick day's reviews ordered by last_updated, the
// order the timeline merge walks them in.
func (r *reviewRepository) GetForAlbumDay(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
	day time.Time,
) ([]*Review, error) {
	log := r.log.Function("GetForAlbumDay")

	reviews, err := gorm.G[*Review](tx).
		Preload("User", nil).
		Where("album_id = ? AND aotd_date = ?", albumID, day).
		Order("last_updated ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get reviews for album day", err,
			"albumID", albumID, "day", day)
	}

	return reviews, nil
}

func (r *reviewRepository) GetByAlbumUserDay(
	ctx context.Context,
	tx *gorm.DB,
	albumID, userID uuid.UUID,
	day time.Time,
) (*Review, error) {
	log := r.log.Function("GetByAlbumUserDay")

	review, err := gorm.G[*Review](tx).
		Where("album_id = ? AND user_id = ? AND aotd_date = ?", albumID, userID, day).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get review for album user day", err,
			"albumID", albumID, "userID", userID, "day", day)
	}

	return review, nil
}

func (r *reviewRepository) GetLatestByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*Review, error) {
	log := r.log.Function("GetLatestByUser")

	review, err := gorm.G[*Review](tx).
		Where("user_id = ?", userID).
		Order("aotd_date DESC").
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get latest review for user", err, "userID", userID)
	}

	return review, nil
}

// GetActiveReviewerIDs returns the distinct users with at least one review on
// a pick day at or after the cutoff. Feeds the inactivity block check.
func (r *reviewRepository) GetActiveReviewerIDs(
	ctx context.Context,
	tx *gorm.DB,
	since time.Time,
) ([]uuid.UUID, error) {
	log := r.log.Function("GetActiveReviewerIDs")

	var userIDs []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&Review{}).
		Where("aotd_date >= ?", since).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, log.Err("failed to get active reviewer ids", err, "since", since)
	}

	return userIDs, nil
}

func (r *reviewRepository) Create(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := r.log.Function("Create")

	if err := gorm.G[Review](tx).Create(ctx, review); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return err
		}
		return log.Err("failed to create review", err,
			"albumID", review.AlbumID, "userID", review.UserID)
	}

	return nil
}

func (r *reviewRepository) Update(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(review).Error; err != nil {
		return log.Err("failed to update review", err, "reviewID", review.ID)
	}

	return nil
}

func (r *reviewRepository) CreateHistory(
	ctx context.Context,
	tx *gorm.DB,
	history *ReviewHistory,
) error {
	log := r.log.Function("CreateHistory")

	if err := gorm.G[ReviewHistory](tx).Create(ctx, history); err != nil {
		return log.Err("failed to create review history", err, "reviewID", history.ReviewID)
	}

	return nil
}

// GetHistoryForReviewsOnDay returns edit snapshots in recorded_at order, the
// second input stream of the timeline merge.
func (r *reviewRepository) GetHistoryForReviewsOnDay(
	ctx context.Context,
	tx *gorm.DB,
	reviewIDs []uuid.UUID,
	day time.Time,
) ([]*ReviewHistory, error) {
	log := r.log.Function("GetHistoryForReviewsOnDay")

	if len(reviewIDs) == 0 {
		return nil, nil
	}

	history, err := gorm.G[*ReviewHistory](tx).
		Preload("Review.User", nil).
		Where("review_id IN ? AND aotd_date = ?", reviewIDs, day).
		Order("recorded_at ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get review history for day", err, "day", day)
	}

	return history, nil
}

func (r *reviewRepository) GetHistoryForReview(
	ctx context.Context,
	tx *gorm.DB,
	reviewID uuid.UUID,
) ([]*ReviewHistory, error) {
	log := r.log.Function("GetHistoryForReview")

	history, err := gorm.G[*ReviewHistory](tx).
		Where("review_id = ?", reviewID).
		Order("recorded_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get review history", err, "reviewID", reviewID)
	}

	return history, nil
}

func (r *reviewRepository) GetLatestHistoryBefore(
	ctx context.Context,
	tx *gorm.DB,
	reviewID uuid.UUID,
	asOf time.Time,
) (*ReviewHistory, error) {
	log := r.log.Function("GetLatestHistoryBefore")

	history, err := gorm.G[*ReviewHistory](tx).
		Where("review_id = ? AND last_updated <= ?", reviewID, asOf).
		Order("last_updated DESC").
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get latest history before timestamp", err,
			"reviewID", reviewID, "asOf", asOf)
	}

	return history, nil
}
