package reviewController

import (
	"context"
	"time"

	"cordpal/config"
	"cordpal/internal/database"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/services"
	"cordpal/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewWithStreak pairs a review with the reviewer's streak counters, the
// shape the day view renders.
type ReviewWithStreak struct {
	Review *Review    `json:"review"`
	Streak StreakData `json:"streak"`
}

// ReviewVersion is one entry of a review's edit trail. The current state is
// always the first entry.
type ReviewVersion struct {
	Score       float64   `json:"score"`
	ReviewText  string    `json:"reviewText"`
	FirstListen bool      `json:"firstListen"`
	LastUpdated time.Time `json:"lastUpdated"`
	Current     bool      `json:"current"`
}

type ReviewController struct {
	albumRepo     repositories.AlbumRepository
	pickRepo      repositories.DailyPickRepository
	profileRepo   repositories.AotdProfileRepository
	reviewService *services.ReviewService
	streakService *services.StreakService
	config        config.Config
	db            database.DB
}

type ReviewControllerInterface interface {
	SubmitReview(ctx context.Context, user *User, mbid string, day *time.Time, score float64, text string, firstListen bool) (*Review, error)
	GetReviewsForAlbumDay(ctx context.Context, mbid string, day *time.Time) ([]ReviewWithStreak, error)
	GetUserReview(ctx context.Context, user *User, mbid string, day time.Time) (*Review, error)
	GetReviewHistory(ctx context.Context, reviewID uuid.UUID) ([]ReviewVersion, error)
}

func New(
	repos repositories.Repository,
	svcs services.Service,
	config config.Config,
	db database.DB,
) ReviewControllerInterface {
	return &ReviewController{
		albumRepo:     repos.Album,
		pickRepo:      repos.DailyPick,
		profileRepo:   repos.Profile,
		reviewService: svcs.Review,
		streakService: svcs.Streak,
		config:        config,
		db:            db,
	}
}

func (c *ReviewController) resolveAlbum(ctx context.Context, mbid string) (*Album, error) {
	album, err := c.albumRepo.GetByMBID(ctx, c.db.SQL, mbid)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return album, nil
}

// resolveDay defaults a missing day to the album's most recent pick day.
func (c *ReviewController) resolveDay(
	ctx context.Context,
	albumID uuid.UUID,
	day *time.Time,
) (time.Time, error) {
	if day != nil {
		return utils.DateOnly(*day), nil
	}

	latest, err := c.pickRepo.GetLatestForAlbum(ctx, c.db.SQL, albumID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return time.Time{}, services.ErrNotFound
		}
		return time.Time{}, err
	}
	return utils.DateOnly(latest.Date), nil
}

func (c *ReviewController) SubmitReview(
	ctx context.Context,
	user *User,
	mbid string,
	day *time.Time,
	score float64,
	text string,
	firstListen bool,
) (*Review, error) {
	album, err := c.resolveAlbum(ctx, mbid)
	if err != nil {
		return nil, err
	}

	target := utils.Today()
	if day != nil {
		target = utils.DateOnly(*day)
	}

	return c.reviewService.SubmitReview(ctx, services.ReviewSubmission{
		AlbumID:     album.ID,
		UserID:      user.ID,
		Day:         target,
		Score:       score,
		ReviewText:  text,
		FirstListen: firstListen,
	})
}

func (c *ReviewController) GetReviewsForAlbumDay(
	ctx context.Context,
	mbid string,
	day *time.Time,
) ([]ReviewWithStreak, error) {
	album, err := c.resolveAlbum(ctx, mbid)
	if err != nil {
		return nil, err
	}

	target, err := c.resolveDay(ctx, album.ID, day)
	if err != nil {
		return nil, err
	}

	reviews, err := c.reviewService.GetReviewsForDay(ctx, album.ID, target)
	if err != nil {
		return nil, err
	}

	today := utils.Today()
	result := make([]ReviewWithStreak, 0, len(reviews))
	for _, review := range reviews {
		entry := ReviewWithStreak{Review: review}
		profile, err := c.profileRepo.GetByUserID(ctx, c.db.SQL, review.UserID)
		if err == nil {
			entry.Streak = profile.ToStreakData(today)
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		result = append(result, entry)
	}

	return result, nil
}

func (c *ReviewController) GetUserReview(
	ctx context.Context,
	user *User,
	mbid string,
	day time.Time,
) (*Review, error) {
	album, err := c.resolveAlbum(ctx, mbid)
	if err != nil {
		return nil, err
	}

	return c.reviewService.GetUserReview(ctx, album.ID, user.ID, day)
}

// GetReviewHistory returns a review's versions newest first, the live row
// prepended ahead of its snapshots.
func (c *ReviewController) GetReviewHistory(
	ctx context.Context,
	reviewID uuid.UUID,
) ([]ReviewVersion, error) {
	review, history, err := c.reviewService.GetReviewHistory(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	versions := make([]ReviewVersion, 0, len(history)+1)
	versions = append(versions, ReviewVersion{
		Score:       review.Score,
		ReviewText:  review.ReviewText,
		FirstListen: review.FirstListen,
		LastUpdated: review.LastUpdated,
		Current:     true,
	})
	for _, snapshot := range history {
		versions = append(versions, ReviewVersion{
			Score:       snapshot.Score,
			ReviewText:  snapshot.ReviewText,
			FirstListen: snapshot.FirstListen,
			LastUpdated: snapshot.LastUpdated,
		})
	}

	return versions, nil
}
