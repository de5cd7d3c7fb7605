package services

import (
	"context"
	"math"
	"time"

	"cordpal/config"
	"cordpal/internal/database"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// RatingService computes an album's average rating for a pick day, preferring
// the frozen value a finalized pick carries over a fresh pass across reviews.
type RatingService struct {
	albumRepo  repositories.AlbumRepository
	pickRepo   repositories.DailyPickRepository
	reviewRepo repositories.ReviewRepository
	db         database.DB
	config     config.Config
	log        logger.Logger
}

func NewRatingService(
	repos repositories.Repository,
	db database.DB,
	config config.Config,
) *RatingService {
	return &RatingService{
		albumRepo:  repos.Album,
		pickRepo:   repos.DailyPick,
		reviewRepo: repos.Review,
		db:         db,
		config:     config,
		log:        logger.New("ratingService"),
	}
}

// GetRating returns the album's average for the given pick day, or nil when
// the day received no reviews. When day is nil the album's most recent pick
// day is used.
func (s *RatingService) GetRating(
	ctx context.Context,
	mbid string,
	day *time.Time,
	rounded bool,
) (*float64, error) {
	log := s.log.Function("GetRating")

	album, err := s.albumRepo.GetByMBID(ctx, s.db.SQL, mbid)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	pickDay := time.Time{}
	if day != nil {
		pickDay = utils.DateOnly(*day)
	} else {
		latest, err := s.pickRepo.GetLatestForAlbum(ctx, s.db.SQL, album.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		pickDay = utils.DateOnly(latest.Date)
	}

	pick, err := s.pickRepo.GetByDate(ctx, s.db.SQL, pickDay)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if pick.Finalized() {
		if pick.Rating == nil {
			return nil, nil
		}
		value := *pick.Rating
		if rounded {
			value = RoundToStep(value, s.config.ScoreStep)
		}
		return &value, nil
	}

	rating, err := s.computeFromReviews(ctx, pick, pickDay, rounded)
	if err != nil {
		return nil, log.Err("failed to compute rating from reviews", err,
			"mbid", mbid, "day", pickDay)
	}

	return rating, nil
}

func (s *RatingService) computeFromReviews(
	ctx context.Context,
	pick *DailyPick,
	pickDay time.Time,
	rounded bool,
) (*float64, error) {
	reviews, err := s.reviewRepo.GetForAlbumDay(ctx, s.db.SQL, pick.AlbumID, pickDay)
	if err != nil {
		return nil, err
	}

	if len(reviews) == 0 {
		return nil, nil
	}

	sum := 0.0
	for _, review := range reviews {
		sum += review.Score
	}

	mean := sum / float64(len(reviews))
	if rounded {
		mean = RoundToStep(mean, s.config.ScoreStep)
	}

	return &mean, nil
}

// RoundToStep rounds a score to the nearest multiple of step (0.5 rounds
// 7.74 to 7.5 and 7.75 to 8.0).
func RoundToStep(value, step float64) float64 {
	return math.Round(value/step) * step
}
