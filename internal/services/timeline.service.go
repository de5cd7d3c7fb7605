package services

import (
	"context"
	"encoding/json"
	"time"

	"cordpal/internal/database"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// snapshotLookup resolves the most recent edit snapshot of a review at or
// before an instant. A nil result means the review had no recorded state yet.
type snapshotLookup func(reviewID uuid.UUID, asOf time.Time) (*ReviewHistory, error)

// TimelineService reconstructs how a pick day's average rating moved as
// reviews landed and were edited, and freezes the result onto the pick.
type TimelineService struct {
	pickRepo   repositories.DailyPickRepository
	reviewRepo repositories.ReviewRepository
	db         database.DB
	log        logger.Logger
}

func NewTimelineService(repos repositories.Repository, db database.DB) *TimelineService {
	return &TimelineService{
		pickRepo:   repos.DailyPick,
		reviewRepo: repos.Review,
		db:         db,
		log:        logger.New("timelineService"),
	}
}

// BuildTimeline merges the day's review rows with their edit snapshots into
// one chronological event sequence and persists it onto the pick.
func (s *TimelineService) BuildTimeline(
	ctx context.Context,
	tx *gorm.DB,
	pick *DailyPick,
) ([]TimelineEvent, error) {
	log := s.log.Function("BuildTimeline")

	day := utils.DateOnly(pick.Date)

	reviews, err := s.reviewRepo.GetForAlbumDay(ctx, tx, pick.AlbumID, day)
	if err != nil {
		return nil, log.Err("failed to load reviews for timeline", err, "day", day)
	}

	reviewIDs := make([]uuid.UUID, 0, len(reviews))
	for _, review := range reviews {
		reviewIDs = append(reviewIDs, review.ID)
	}

	history, err := s.reviewRepo.GetHistoryForReviewsOnDay(ctx, tx, reviewIDs, day)
	if err != nil {
		return nil, log.Err("failed to load review history for timeline", err, "day", day)
	}

	lookup := s.snapshotLookup(ctx, tx)

	events, err := mergeTimeline(reviews, history, lookup)
	if err != nil {
		return nil, log.Err("failed to merge timeline", err, "pickID", pick.ID)
	}

	serialized, err := json.Marshal(events)
	if err != nil {
		return nil, log.Err("failed to serialize timeline", err, "pickID", pick.ID)
	}

	pick.Timeline = datatypes.JSON(serialized)
	if err := s.pickRepo.Update(ctx, tx, pick); err != nil {
		return nil, log.Err("failed to persist timeline", err, "pickID", pick.ID)
	}

	log.Info("timeline built", "pickID", pick.ID, "day", day, "events", len(events))
	return events, nil
}

// PartialAverage reconstructs the album's average score as it stood at the
// given instant within the pick day.
func (s *TimelineService) PartialAverage(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
	day time.Time,
	asOf time.Time,
) (float64, error) {
	log := s.log.Function("PartialAverage")

	reviews, err := s.reviewRepo.GetForAlbumDay(ctx, tx, albumID, day)
	if err != nil {
		return 0, err
	}

	if len(reviews) == 0 {
		return 0, log.Error("partial average requested with no reviews",
			"albumID", albumID, "day", day)
	}

	return partialAverage(reviews, asOf, s.snapshotLookup(ctx, tx))
}

func (s *TimelineService) snapshotLookup(ctx context.Context, tx *gorm.DB) snapshotLookup {
	return func(reviewID uuid.UUID, asOf time.Time) (*ReviewHistory, error) {
		snapshot, err := s.reviewRepo.GetLatestHistoryBefore(ctx, tx, reviewID, asOf)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil
			}
			return nil, err
		}
		return snapshot, nil
	}
}

// mergeTimeline walks the review stream (ordered by last_updated) and the
// snapshot stream (ordered by recorded_at) with two cursors, emitting the
// earlier side at each step. Ties emit both, the review first.
//
// Review rows always emit an event carrying their final known score merged in
// at last_updated; edit snapshots only emit when the edit actually changed
// the user's score. This asymmetry is deliberate and matches the recorded
// product behavior.
func mergeTimeline(
	reviews []*Review,
	history []*ReviewHistory,
	lookup snapshotLookup,
) ([]TimelineEvent, error) {
	events := make([]TimelineEvent, 0, len(reviews)+len(history))

	// Per-user stack of edit snapshots seen so far, so an edit that restored
	// the previous score never emits an event
	userStacks := make(map[uuid.UUID][]*ReviewHistory)

	emitReview := func(review *Review) error {
		value, err := partialAverage(reviews, review.LastUpdated, lookup)
		if err != nil {
			return err
		}
		events = append(events, TimelineEvent{
			Timestamp:     review.LastUpdated.UTC(),
			Value:         value,
			UserID:        review.UserID,
			UserDiscordID: review.User.DiscordID,
			UserNickname:  review.User.Nickname,
			Type:          TimelineEventReview,
			Score:         review.Score,
			ReviewID:      review.ID,
		})
		return nil
	}

	emitUpdate := func(snapshot *ReviewHistory) error {
		stack := userStacks[snapshot.Review.UserID]
		first := len(stack) == 0
		changed := first || stack[len(stack)-1].Score != snapshot.Score
		userStacks[snapshot.Review.UserID] = append(stack, snapshot)

		if !changed {
			return nil
		}

		value, err := partialAverage(reviews, snapshot.LastUpdated, lookup)
		if err != nil {
			return err
		}

		eventType := TimelineEventUpdate
		if first {
			eventType = TimelineEventFirstUpdate
		}
		events = append(events, TimelineEvent{
			Timestamp:     snapshot.LastUpdated.UTC(),
			Value:         value,
			UserID:        snapshot.Review.UserID,
			UserDiscordID: snapshot.Review.User.DiscordID,
			UserNickname:  snapshot.Review.User.Nickname,
			Type:          eventType,
			Score:         snapshot.Score,
			ReviewID:      snapshot.ReviewID,
		})
		return nil
	}

	reviewCursor, historyCursor := 0, 0
	for reviewCursor < len(reviews) || historyCursor < len(history) {
		var nextReview *Review
		if reviewCursor < len(reviews) {
			nextReview = reviews[reviewCursor]
		}
		var nextSnapshot *ReviewHistory
		if historyCursor < len(history) {
			nextSnapshot = history[historyCursor]
		}

		switch {
		case nextSnapshot == nil ||
			(nextReview != nil && nextReview.LastUpdated.Before(nextSnapshot.RecordedAt)):
			if err := emitReview(nextReview); err != nil {
				return nil, err
			}
			reviewCursor++
		case nextReview == nil || nextSnapshot.RecordedAt.Before(nextReview.LastUpdated):
			if err := emitUpdate(nextSnapshot); err != nil {
				return nil, err
			}
			historyCursor++
		default:
			if err := emitReview(nextReview); err != nil {
				return nil, err
			}
			reviewCursor++
			if err := emitUpdate(nextSnapshot); err != nil {
				return nil, err
			}
			historyCursor++
		}
	}

	return events, nil
}

// partialAverage averages every review's score as it stood at asOf. Edited
// reviews whose current value postdates the instant are rolled back to their
// most recent snapshot at or before it; everything else contributes its
// current score. Every review counts exactly once. Callers must not pass an
// empty review set.
func partialAverage(
	reviews []*Review,
	asOf time.Time,
	lookup snapshotLookup,
) (float64, error) {
	sum := 0.0
	for _, review := range reviews {
		switch {
		case !review.Edited():
			sum += review.Score
		case review.LastUpdated.After(asOf):
			snapshot, err := lookup(review.ID, asOf)
			if err != nil {
				return 0, err
			}
			if snapshot == nil {
				// No recorded state at that instant yet; the current score is
				// the best available stand-in
				sum += review.Score
				continue
			}
			sum += snapshot.Score
		default:
			// Edited, but the final value already predates the instant
			sum += review.Score
		}
	}

	return sum / float64(len(reviews)), nil
}

// DecodeTimeline unpacks a pick's stored timeline column.
func DecodeTimeline(raw datatypes.JSON) ([]TimelineEvent, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var events []TimelineEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, err
	}
	return events, nil
}
