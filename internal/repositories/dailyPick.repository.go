package repositories

import (
	"context"
	"time"

	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DailyPickRepository interface {
	GetByDate(ctx context.Context, tx *gorm.DB, date time.Time) (*DailyPick, error)
	GetMostRecentBefore(ctx context.Context, tx *gorm.DB, date time.Time) (*DailyPick, error)
	GetLatestForAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) (*DailyPick, error)
	GetDatesForAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, upTo time.Time) ([]time.Time, error)
	Create(ctx context.Context, tx *gorm.DB, pick *DailyPick) error
	Update(ctx context.Context, tx *gorm.DB, pick *DailyPick) error
	CountForAlbumSince(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, since time.Time) (int64, error)
	CountForSubmitterSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
}

type dailyPickRepository struct {
	log logger.Logger
}

func NewDailyPickRepository() DailyPickRepository {
	return &dailyPickRepository{
		log: logger.New("dailyPickRepository"),
	}
}

func (r *dailyPickRepository) GetByDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (*DailyPick, error) {
	log := r.log.Function("GetByDate")

	pick, err := gorm.G[*DailyPick](tx).
		Preload("Album.SubmittedBy", nil).
		Where("date = ?", date).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get daily pick", err, "date", date)
	}

	return pick, nil
}

func (r *dailyPickRepository) GetMostRecentBefore(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (*DailyPick, error) {
	log := r.log.Function("GetMostRecentBefore")

	pick, err := gorm.G[*DailyPick](tx).
		Preload("Album", nil).
		Where("date < ?", date).
		Order("date DESC").
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get most recent pick before date", err, "date", date)
	}

	return pick, nil
}

func (r *dailyPickRepository) GetLatestForAlbum(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) (*DailyPick, error) {
	log := r.log.Function("GetLatestForAlbum")

	pick, err := gorm.G[*DailyPick](tx).
		Where("album_id = ?", albumID).
		Order("date DESC").
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get latest pick for album", err, "albumID", albumID)
	}

	return pick, nil
}

func (r *dailyPickRepository) GetDatesForAlbum(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
	upTo time.Time,
) ([]time.Time, error) {
	log := r.log.Function("GetDatesForAlbum")

	var dates []time.Time
	err := tx.WithContext(ctx).
		Model(&DailyPick{}).
		Where("album_id = ? AND date <= ?", albumID, upTo).
		Order("date ASC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, log.Err("failed to get pick dates for album", err, "albumID", albumID)
	}

	return dates, nil
}

func (r *dailyPickRepository) Create(ctx context.Context, tx *gorm.DB, pick *DailyPick) error {
	log := r.log.Function("Create")

	if err := gorm.G[DailyPick](tx).Create(ctx, pick); err != nil {
		// Unique violation on date is surfaced untouched so the selection
		// engine can translate it into ErrAlreadySelected
		if err == gorm.ErrDuplicatedKey {
			return err
		}
		return log.Err("failed to create daily pick", err,
			"date", pick.Date, "albumID", pick.AlbumID)
	}

	return nil
}

func (r *dailyPickRepository) Update(ctx context.Context, tx *gorm.DB, pick *DailyPick) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(pick).Error; err != nil {
		return log.Err("failed to update daily pick", err, "pickID", pick.ID)
	}

	return nil
}

func (r *dailyPickRepository) CountForAlbumSince(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
	since time.Time,
) (int64, error) {
	log := r.log.Function("CountForAlbumSince")

	var count int64
	err := tx.WithContext(ctx).
		Model(&DailyPick{}).
		Where("album_id = ? AND date >= ?", albumID, since).
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count picks for album", err, "albumID", albumID)
	}

	return count, nil
}

func (r *dailyPickRepository) CountForSubmitterSince(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	since time.Time,
) (int64, error) {
	log := r.log.Function("CountForSubmitterSince")

	var count int64
	err := tx.WithContext(ctx).
		Model(&DailyPick{}).
		Joins("JOIN albums ON albums.id = daily_picks.album_id").
		Where("albums.submitted_by_id = ? AND daily_picks.date >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count picks for submitter", err, "userID", userID)
	}

	return count, nil
}
