package repositories

import (
	"context"

	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlbumRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Album, error)
	GetByMBID(ctx context.Context, tx *gorm.DB, mbid string) (*Album, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Album, error)
	GetAllExcludingSubmitters(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*Album, error)
	Create(ctx context.Context, tx *gorm.DB, album *Album) error
	CountBySubmitter(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type albumRepository struct {
	log logger.Logger
}

func NewAlbumRepository() AlbumRepository {
	return &albumRepository{
		log: logger.New("albumRepository"),
	}
}

func (r *albumRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Album, error) {
	log := r.log.Function("GetByID")

	album, err := gorm.G[*Album](tx).
		Preload("SubmittedBy", nil).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get album", err, "id", id)
	}

	return album, nil
}

func (r *albumRepository) GetByMBID(
	ctx context.Context,
	tx *gorm.DB,
	mbid string,
) (*Album, error) {
	log := r.log.Function("GetByMBID")

	album, err := gorm.G[*Album](tx).
		Preload("SubmittedBy", nil).
		Where("mbid = ?", mbid).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get album by mbid", err, "mbid", mbid)
	}

	return album, nil
}

func (r *albumRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Album, error) {
	log := r.log.Function("GetAll")

	albums, err := gorm.G[*Album](tx).
		Preload("SubmittedBy", nil).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get albums", err)
	}

	return albums, nil
}

// GetAllExcludingSubmitters returns the selection pool: every submission
// whose submitter is not in the blocked set.
func (r *albumRepository) GetAllExcludingSubmitters(
	ctx context.Context,
	tx *gorm.DB,
	userIDs []uuid.UUID,
) ([]*Album, error) {
	log := r.log.Function("GetAllExcludingSubmitters")

	query := gorm.G[*Album](tx).Preload("SubmittedBy", nil)
	if len(userIDs) > 0 {
		query = query.Where("submitted_by_id IS NULL OR submitted_by_id NOT IN ?", userIDs)
	}

	albums, err := query.Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get eligible albums", err, "excludedCount", len(userIDs))
	}

	return albums, nil
}

func (r *albumRepository) Create(ctx context.Context, tx *gorm.DB, album *Album) error {
	log := r.log.Function("Create")

	if err := gorm.G[Album](tx).Create(ctx, album); err != nil {
		return log.Err("failed to create album", err, "mbid", album.MBID)
	}

	return nil
}

func (r *albumRepository) CountBySubmitter(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountBySubmitter")

	var count int64
	err := tx.WithContext(ctx).
		Model(&Album{}).
		Where("submitted_by_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count albums by submitter", err, "userID", userID)
	}

	return count, nil
}
