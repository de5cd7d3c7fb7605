package repositories

import (
	"context"

	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AotdProfileRepository interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*AotdProfile, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*AotdProfile, error)
	Create(ctx context.Context, tx *gorm.DB, profile *AotdProfile) error
	Update(ctx context.Context, tx *gorm.DB, profile *AotdProfile) error
	SetSelectionBlocked(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, blocked bool) error
	GetBlockedUserIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
}

type aotdProfileRepository struct {
	log logger.Logger
}

func NewAotdProfileRepository() AotdProfileRepository {
	return &aotdProfileRepository{
		log: logger.New("aotdProfileRepository"),
	}
}

func (r *aotdProfileRepository) GetByUserID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*AotdProfile, error) {
	log := r.log.Function("GetByUserID")

	profile, err := gorm.G[*AotdProfile](tx).
		Preload("User", nil).
		Where(AotdProfile{UserID: userID}).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get aotd profile", err, "userID", userID)
	}

	return profile, nil
}

func (r *aotdProfileRepository) GetAll(
	ctx context.Context,
	tx *gorm.DB,
) ([]*AotdProfile, error) {
	log := r.log.Function("GetAll")

	profiles, err := gorm.G[*AotdProfile](tx).
		Preload("User", nil).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get aotd profiles", err)
	}

	return profiles, nil
}

func (r *aotdProfileRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	profile *AotdProfile,
) error {
	log := r.log.Function("Create")

	if err := gorm.G[AotdProfile](tx).Create(ctx, profile); err != nil {
		return log.Err("failed to create aotd profile", err, "userID", profile.UserID)
	}

	return nil
}

func (r *aotdProfileRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	profile *AotdProfile,
) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(profile).Error; err != nil {
		return log.Err("failed to update aotd profile", err, "profileID", profile.ID)
	}

	return nil
}

func (r *aotdProfileRepository) SetSelectionBlocked(
	ctx context.Context,
	tx *gorm.DB,
	profileID uuid.UUID,
	blocked bool,
) error {
	log := r.log.Function("SetSelectionBlocked")

	_, err := gorm.G[AotdProfile](tx).
		Where("id = ?", profileID).
		Update(ctx, "selection_blocked", blocked)
	if err != nil {
		return log.Err("failed to set selection blocked flag", err,
			"profileID", profileID, "blocked", blocked)
	}

	return nil
}

func (r *aotdProfileRepository) GetBlockedUserIDs(
	ctx context.Context,
	tx *gorm.DB,
) ([]uuid.UUID, error) {
	log := r.log.Function("GetBlockedUserIDs")

	var userIDs []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&AotdProfile{}).
		Where("selection_blocked = ?", true).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, log.Err("failed to get blocked user ids", err)
	}

	return userIDs, nil
}
