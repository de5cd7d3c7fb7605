package repositories

import (
	"context"
	"time"

	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutageRepository interface {
	GetActiveForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, onDate time.Time) (*Outage, error)
	GetActiveUserIDs(ctx context.Context, tx *gorm.DB, onDate time.Time) ([]uuid.UUID, error)
	Create(ctx context.Context, tx *gorm.DB, outage *Outage) error
}

type outageRepository struct {
	log logger.Logger
}

func NewOutageRepository() OutageRepository {
	return &outageRepository{
		log: logger.New("outageRepository"),
	}
}

func (r *outageRepository) GetActiveForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	onDate time.Time,
) (*Outage, error) {
	log := r.log.Function("GetActiveForUser")

	outage, err := gorm.G[*Outage](tx).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, onDate, onDate).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get active outage", err, "userID", userID, "onDate", onDate)
	}

	return outage, nil
}

func (r *outageRepository) GetActiveUserIDs(
	ctx context.Context,
	tx *gorm.DB,
	onDate time.Time,
) ([]uuid.UUID, error) {
	log := r.log.Function("GetActiveUserIDs")

	var userIDs []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&Outage{}).
		Where("start_date <= ? AND end_date >= ?", onDate, onDate).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, log.Err("failed to get users under outage", err, "onDate", onDate)
	}

	return userIDs, nil
}

func (r *outageRepository) Create(ctx context.Context, tx *gorm.DB, outage *Outage) error {
	log := r.log.Function("Create")

	if err := gorm.G[Outage](tx).Create(ctx, outage); err != nil {
		return log.Err("failed to create outage", err, "userID", outage.UserID)
	}

	return nil
}
