package repositories

import (
	"context"
	"time"

	"cordpal/internal/database"
	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CHANCE_CACHE_PREFIX = "aotd_chance"
	CHANCE_CACHE_EXPIRY = 24 * time.Hour
)

type SelectionChanceRepository interface {
	GetByProfileID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (*SelectionChance, error)
	Upsert(ctx context.Context, tx *gorm.DB, chance *SelectionChance) error
}

type selectionChanceRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewSelectionChanceRepository(cache database.CacheClient) SelectionChanceRepository {
	return &selectionChanceRepository{
		cache: cache,
		log:   logger.New("selectionChanceRepository"),
	}
}

func (r *selectionChanceRepository) GetByProfileID(
	ctx context.Context,
	tx *gorm.DB,
	profileID uuid.UUID,
) (*SelectionChance, error) {
	log := r.log.Function("GetByProfileID")

	var cached *SelectionChance
	found, err := database.NewCacheBuilder(r.cache, profileID).
		WithContext(ctx).
		WithHash(CHANCE_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get selection chance from cache", "profileID", profileID, "error", err)
	}

	if found {
		return cached, nil
	}

	chance, err := gorm.G[*SelectionChance](tx).
		Preload("Outage", nil).
		Where(SelectionChance{ProfileID: profileID}).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get selection chance", err, "profileID", profileID)
	}

	err = database.NewCacheBuilder(r.cache, profileID).
		WithContext(ctx).
		WithHash(CHANCE_CACHE_PREFIX).
		WithStruct(chance).
		WithTTL(CHANCE_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to cache selection chance", "profileID", profileID, "error", err)
	}

	return chance, nil
}

// Upsert writes the recomputed chance row and drops the cached copy so the
// next read reflects the refresh.
func (r *selectionChanceRepository) Upsert(
	ctx context.Context,
	tx *gorm.DB,
	chance *SelectionChance,
) error {
	log := r.log.Function("Upsert")

	existing, err := gorm.G[*SelectionChance](tx).
		Where(SelectionChance{ProfileID: chance.ProfileID}).
		First(ctx)
	if err != nil && err != gorm.ErrRecordNotFound {
		return log.Err("failed to look up selection chance", err, "profileID", chance.ProfileID)
	}

	if err == gorm.ErrRecordNotFound {
		if err := gorm.G[SelectionChance](tx).Create(ctx, chance); err != nil {
			return log.Err("failed to create selection chance", err, "profileID", chance.ProfileID)
		}
	} else {
		chance.ID = existing.ID
		chance.CreatedAt = existing.CreatedAt
		if err := tx.WithContext(ctx).Save(chance).Error; err != nil {
			return log.Err("failed to update selection chance", err, "profileID", chance.ProfileID)
		}
	}

	err = database.NewCacheBuilder(r.cache, chance.ProfileID).
		WithContext(ctx).
		WithHash(CHANCE_CACHE_PREFIX).
		Delete()
	if err != nil {
		log.Warn("failed to clear selection chance cache", "profileID", chance.ProfileID, "error", err)
	}

	return nil
}
