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
	USER_CACHE_PREFIX = "user_discord"
	USER_CACHE_EXPIRY = 1 * time.Hour
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByDiscordID(ctx context.Context, tx *gorm.DB, discordID string) (*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]*User, error)
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		cache: db.Cache.General,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*User, error) {
	log := r.log.Function("GetByID")

	user, err := gorm.G[*User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get user", err, "id", id)
	}

	return user, nil
}

func (r *userRepository) GetByDiscordID(
	ctx context.Context,
	tx *gorm.DB,
	discordID string,
) (*User, error) {
	log := r.log.Function("GetByDiscordID")

	var cached *User
	found, err := database.NewCacheBuilder(r.cache, discordID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get user from cache", "discordID", discordID, "error", err)
	}

	if found {
		return cached, nil
	}

	user, err := gorm.G[*User](tx).Where("discord_id = ?", discordID).First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get user by discord id", err, "discordID", discordID)
	}

	err = database.NewCacheBuilder(r.cache, discordID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to cache user", "discordID", discordID, "error", err)
	}

	return user, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		return log.Err("failed to create user", err, "discordID", user.DiscordID)
	}

	return nil
}

func (r *userRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*User, error) {
	log := r.log.Function("GetAll")

	users, err := gorm.G[*User](tx).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get users", err)
	}

	return users, nil
}
