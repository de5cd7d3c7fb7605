package database

import (
	"cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.AotdProfile{},
		&models.Album{},
		&models.DailyPick{},
		&models.Review{},
		&models.ReviewHistory{},
		&models.Outage{},
		&models.SelectionChance{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create
// automatically. The unique date index on daily_picks is load-bearing: it is
// what makes concurrent selection runs collapse to a single pick per day.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_picks_date ON daily_picks(date) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_reviews_aotd_date_user ON reviews(aotd_date, user_id)",
		"CREATE INDEX IF NOT EXISTS idx_review_histories_review_recorded ON review_histories(review_id, recorded_at)",
		"CREATE INDEX IF NOT EXISTS idx_outages_window ON outages(start_date, end_date)",
	}

	for _, index := range indexes {
		if err := db.SQL.Exec(index).Error; err != nil {
			return log.Err("Failed to create index", err, "index", index)
		}
	}

	log.Info("Database indexes created successfully")
	return nil
}
