package jobs

import (
	"context"

	"cordpal/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// StreakResetJob zeroes streaks for users who missed the previous pick day.
type StreakResetJob struct {
	streakService      *services.StreakService
	transactionService *services.TransactionService
	log                logger.Logger
	schedule           services.Schedule
}

func NewStreakResetJob(
	streakService *services.StreakService,
	transactionService *services.TransactionService,
	schedule services.Schedule,
) *StreakResetJob {
	log := logger.New("streakResetJob")
	log.Info("Creating new streak reset job", "schedule", schedule)

	return &StreakResetJob{
		streakService:      streakService,
		transactionService: transactionService,
		log:                log,
		schedule:           schedule,
	}
}

func (j *StreakResetJob) Name() string {
	return "StaleStreakReset"
}

func (j *StreakResetJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting stale streak reset")

	err := j.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return j.streakService.ResetStaleStreaks(ctx, tx)
	})
	if err != nil {
		return log.Err("stale streak reset failed", err)
	}

	log.Info("Stale streak reset completed")
	return nil
}

func (j *StreakResetJob) Schedule() services.Schedule {
	return j.schedule
}
