package jobs

import (
	"context"

	"cordpal/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// ChanceRefreshJob recomputes every participant's eligibility and selection
// chance after the daily draw has settled.
type ChanceRefreshJob struct {
	chanceService      *services.ChanceService
	transactionService *services.TransactionService
	log                logger.Logger
	schedule           services.Schedule
}

func NewChanceRefreshJob(
	chanceService *services.ChanceService,
	transactionService *services.TransactionService,
	schedule services.Schedule,
) *ChanceRefreshJob {
	log := logger.New("chanceRefreshJob")
	log.Info("Creating new chance refresh job", "schedule", schedule)

	return &ChanceRefreshJob{
		chanceService:      chanceService,
		transactionService: transactionService,
		log:                log,
		schedule:           schedule,
	}
}

func (j *ChanceRefreshJob) Name() string {
	return "SelectionChanceRefresh"
}

func (j *ChanceRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting selection chance refresh")

	err := j.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return j.chanceService.RefreshAllChances(ctx, tx)
	})
	if err != nil {
		return log.Err("selection chance refresh failed", err)
	}

	log.Info("Selection chance refresh completed")
	return nil
}

func (j *ChanceRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
