package jobs

import (
	"context"
	"errors"

	"cordpal/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// DailySelectionJob draws the album of the day just after midnight UTC.
type DailySelectionJob struct {
	selectionService *services.SelectionService
	log              logger.Logger
	schedule         services.Schedule
}

func NewDailySelectionJob(
	selectionService *services.SelectionService,
	schedule services.Schedule,
) *DailySelectionJob {
	log := logger.New("dailySelectionJob")
	log.Info("Creating new daily selection job", "schedule", schedule)

	return &DailySelectionJob{
		selectionService: selectionService,
		log:              log,
		schedule:         schedule,
	}
}

func (j *DailySelectionJob) Name() string {
	return "DailyAlbumSelection"
}

func (j *DailySelectionJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting daily album selection")

	pick, err := j.selectionService.SelectDailyPick(ctx)
	if err != nil {
		// A rerun after a partial failure lands here; the existing pick stands
		if errors.Is(err, services.ErrAlreadySelected) {
			log.Info("pick already exists for today, nothing to do")
			return nil
		}
		return log.Err("daily album selection failed", err)
	}

	log.Info("Daily album selection completed", "pickID", pick.ID, "albumID", pick.AlbumID)
	return nil
}

func (j *DailySelectionJob) Schedule() services.Schedule {
	return j.schedule
}
