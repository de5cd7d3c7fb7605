package services

import (
	"cordpal/config"
	"cordpal/internal/database"
	"cordpal/internal/events"
	"cordpal/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Session     *SessionService
	Rating      *RatingService
	Timeline    *TimelineService
	Chance      *ChanceService
	Streak      *StreakService
	Selection   *SelectionService
	Review      *ReviewService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	schedulerService := NewSchedulerService()
	sessionService := NewSessionService(config)
	ratingService := NewRatingService(repos, db, config)
	timelineService := NewTimelineService(repos, db)
	chanceService := NewChanceService(repos, db, config)
	streakService := NewStreakService(repos, db)
	selectionService := NewSelectionService(
		repos,
		chanceService,
		timelineService,
		transactionService,
		eventBus,
		db,
		config,
	)
	reviewService := NewReviewService(
		repos,
		streakService,
		chanceService,
		transactionService,
		eventBus,
		db,
		config,
	)

	return Service{
		Transaction: transactionService,
		Scheduler:   schedulerService,
		Session:     sessionService,
		Rating:      ratingService,
		Timeline:    timelineService,
		Chance:      chanceService,
		Streak:      streakService,
		Selection:   selectionService,
		Review:      reviewService,
	}, nil
}
