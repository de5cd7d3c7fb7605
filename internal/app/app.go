package app

import (
	"context"

	"cordpal/config"
	"cordpal/internal/controllers"
	"cordpal/internal/database"
	"cordpal/internal/events"
	"cordpal/internal/handlers/middleware"
	"cordpal/internal/jobs"
	"cordpal/internal/repositories"
	"cordpal/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	EventBus   *events.EventBus
	Config     config.Config

	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	svcs, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	middleware := middleware.New(db, eventBus, config, repos)
	ctrls := controllers.New(svcs, repos, config, db)

	if config.SchedulerEnabled {
		selectionJob := jobs.NewDailySelectionJob(svcs.Selection, services.DailySelection)
		if err := svcs.Scheduler.AddJob(selectionJob); err != nil {
			return &App{}, log.Err("failed to register selection job", err)
		}

		chanceJob := jobs.NewChanceRefreshJob(
			svcs.Chance,
			svcs.Transaction,
			services.DailyMaintenance,
		)
		if err := svcs.Scheduler.AddJob(chanceJob); err != nil {
			return &App{}, log.Err("failed to register chance refresh job", err)
		}

		streakJob := jobs.NewStreakResetJob(
			svcs.Streak,
			svcs.Transaction,
			services.DailyMaintenance,
		)
		if err := svcs.Scheduler.AddJob(streakJob); err != nil {
			return &App{}, log.Err("failed to register streak reset job", err)
		}

		if err := svcs.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
		log.Info("Scheduler started with daily jobs")
	}

	app := &App{
		Database:    db,
		Middleware:  middleware,
		EventBus:    eventBus,
		Config:      config,
		Services:    svcs,
		Repos:       repos,
		Controllers: ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Session,
		a.Services.Rating,
		a.Services.Timeline,
		a.Services.Chance,
		a.Services.Streak,
		a.Services.Selection,
		a.Services.Review,
		a.Controllers.Aotd,
		a.Controllers.Review,
		a.Repos.User,
		a.Repos.Album,
		a.Repos.DailyPick,
		a.Repos.Review,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
