package controllers

import (
	"cordpal/config"
	"cordpal/internal/database"
	"cordpal/internal/repositories"
	"cordpal/internal/services"

	aotdController "cordpal/internal/controllers/aotd"
	reviewController "cordpal/internal/controllers/review"
)

type Controllers struct {
	Aotd   aotdController.AotdControllerInterface
	Review reviewController.ReviewControllerInterface
}

func New(
	svcs services.Service,
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Aotd:   aotdController.New(repos, svcs, config, db),
		Review: reviewController.New(repos, svcs, config, db),
	}
}
