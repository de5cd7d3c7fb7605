package repositories

import (
	"cordpal/internal/database"
)

type Repository struct {
	User      UserRepository
	Profile   AotdProfileRepository
	Album     AlbumRepository
	DailyPick DailyPickRepository
	Review    ReviewRepository
	Outage    OutageRepository
	Chance    SelectionChanceRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:      NewUserRepository(db),
		Profile:   NewAotdProfileRepository(),
		Album:     NewAlbumRepository(),
		DailyPick: NewDailyPickRepository(),
		Review:    NewReviewRepository(),
		Outage:    NewOutageRepository(),
		Chance:    NewSelectionChanceRepository(db.Cache.Chance),
	}
}
