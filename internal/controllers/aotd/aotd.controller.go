package aotdController

import (
	"context"
	"encoding/json"
	"time"

	"cordpal/config"
	"cordpal/internal/database"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/services"
	"cordpal/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AotdController struct {
	albumRepo          repositories.AlbumRepository
	pickRepo           repositories.DailyPickRepository
	ratingService      *services.RatingService
	timelineService    *services.TimelineService
	chanceService      *services.ChanceService
	selectionService   *services.SelectionService
	transactionService *services.TransactionService
	config             config.Config
	db                 database.DB
}

// AlbumSubmission is a new entry for the selection pool, keyed by its
// MusicBrainz release-group id.
type AlbumSubmission struct {
	MBID        string
	Title       string
	Artist      string
	ArtistURL   string
	CoverURL    string
	AlbumURL    string
	Comment     *string
	ReleaseDate string
	TrackList   []string
}

type AotdControllerInterface interface {
	SubmitAlbum(ctx context.Context, user *User, submission AlbumSubmission) (*Album, error)
	GetAlbumOfDay(ctx context.Context, day *time.Time) (*DailyPick, error)
	GetRating(ctx context.Context, mbid string, day *time.Time, rounded bool) (*float64, error)
	GetTimeline(ctx context.Context, day time.Time) ([]TimelineEvent, error)
	GetChance(ctx context.Context, userID uuid.UUID) (*ChanceResult, error)
	GetPickDates(ctx context.Context, mbid string) ([]time.Time, error)
	SelectDailyPick(ctx context.Context) (*DailyPick, error)
	SelectDailyPickAdmin(ctx context.Context, date time.Time, albumID uuid.UUID, annotation *string) (*DailyPick, error)
}

func New(
	repos repositories.Repository,
	svcs services.Service,
	config config.Config,
	db database.DB,
) AotdControllerInterface {
	return &AotdController{
		albumRepo:          repos.Album,
		pickRepo:           repos.DailyPick,
		ratingService:      svcs.Rating,
		timelineService:    svcs.Timeline,
		chanceService:      svcs.Chance,
		selectionService:   svcs.Selection,
		transactionService: svcs.Transaction,
		config:             config,
		db:                 db,
	}
}

// SubmitAlbum adds an album to the selection pool. Resubmitting a known MBID
// returns the existing row untouched.
func (c *AotdController) SubmitAlbum(
	ctx context.Context,
	user *User,
	submission AlbumSubmission,
) (*Album, error) {
	log := logger.New("aotdController").TraceFromContext(ctx).Function("SubmitAlbum")

	existing, err := c.albumRepo.GetByMBID(ctx, c.db.SQL, submission.MBID)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	album := &Album{
		MBID:           submission.MBID,
		Title:          submission.Title,
		Artist:         submission.Artist,
		ArtistURL:      submission.ArtistURL,
		CoverURL:       submission.CoverURL,
		AlbumURL:       submission.AlbumURL,
		SubmittedByID:  &user.ID,
		UserComment:    submission.Comment,
		ReleaseDate:    utils.ParseReleaseDate(submission.ReleaseDate),
		ReleaseDateRaw: &submission.ReleaseDate,
	}
	if len(submission.TrackList) > 0 {
		tracks, err := json.Marshal(submission.TrackList)
		if err != nil {
			return nil, log.Err("failed to serialize track list", err, "mbid", submission.MBID)
		}
		album.TrackList = tracks
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.albumRepo.Create(ctx, tx, album)
	})
	if err != nil {
		return nil, err
	}

	log.Info("album submitted", "albumID", album.ID, "mbid", album.MBID, "userID", user.ID)
	return album, nil
}

// GetAlbumOfDay returns the pick for a day, defaulting to today.
func (c *AotdController) GetAlbumOfDay(
	ctx context.Context,
	day *time.Time,
) (*DailyPick, error) {
	target := utils.Today()
	if day != nil {
		target = utils.DateOnly(*day)
	}

	pick, err := c.pickRepo.GetByDate(ctx, c.db.SQL, target)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, services.ErrNotFound
		}
		return nil, err
	}

	return pick, nil
}

func (c *AotdController) GetRating(
	ctx context.Context,
	mbid string,
	day *time.Time,
	rounded bool,
) (*float64, error) {
	return c.ratingService.GetRating(ctx, mbid, day, rounded)
}

// GetTimeline returns the rating timeline for a pick day. A past pick missing
// its timeline is healed in place, rating included; today's pick reports what
// is stored, since its timeline only freezes at finalization.
func (c *AotdController) GetTimeline(
	ctx context.Context,
	day time.Time,
) ([]TimelineEvent, error) {
	log := logger.New("aotdController").TraceFromContext(ctx).Function("GetTimeline")

	target := utils.DateOnly(day)

	pick, err := c.pickRepo.GetByDate(ctx, c.db.SQL, target)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, services.ErrNotFound
		}
		return nil, err
	}

	if pick.HasTimeline() {
		return services.DecodeTimeline(pick.Timeline)
	}

	if !target.Before(utils.Today()) {
		return []TimelineEvent{}, nil
	}

	log.Warn("timeline missing for past pick, rebuilding",
		"pickID", pick.ID, "day", target)

	var events []TimelineEvent
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		healed, err := c.selectionService.FinalizeDay(ctx, tx, target)
		if err != nil {
			return err
		}
		if healed == nil {
			// Rating already frozen but the timeline was lost; rebuild it alone
			events, err = c.timelineService.BuildTimeline(ctx, tx, pick)
			return err
		}
		events, err = services.DecodeTimeline(healed.Timeline)
		return err
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (c *AotdController) GetChance(
	ctx context.Context,
	userID uuid.UUID,
) (*ChanceResult, error) {
	return c.chanceService.GetChance(ctx, userID)
}

// GetPickDates lists every day an album has been the pick, oldest first.
func (c *AotdController) GetPickDates(
	ctx context.Context,
	mbid string,
) ([]time.Time, error) {
	album, err := c.albumRepo.GetByMBID(ctx, c.db.SQL, mbid)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, services.ErrNotFound
		}
		return nil, err
	}

	return c.pickRepo.GetDatesForAlbum(ctx, c.db.SQL, album.ID, utils.Today())
}

func (c *AotdController) SelectDailyPick(ctx context.Context) (*DailyPick, error) {
	return c.selectionService.SelectDailyPick(ctx)
}

func (c *AotdController) SelectDailyPickAdmin(
	ctx context.Context,
	date time.Time,
	albumID uuid.UUID,
	annotation *string,
) (*DailyPick, error) {
	return c.selectionService.SelectDailyPickAdmin(ctx, date, albumID, annotation)
}
