package handlers

import (
	"cordpal/internal/app"
	"cordpal/internal/handlers/middleware"
	"cordpal/internal/services"

	aotdController "cordpal/internal/controllers/aotd"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AotdHandler struct {
	Handler
	aotdController aotdController.AotdControllerInterface
	sessionService *services.SessionService
}

func NewAotdHandler(app app.App, router fiber.Router) *AotdHandler {
	log := logger.New("handlers").File("aotd_handler")
	return &AotdHandler{
		aotdController: app.Controllers.Aotd,
		sessionService: app.Services.Session,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AotdHandler) Register() {
	aotd := h.router.Group("/aotd")

	aotd.Get("/", h.getAlbumOfDay)
	aotd.Get("/timeline", h.getTimeline)
	aotd.Get("/rating/:mbid", h.getRating)
	aotd.Get("/picks/:mbid", h.getPickDates)

	protected := aotd.Group("/", h.middleware.RequireAuth(h.sessionService))
	protected.Get("/chance", h.getChance)
	protected.Post("/albums", h.submitAlbum)
}

type submitAlbumRequest struct {
	MBID        string   `json:"mbid"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	ArtistURL   string   `json:"artistUrl"`
	CoverURL    string   `json:"coverUrl"`
	AlbumURL    string   `json:"albumUrl"`
	Comment     *string  `json:"comment"`
	ReleaseDate string   `json:"releaseDate"`
	TrackList   []string `json:"trackList"`
}

func (h *AotdHandler) submitAlbum(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req submitAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.MBID == "" || req.Title == "" || req.Artist == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mbid, title and artist are required",
		})
	}

	album, err := h.aotdController.SubmitAlbum(c.UserContext(), user, aotdController.AlbumSubmission{
		MBID:        req.MBID,
		Title:       req.Title,
		Artist:      req.Artist,
		ArtistURL:   req.ArtistURL,
		CoverURL:    req.CoverURL,
		AlbumURL:    req.AlbumURL,
		Comment:     req.Comment,
		ReleaseDate: req.ReleaseDate,
		TrackList:   req.TrackList,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"album": album})
}

func (h *AotdHandler) getAlbumOfDay(c *fiber.Ctx) error {
	day, err := parseDayQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day format, expected YYYY-MM-DD",
		})
	}

	pick, err := h.aotdController.GetAlbumOfDay(c.UserContext(), day)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"pick": pick})
}

func (h *AotdHandler) getRating(c *fiber.Ctx) error {
	day, err := parseDayQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day format, expected YYYY-MM-DD",
		})
	}

	rounded := c.QueryBool("rounded", true)

	rating, err := h.aotdController.GetRating(c.UserContext(), c.Params("mbid"), day, rounded)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"rating": rating})
}

func (h *AotdHandler) getTimeline(c *fiber.Ctx) error {
	day, err := parseDayQuery(c)
	if err != nil || day == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Day is required, expected YYYY-MM-DD",
		})
	}

	timeline, err := h.aotdController.GetTimeline(c.UserContext(), *day)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"timeline": timeline})
}

func (h *AotdHandler) getPickDates(c *fiber.Ctx) error {
	dates, err := h.aotdController.GetPickDates(c.UserContext(), c.Params("mbid"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"dates": dates})
}

func (h *AotdHandler) getChance(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	chance, err := h.aotdController.GetChance(c.UserContext(), user.ID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"chance": chance})
}
