package handlers

import (
	"time"

	"cordpal/internal/app"
	"cordpal/internal/handlers/middleware"
	"cordpal/internal/services"
	"cordpal/internal/utils"

	reviewController "cordpal/internal/controllers/review"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	Handler
	reviewController reviewController.ReviewControllerInterface
	sessionService   *services.SessionService
}

type submitReviewRequest struct {
	MBID        string  `json:"mbid"`
	Day         *string `json:"day"`
	Score       float64 `json:"score"`
	ReviewText  string  `json:"reviewText"`
	FirstListen bool    `json:"firstListen"`
}

func NewReviewHandler(app app.App, router fiber.Router) *ReviewHandler {
	log := logger.New("handlers").File("review_handler")
	return &ReviewHandler{
		reviewController: app.Controllers.Review,
		sessionService:   app.Services.Session,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReviewHandler) Register() {
	reviews := h.router.Group("/reviews")

	reviews.Get("/history/:reviewId", h.getReviewHistory)
	reviews.Get("/:mbid", h.getReviewsForAlbumDay)

	protected := reviews.Group("/", h.middleware.RequireAuth(h.sessionService))
	protected.Post("/", h.submitReview)
	protected.Get("/:mbid/me", h.getUserReview)
}

func (h *ReviewHandler) submitReview(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req submitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var day *time.Time
	if req.Day != nil {
		parsed, err := time.Parse(time.DateOnly, *req.Day)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid day format, expected YYYY-MM-DD",
			})
		}
		day = &parsed
	}

	review, err := h.reviewController.SubmitReview(
		c.UserContext(),
		user,
		req.MBID,
		day,
		req.Score,
		req.ReviewText,
		req.FirstListen,
	)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) getReviewsForAlbumDay(c *fiber.Ctx) error {
	day, err := parseDayQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day format, expected YYYY-MM-DD",
		})
	}

	reviews, err := h.reviewController.GetReviewsForAlbumDay(c.UserContext(), c.Params("mbid"), day)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *ReviewHandler) getUserReview(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	day, err := parseDayQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day format, expected YYYY-MM-DD",
		})
	}

	target := utils.Today()
	if day != nil {
		target = *day
	}

	review, err := h.reviewController.GetUserReview(c.UserContext(), user, c.Params("mbid"), target)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) getReviewHistory(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid review id",
		})
	}

	versions, err := h.reviewController.GetReviewHistory(c.UserContext(), reviewID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"versions": versions})
}
