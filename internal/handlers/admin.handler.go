package handlers

import (
	"context"
	"time"

	"cordpal/internal/app"
	"cordpal/internal/events"
	"cordpal/internal/handlers/middleware"
	. "cordpal/internal/models"
	"cordpal/internal/repositories"
	"cordpal/internal/services"
	"cordpal/internal/utils"

	aotdController "cordpal/internal/controllers/aotd"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminHandler struct {
	Handler
	aotdController     aotdController.AotdControllerInterface
	sessionService     *services.SessionService
	schedulerService   *services.SchedulerService
	transactionService *services.TransactionService
	outageRepo         repositories.OutageRepository
	eventBus           *events.EventBus
}

type overridePickRequest struct {
	Date    string  `json:"date"`
	AlbumID string  `json:"albumId"`
	Message *string `json:"message"`
}

type createOutageRequest struct {
	UserID    string `json:"userId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		aotdController:     app.Controllers.Aotd,
		sessionService:     app.Services.Session,
		schedulerService:   app.Services.Scheduler,
		transactionService: app.Services.Transaction,
		outageRepo:         app.Repos.Outage,
		eventBus:           app.EventBus,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group(
		"/admin",
		h.middleware.RequireAuth(h.sessionService),
		h.middleware.RequireAdmin(),
	)

	admin.Post("/aotd/select", h.triggerSelection)
	admin.Post("/aotd/override", h.overridePick)
	admin.Post("/outages", h.createOutage)
}

// triggerSelection kicks the daily selection job outside its schedule.
func (h *AdminHandler) triggerSelection(c *fiber.Ctx) error {
	log := h.log.Function("triggerSelection")

	if err := h.schedulerService.TriggerJobByName(c.UserContext(), "DailyAlbumSelection"); err != nil {
		log.Warn("failed to trigger selection job", "error", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Selection job not registered",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "selection triggered",
	})
}

func (h *AdminHandler) overridePick(c *fiber.Ctx) error {
	var req overridePickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
	}

	albumID, err := uuid.Parse(req.AlbumID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid album id",
		})
	}

	pick, err := h.aotdController.SelectDailyPickAdmin(c.UserContext(), date, albumID, req.Message)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"pick": pick})
}

func (h *AdminHandler) createOutage(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req createOutageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	startDate, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start date, expected YYYY-MM-DD",
		})
	}
	endDate, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
	}
	if endDate.Before(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "End date precedes start date",
		})
	}

	outage := &Outage{
		UserID:      userID,
		StartDate:   utils.DateOnly(startDate),
		EndDate:     utils.DateOnly(endDate),
		Reason:      req.Reason,
		EnactedByID: &user.ID,
	}

	err = h.transactionService.Execute(c.UserContext(), func(ctx context.Context, tx *gorm.DB) error {
		return h.outageRepo.Create(ctx, tx, outage)
	})
	if err != nil {
		return errorResponse(c, err)
	}

	if err := h.eventBus.PublishOutageCreated(outage); err != nil {
		h.log.Function("createOutage").
			Warn("failed to publish outage event", "outageID", outage.ID, "error", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"outage": outage})
}
