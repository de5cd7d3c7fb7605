package handlers

import (
	"errors"
	"time"

	"cordpal/internal/app"
	"cordpal/internal/handlers/middleware"
	"cordpal/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	api.Use(app.Middleware.TraceID())

	HealthHandler(api, app.Config)
	NewAotdHandler(*app, api).Register()
	NewReviewHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

// parseDayQuery reads an optional ?day=YYYY-MM-DD query parameter.
func parseDayQuery(c *fiber.Ctx) (*time.Time, error) {
	raw := c.Query("day")
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// errorResponse maps typed service failures onto transport codes.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, services.ErrAlreadySelected):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrNoEligibleAlbums):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrPickMismatch),
		errors.Is(err, services.ErrInvalidScore):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
