package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	aotdController "cordpal/internal/controllers/aotd"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ratingControllerStub records the rounding flag the handler resolved from
// the query string. The embedded interface covers the methods these tests
// never touch.
type ratingControllerStub struct {
	aotdController.AotdControllerInterface
	rounded *bool
}

func (s *ratingControllerStub) GetRating(
	_ context.Context,
	_ string,
	_ *time.Time,
	rounded bool,
) (*float64, error) {
	s.rounded = &rounded
	rating := 7.5
	return &rating, nil
}

func TestGetRatingRoundingDefault(t *testing.T) {
	stub := &ratingControllerStub{}
	handler := &AotdHandler{
		aotdController: stub,
		Handler:        Handler{log: logger.New("handlersTest")},
	}

	app := fiber.New()
	app.Get("/aotd/rating/:mbid", handler.getRating)

	t.Run("Defaults to the rounded rating", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/aotd/rating/some-mbid", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		require.NotNil(t, stub.rounded)
		assert.True(t, *stub.rounded)
	})

	t.Run("Explicit rounded=false is honored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/aotd/rating/some-mbid?rounded=false", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		require.NotNil(t, stub.rounded)
		assert.False(t, *stub.rounded)
	})
}
