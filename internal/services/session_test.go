package services

import (
	"testing"

	"cordpal/config"
	. "cordpal/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService(t *testing.T) {
	service := NewSessionService(config.Config{SessionSecret: "test-secret"})

	user := &User{
		DiscordID: "123456789",
		Nickname:  "tester",
		IsAdmin:   true,
	}
	user.ID = uuid.New()

	t.Run("Round trips a token", func(t *testing.T) {
		token, err := service.GenerateToken(user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)

		assert.Equal(t, user.DiscordID, claims.DiscordID)
		assert.True(t, claims.IsAdmin)

		userID, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("Rejects a token signed with a different secret", func(t *testing.T) {
		other := NewSessionService(config.Config{SessionSecret: "other-secret"})
		token, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
