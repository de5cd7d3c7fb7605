package services

import (
	"time"

	"cordpal/config"
	. "cordpal/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionTTL = 7 * 24 * time.Hour

// SessionClaims is the payload carried by a signed session token. Discord
// handles the actual login; this only vouches that the exchange happened.
type SessionClaims struct {
	DiscordID string `json:"discordId"`
	IsAdmin   bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type SessionService struct {
	config config.Config
	log    logger.Logger
}

func NewSessionService(config config.Config) *SessionService {
	return &SessionService{
		config: config,
		log:    logger.New("sessionService"),
	}
}

// GenerateToken issues a signed session token for an authenticated user.
func (s *SessionService) GenerateToken(user *User) (string, error) {
	log := s.log.Function("GenerateToken")

	now := time.Now()
	claims := SessionClaims{
		DiscordID: user.DiscordID,
		IsAdmin:   user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", log.Err("failed to sign session token", err, "userID", user.ID)
	}

	return signed, nil
}

// ValidateToken parses and verifies a session token, returning its claims.
func (s *SessionService) ValidateToken(tokenString string) (*SessionClaims, error) {
	log := s.log.Function("ValidateToken")

	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (any, error) {
			return []byte(s.config.SessionSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, log.Err("failed to parse session token", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, log.ErrMsg("invalid session token")
	}

	return claims, nil
}

// UserID extracts the subject as a uuid.
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
