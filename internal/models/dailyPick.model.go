package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UnfinalizedRating is the sentinel stored on a pick until the day after it
// runs, when the average is frozen. Distinct from a NULL rating, which means
// the day closed with zero reviews.
const UnfinalizedRating = 11.0

// DailyPick is the one album featured on a given calendar day. The Date
// uniqueIndex is the storage-level guard that closes the check-then-create
// race in automatic selection.
type DailyPick struct {
	BaseUUIDModel
	AlbumID uuid.UUID `gorm:"type:uuid;not null;index"    json:"albumId"`
	Album   Album     `gorm:"foreignKey:AlbumID"          json:"album"`
	Date    time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`

	Manual       bool    `gorm:"type:bool;default:false" json:"manual"`
	AdminMessage *string `gorm:"type:text"               json:"adminMessage,omitempty"`

	Rating   *float64       `gorm:"type:numeric"            json:"rating,omitempty"`
	Timeline datatypes.JSON `gorm:"type:jsonb"              json:"timeline,omitempty"`
}

// Finalized reports whether the pick's rating has been frozen. A nil rating
// counts as finalized (no reviews were received); only the sentinel means the
// finalize step has not run yet.
func (p *DailyPick) Finalized() bool {
	return p.Rating == nil || *p.Rating != UnfinalizedRating
}

func (p *DailyPick) HasTimeline() bool {
	return len(p.Timeline) > 0 && string(p.Timeline) != "[]" && string(p.Timeline) != "null"
}

// TimelineEventReview tags an event emitted for a review row at its final
// known state; the update variants tag score-changing edits.
const (
	TimelineEventReview      = "Review"
	TimelineEventFirstUpdate = "First Update"
	TimelineEventUpdate      = "Update"
)

// TimelineEvent is one rating-changing moment in a pick's day, serialized
// into the pick's Timeline column in chronological order.
type TimelineEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	Value         float64   `json:"value"`
	UserID        uuid.UUID `json:"userId"`
	UserDiscordID string    `json:"userDiscordId"`
	UserNickname  string    `json:"userNickname"`
	Type          string    `json:"type"`
	Score         float64   `json:"score"`
	ReviewID      uuid.UUID `json:"reviewId"`
}
