package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's score for a pick day. One row per (album, user, day);
// edits rewrite this row after snapshotting it into ReviewHistory.
// LastUpdated == ReviewDate holds exactly when the review was never edited.
type Review struct {
	BaseUUIDModel
	AlbumID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_album_user_day,priority:1" json:"albumId"`
	Album   Album     `gorm:"foreignKey:AlbumID" json:"album"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_album_user_day,priority:2" json:"userId"`
	User    User      `gorm:"foreignKey:UserID" json:"user"`
	// AotdDate is the logical pick day the review belongs to, independent of
	// when any later edit lands on the wall clock.
	AotdDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_review_album_user_day,priority:3;index" json:"aotdDate"`

	Score       float64 `gorm:"type:numeric;not null"   json:"score"`
	ReviewText  string  `gorm:"type:text"               json:"reviewText"`
	FirstListen bool    `gorm:"type:bool;default:false" json:"firstListen"`

	ReviewDate  time.Time `gorm:"type:timestamptz;not null" json:"reviewDate"`
	LastUpdated time.Time `gorm:"type:timestamptz;not null;index" json:"lastUpdated"`
	Version     int       `gorm:"type:int;default:1"        json:"version"`
}

func (r *Review) Edited() bool {
	return !r.LastUpdated.Equal(r.ReviewDate)
}

// ReviewHistory is an append-only snapshot of a review taken immediately
// before an edit. RecordedAt is when the superseding edit happened;
// LastUpdated is when the snapshotted version itself was written, which
// chains rows into a reconstructable edit sequence.
type ReviewHistory struct {
	BaseUUIDModel
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index" json:"reviewId"`
	Review   Review    `gorm:"foreignKey:ReviewID"      json:"review"`
	AotdDate time.Time `gorm:"type:date;not null;index" json:"aotdDate"`

	Score       float64 `gorm:"type:numeric;not null" json:"score"`
	ReviewText  string  `gorm:"type:text"             json:"reviewText"`
	FirstListen bool    `gorm:"type:bool"             json:"firstListen"`

	ReviewDate  time.Time `gorm:"type:timestamptz;not null"       json:"reviewDate"`
	LastUpdated time.Time `gorm:"type:timestamptz;not null;index" json:"lastUpdated"`
	RecordedAt  time.Time `gorm:"type:timestamptz;not null;index" json:"recordedAt"`
}

// Snapshot captures the review's current state ahead of an edit.
func (r *Review) Snapshot(recordedAt time.Time) ReviewHistory {
	return ReviewHistory{
		ReviewID:    r.ID,
		AotdDate:    r.AotdDate,
		Score:       r.Score,
		ReviewText:  r.ReviewText,
		FirstListen: r.FirstListen,
		ReviewDate:  r.ReviewDate,
		LastUpdated: r.LastUpdated,
		RecordedAt:  recordedAt,
	}
}
