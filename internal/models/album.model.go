package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Album is a community submission to the Album of the Day pool. Metadata is
// immutable after submission; an album that has ever been picked is never
// deleted (daily picks and reviews reference it).
type Album struct {
	BaseUUIDModel
	MBID      string `gorm:"type:text;uniqueIndex;not null" json:"mbid"`
	Title     string `gorm:"type:text;not null"             json:"title"`
	Artist    string `gorm:"type:text;not null"             json:"artist"`
	ArtistURL string `gorm:"type:text"                      json:"artistUrl"`
	CoverURL  string `gorm:"type:text"                      json:"coverUrl"`
	AlbumURL  string `gorm:"type:text"                      json:"albumUrl"`

	SubmittedByID *uuid.UUID `gorm:"type:uuid;index"        json:"submittedById,omitempty"`
	SubmittedBy   *User      `gorm:"foreignKey:SubmittedByID" json:"submittedBy,omitempty"`
	UserComment   *string    `gorm:"type:text"              json:"userComment,omitempty"`

	// ReleaseDateRaw keeps whatever string the catalog handed us; ReleaseDate
	// is only set when that string parses to a full date.
	ReleaseDate    *time.Time     `gorm:"type:date" json:"releaseDate,omitempty"`
	ReleaseDateRaw *string        `gorm:"type:text" json:"releaseDateRaw,omitempty"`
	TrackList      datatypes.JSON `gorm:"type:jsonb" json:"trackList,omitempty"`
}
