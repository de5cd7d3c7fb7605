package models

import (
	"time"

	"github.com/google/uuid"
)

// Outage is a date range during which a user's submissions are held out of
// selection. Self-enacted outages leave EnactedBy nil; admin-enacted ones
// record the enacting admin.
type Outage struct {
	BaseUUIDModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   User      `gorm:"foreignKey:UserID"        json:"user"`

	StartDate time.Time `gorm:"type:date;not null;index" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"endDate"`
	Reason    string    `gorm:"type:text"                json:"reason"`

	EnactedByID *uuid.UUID `gorm:"type:uuid"               json:"enactedById,omitempty"`
	EnactedBy   *User      `gorm:"foreignKey:EnactedByID"  json:"enactedBy,omitempty"`
}

// ActiveOn reports whether the outage covers the given day, bounds included.
func (o *Outage) ActiveOn(day time.Time) bool {
	d := day.UTC().Truncate(24 * time.Hour)
	return !d.Before(o.StartDate.UTC().Truncate(24*time.Hour)) &&
		!d.After(o.EndDate.UTC().Truncate(24*time.Hour))
}
