package models

import (
	"time"

	"github.com/google/uuid"
)

// AotdProfile exists for every user enrolled in Album of the Day. Its presence
// is the enrollment check; streak fields are mutated only by the streak
// tracker and the blocked flag only by the eligibility engine.
type AotdProfile struct {
	BaseUUIDModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	User   User      `gorm:"foreignKey:UserID"              json:"user"`

	SelectionBlocked bool `gorm:"type:bool;default:false" json:"selectionBlocked"`

	CurrentStreak  int        `gorm:"type:int;default:0" json:"currentStreak"`
	LongestStreak  int        `gorm:"type:int;default:0" json:"longestStreak"`
	LastReviewDate *time.Time `gorm:"type:date"          json:"lastReviewDate,omitempty"`
}

// IsStreakAtRisk reports whether the user has not yet reviewed today, meaning
// their current streak dies at the next reset if they stay silent.
func (p *AotdProfile) IsStreakAtRisk(today time.Time) bool {
	if p.CurrentStreak == 0 {
		return false
	}
	if p.LastReviewDate == nil {
		return true
	}
	return !sameDay(*p.LastReviewDate, today)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// StreakData rides along with review listings so the frontend can badge users
type StreakData struct {
	CurrentStreak  int        `json:"currentStreak"`
	LongestStreak  int        `json:"longestStreak"`
	LastReviewDate *time.Time `json:"lastReviewDate,omitempty"`
	StreakAtRisk   bool       `json:"streakAtRisk"`
}

func (p *AotdProfile) ToStreakData(today time.Time) StreakData {
	return StreakData{
		CurrentStreak:  p.CurrentStreak,
		LongestStreak:  p.LongestStreak,
		LastReviewDate: p.LastReviewDate,
		StreakAtRisk:   p.IsStreakAtRisk(today),
	}
}
