package models

import (
	"github.com/google/uuid"
)

type BlockType string

const (
	BlockNone       BlockType = ""
	BlockOutage     BlockType = "OUTAGE"
	BlockInactivity BlockType = "INACTIVITY"
)

// SelectionChance caches a user's proportional odds of having a submission
// drawn. Recomputed by the chance-refresh batch on the selection cadence,
// never inline on read.
type SelectionChance struct {
	BaseUUIDModel
	ProfileID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"profileId"`
	Profile   AotdProfile `gorm:"foreignKey:ProfileID"           json:"profile"`

	ChancePercentage float64   `gorm:"type:numeric;default:0" json:"chancePercentage"`
	BlockType        BlockType `gorm:"type:text"              json:"blockType"`
	Reason           *string   `gorm:"type:text"              json:"reason,omitempty"`

	OutageID *uuid.UUID `gorm:"type:uuid"            json:"outageId,omitempty"`
	Outage   *Outage    `gorm:"foreignKey:OutageID"  json:"outage,omitempty"`
}

// ChanceResult is the typed shape handed to callers instead of the original's
// ad-hoc per-endpoint dictionaries.
type ChanceResult struct {
	Percentage float64   `json:"percentage"`
	BlockType  BlockType `json:"blockType"`
	Reason     string    `json:"reason,omitempty"`
}

func (c *SelectionChance) ToResult() ChanceResult {
	reason := ""
	if c.Reason != nil {
		reason = *c.Reason
	}
	return ChanceResult{
		Percentage: c.ChancePercentage,
		BlockType:  c.BlockType,
		Reason:     reason,
	}
}
