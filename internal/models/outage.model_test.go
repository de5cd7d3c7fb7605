package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutageActiveOn(t *testing.T) {
	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	outage := &Outage{StartDate: start, EndDate: end, Reason: "vacation"}

	tests := []struct {
		name     string
		day      time.Time
		expected bool
	}{
		{"before the range", start.AddDate(0, 0, -1), false},
		{"first day inclusive", start, true},
		{"mid range", start.AddDate(0, 0, 5), true},
		{"last day inclusive", end, true},
		{"after the range", end.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, outage.ActiveOn(tt.day))
		})
	}
}
