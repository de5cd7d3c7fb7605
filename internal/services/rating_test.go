package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		step     float64
		expected float64
	}{
		{"rounds down to half point", 7.74, 0.5, 7.5},
		{"rounds up to half point", 7.75, 0.5, 8.0},
		{"exact multiple unchanged", 7.5, 0.5, 7.5},
		{"zero stays zero", 0.0, 0.5, 0.0},
		{"ten stays ten", 10.0, 0.5, 10.0},
		{"rounds to whole point", 6.4, 1.0, 6.0},
		{"quarter step", 7.13, 0.25, 7.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RoundToStep(tt.value, tt.step), 1e-9)
		})
	}
}
