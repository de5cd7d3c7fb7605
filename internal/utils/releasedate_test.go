package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReleaseDate(t *testing.T) {
	t.Run("Full date", func(t *testing.T) {
		parsed := ParseReleaseDate("1997-06-16")
		require.NotNil(t, parsed)
		assert.Equal(t, time.Date(1997, 6, 16, 0, 0, 0, 0, time.UTC), *parsed)
	})

	t.Run("Year and month", func(t *testing.T) {
		parsed := ParseReleaseDate("1997-06")
		require.NotNil(t, parsed)
		assert.Equal(t, 1997, parsed.Year())
		assert.Equal(t, time.June, parsed.Month())
	})

	t.Run("Bare year", func(t *testing.T) {
		parsed := ParseReleaseDate("1997")
		require.NotNil(t, parsed)
		assert.Equal(t, 1997, parsed.Year())
	})

	t.Run("Empty string", func(t *testing.T) {
		assert.Nil(t, ParseReleaseDate(""))
	})

	t.Run("Unparseable junk", func(t *testing.T) {
		assert.Nil(t, ParseReleaseDate("sometime in the 90s"))
	})
}
