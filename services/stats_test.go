package services

import (
	"testing"
	"time"

	"friend-map-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCountry(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		expected    string
	}{
		{name: "full display string", displayName: "Milan, Lombardy, Italy", expected: "Italy"},
		{name: "two segments", displayName: "Tokyo, Japan", expected: "Japan"},
		{name: "trailing whitespace", displayName: "Paris,  France ", expected: "France"},
		{name: "no comma returns whole string", displayName: "Berlin", expected: "Berlin"},
		{name: "empty string", displayName: "", expected: ""},
		{name: "trailing comma", displayName: "Madrid,", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCountry(tt.displayName))
		})
	}
}

func strPtr(s string) *string { return &s }

func importedContact(city, displayName string) models.ImportedFriend {
	friend := models.ImportedFriend{GeocodeStatus: models.GeocodeSuccess}
	if city != "" {
		friend.City = &city
	}
	if displayName != "" {
		friend.DisplayName = &displayName
	}
	return friend
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("mixed contacts", func(t *testing.T) {
		imported := []models.ImportedFriend{
			importedContact("Milan", "Milan, Lombardy, Italy"),
			importedContact("Rome", "Rome, Lazio, Italy"),
			importedContact("Tokyo", "Tokyo, Japan"),
			importedContact("Atlantis", "Atlantis, Narnia"),
		}
		friendCities := []string{"Berlin", "Milan", ""}

		stats := buildSnapshot("user_abc", 2, friendCities, imported, 3, 7, now)

		assert.Equal(t, "user_abc", stats.UserID)
		assert.Equal(t, 6, stats.TotalFriends)
		assert.Equal(t, 2, stats.TotalRegistered)
		assert.Equal(t, 4, stats.TotalImported)

		// Milan counted once, empty city ignored.
		assert.Equal(t, 5, stats.UniqueCities)

		assert.Equal(t, map[string]int{"Italy": 2, "Japan": 1, "Narnia": 1}, stats.CountriesBreakdown)
		assert.Equal(t, map[string]int{"Europe": 2, "Asia": 1, "Other": 1}, stats.ContinentsBreakdown)

		assert.Equal(t, 3, stats.UniqueCountries)
		// Narnia falls into Other, which never counts toward uniques.
		assert.Equal(t, 2, stats.UniqueContinents)

		assert.Equal(t, int64(3), stats.MeetupsCreated)
		assert.Equal(t, int64(7), stats.MessagesSent)
		assert.Equal(t, now, stats.LastCalculated)
		assert.Empty(t, stats.BadgesEarned)
	})

	t.Run("registered friends contribute cities only", func(t *testing.T) {
		stats := buildSnapshot("user_abc", 3, []string{"London", "Lisbon"}, nil, 0, 0, now)

		assert.Equal(t, 3, stats.TotalFriends)
		assert.Equal(t, 2, stats.UniqueCities)
		// A profile city carries no display string, so no country is derivable.
		assert.Equal(t, 0, stats.UniqueCountries)
		assert.Equal(t, 0, stats.UniqueContinents)
		assert.Empty(t, stats.CountriesBreakdown)
	})

	t.Run("ungeocoded contact counts toward totals but not countries", func(t *testing.T) {
		imported := []models.ImportedFriend{
			{FirstName: "Ada", City: strPtr("Drammen"), GeocodeStatus: models.GeocodePending},
		}
		stats := buildSnapshot("user_abc", 0, nil, imported, 0, 0, now)

		assert.Equal(t, 1, stats.TotalImported)
		assert.Equal(t, 1, stats.UniqueCities)
		assert.Equal(t, 0, stats.UniqueCountries)
	})

	t.Run("empty inputs yield a zero snapshot", func(t *testing.T) {
		stats := buildSnapshot("user_abc", 0, nil, nil, 0, 0, now)

		assert.Equal(t, 0, stats.TotalFriends)
		assert.Equal(t, 0, stats.UniqueCities)
		assert.Equal(t, 0, stats.UniqueCountries)
		assert.Equal(t, 0, stats.UniqueContinents)
		require.NotNil(t, stats.CountriesBreakdown)
		require.NotNil(t, stats.ContinentsBreakdown)
		require.NotNil(t, stats.BadgesEarned)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		imported := []models.ImportedFriend{
			importedContact("Milan", "Milan, Lombardy, Italy"),
		}
		first := buildSnapshot("user_abc", 1, []string{"Berlin"}, imported, 2, 4, now)
		second := buildSnapshot("user_abc", 1, []string{"Berlin"}, imported, 2, 4, now)
		assert.Equal(t, first, second)
	})
}
