package services

import (
	"errors"
	"testing"

	"friend-map-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBadgeRulesOrder(t *testing.T) {
	expected := []string{
		"early_adopter",
		"first_friend",
		"social_starter",
		"social_butterfly",
		"network_master",
		"city_explorer",
		"globetrotter",
		"world_citizen",
		"european_network",
		"asia_explorer",
		"americas_connector",
		"multi_continental",
		"meetup_starter",
		"meetup_master",
	}

	rules := DefaultBadgeRules()
	require.Len(t, rules, len(expected))
	for i, rule := range rules {
		assert.Equal(t, expected[i], rule.ID())
		assert.NotEmpty(t, rule.Description())
	}
}

func TestEvaluateBadges(t *testing.T) {
	tests := []struct {
		name     string
		stats    *models.UserStats
		expected []string
	}{
		{
			name:     "zero snapshot earns only early_adopter",
			stats:    &models.UserStats{},
			expected: []string{"early_adopter"},
		},
		{
			name:     "single friend",
			stats:    &models.UserStats{TotalFriends: 1},
			expected: []string{"early_adopter", "first_friend"},
		},
		{
			name:  "friend thresholds are cumulative",
			stats: &models.UserStats{TotalFriends: 100},
			expected: []string{
				"early_adopter", "first_friend", "social_starter",
				"social_butterfly", "network_master",
			},
		},
		{
			name: "continent buckets",
			stats: &models.UserStats{
				TotalFriends: 1,
				ContinentsBreakdown: map[string]int{
					"Europe":   5,
					"Asia":     3,
					"Americas": 1,
				},
			},
			expected: []string{"early_adopter", "first_friend", "european_network", "asia_explorer"},
		},
		{
			name: "multi continental ignores breakdown counts",
			stats: &models.UserStats{
				UniqueContinents: 3,
			},
			expected: []string{"early_adopter", "multi_continental"},
		},
		{
			name:     "meetup organizer",
			stats:    &models.UserStats{MeetupsCreated: 5},
			expected: []string{"early_adopter", "meetup_starter", "meetup_master"},
		},
		{
			name: "country thresholds",
			stats: &models.UserStats{
				UniqueCountries: 20,
				UniqueCities:    5,
			},
			expected: []string{"early_adopter", "city_explorer", "globetrotter", "world_citizen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earned := EvaluateBadges(DefaultBadgeRules(), tt.stats, &models.User{})
			assert.Equal(t, tt.expected, earned)
		})
	}
}

type failingRule struct{}

func (failingRule) ID() string          { return "flaky" }
func (failingRule) Description() string { return "always errors" }
func (failingRule) Evaluate(*models.UserStats, *models.User) (bool, error) {
	return false, errors.New("boom")
}

func TestEvaluateBadgesErroringRuleIsSkipped(t *testing.T) {
	rules := []BadgeRule{
		failingRule{},
		staticRule{id: "steady", description: "always earned", earned: true},
	}

	earned := EvaluateBadges(rules, &models.UserStats{}, &models.User{})
	assert.Equal(t, []string{"steady"}, earned)
}

func TestEvaluateBadgesNilSnapshot(t *testing.T) {
	// Threshold and continent rules error on a nil snapshot; only the static
	// rule survives.
	earned := EvaluateBadges(DefaultBadgeRules(), nil, &models.User{})
	assert.Equal(t, []string{"early_adopter"}, earned)
}
