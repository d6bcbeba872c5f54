package services

import (
	"fmt"
	"log"

	"friend-map-system/models"
)

// BadgeRule is a single achievement predicate over a computed statistics
// snapshot. Rules are evaluated in table order; a rule that returns an error
// is logged and treated as not earned without aborting the remaining rules.
type BadgeRule interface {
	ID() string
	Description() string
	Evaluate(stats *models.UserStats, user *models.User) (bool, error)
}

// thresholdRule earns when a counter read from the snapshot reaches min.
type thresholdRule struct {
	id          string
	description string
	min         int64
	counter     func(*models.UserStats) int64
}

func (r thresholdRule) ID() string          { return r.id }
func (r thresholdRule) Description() string { return r.description }

func (r thresholdRule) Evaluate(stats *models.UserStats, _ *models.User) (bool, error) {
	if stats == nil {
		return false, fmt.Errorf("badge %s: nil snapshot", r.id)
	}
	return r.counter(stats) >= r.min, nil
}

// continentRule earns when a continent bucket holds at least min contacts.
type continentRule struct {
	id          string
	description string
	continent   string
	min         int
}

func (r continentRule) ID() string          { return r.id }
func (r continentRule) Description() string { return r.description }

func (r continentRule) Evaluate(stats *models.UserStats, _ *models.User) (bool, error) {
	if stats == nil {
		return false, fmt.Errorf("badge %s: nil snapshot", r.id)
	}
	return stats.ContinentsBreakdown[r.continent] >= r.min, nil
}

// staticRule always evaluates to the same outcome.
type staticRule struct {
	id          string
	description string
	earned      bool
}

func (r staticRule) ID() string          { return r.id }
func (r staticRule) Description() string { return r.description }

func (r staticRule) Evaluate(_ *models.UserStats, _ *models.User) (bool, error) {
	return r.earned, nil
}

func totalFriends(s *models.UserStats) int64    { return int64(s.TotalFriends) }
func uniqueCities(s *models.UserStats) int64    { return int64(s.UniqueCities) }
func uniqueCountries(s *models.UserStats) int64 { return int64(s.UniqueCountries) }
func uniqueContinents(s *models.UserStats) int64 {
	return int64(s.UniqueContinents)
}
func meetupsCreated(s *models.UserStats) int64 { return s.MeetupsCreated }

// DefaultBadgeRules returns the ordered badge table. A fresh slice is built
// on every call so a caller cannot mutate the shared table.
func DefaultBadgeRules() []BadgeRule {
	return []BadgeRule{
		// TODO: gate early_adopter on a registration-date cutoff once the
		// launch date is settled.
		staticRule{id: "early_adopter", description: "Among the first users", earned: true},
		thresholdRule{id: "first_friend", description: "Added your first friend", min: 1, counter: totalFriends},
		thresholdRule{id: "social_starter", description: "10+ friends mapped", min: 10, counter: totalFriends},
		thresholdRule{id: "social_butterfly", description: "50+ friends mapped", min: 50, counter: totalFriends},
		thresholdRule{id: "network_master", description: "100+ friends mapped", min: 100, counter: totalFriends},
		thresholdRule{id: "city_explorer", description: "Friends in 5+ cities", min: 5, counter: uniqueCities},
		thresholdRule{id: "globetrotter", description: "Friends in 10+ countries", min: 10, counter: uniqueCountries},
		thresholdRule{id: "world_citizen", description: "Friends in 20+ countries", min: 20, counter: uniqueCountries},
		continentRule{id: "european_network", description: "5+ contacts across Europe", continent: "Europe", min: 5},
		continentRule{id: "asia_explorer", description: "3+ contacts across Asia", continent: "Asia", min: 3},
		continentRule{id: "americas_connector", description: "2+ contacts across the Americas", continent: "Americas", min: 2},
		thresholdRule{id: "multi_continental", description: "Friends on 3+ continents", min: 3, counter: uniqueContinents},
		thresholdRule{id: "meetup_starter", description: "Organized your first meetup", min: 1, counter: meetupsCreated},
		thresholdRule{id: "meetup_master", description: "5+ meetups organized", min: 5, counter: meetupsCreated},
	}
}

// EvaluateBadges runs the rules in order and returns the earned badge ids.
func EvaluateBadges(rules []BadgeRule, stats *models.UserStats, user *models.User) []string {
	earned := make([]string, 0, len(rules))
	for _, rule := range rules {
		ok, err := rule.Evaluate(stats, user)
		if err != nil {
			log.Printf("⚠️ Badge check %s failed: %v", rule.ID(), err)
			continue
		}
		if ok {
			earned = append(earned, rule.ID())
		}
	}
	return earned
}
