package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"friend-map-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUserNotFound marks a stats computation requested for an unknown user id.
// Any other error from the pipeline is a downstream query failure.
var ErrUserNotFound = errors.New("user not found")

// Read caps are defensive bounds on collection scans, not business rules.
const (
	maxFriendshipRows = 1000
	maxImportedRows   = 5000
	maxSweepUsers     = 10000
)

// StatsService computes, persists and serves per-user statistics snapshots.
// The badge rule table is injected so tests can substitute their own rules.
type StatsService struct {
	DB    *gorm.DB
	Rules []BadgeRule
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db, Rules: DefaultBadgeRules()}
}

// ExtractCountry derives the country from a geocoded display string by taking
// the text after the last comma, trimmed. A string with no comma is returned
// whole; an empty string yields "".
func ExtractCountry(displayName string) string {
	if displayName == "" {
		return ""
	}
	parts := strings.Split(displayName, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// buildSnapshot reduces the aggregated contact facts into a snapshot, badges
// excluded. Registered friends contribute city facts only: the profile stores
// a city name, never a display string, so their countries are not derivable.
// Imported contacts contribute both. Pure, so the reduction is testable
// without a store.
func buildSnapshot(userID string, totalRegistered int, friendCities []string, imported []models.ImportedFriend, meetupsCreated, messagesSent int64, now time.Time) *models.UserStats {
	cities := make(map[string]struct{})
	countries := make(map[string]int)

	for _, city := range friendCities {
		if city != "" {
			cities[city] = struct{}{}
		}
	}

	for _, friend := range imported {
		if friend.City != nil && *friend.City != "" {
			cities[*friend.City] = struct{}{}
		}
		displayName := ""
		if friend.DisplayName != nil {
			displayName = *friend.DisplayName
		}
		if country := ExtractCountry(displayName); country != "" {
			countries[country]++
		}
	}

	continents := make(map[string]int)
	uniqueContinents := 0
	for country, count := range countries {
		continent := ContinentOf(country)
		if continents[continent] == 0 && continent != ContinentOther {
			uniqueContinents++
		}
		continents[continent] += count
	}

	return &models.UserStats{
		UserID:              userID,
		TotalFriends:        totalRegistered + len(imported),
		TotalRegistered:     totalRegistered,
		TotalImported:       len(imported),
		UniqueCities:        len(cities),
		UniqueCountries:     len(countries),
		UniqueContinents:    uniqueContinents,
		CountriesBreakdown:  countries,
		ContinentsBreakdown: continents,
		MeetupsCreated:      meetupsCreated,
		MessagesSent:        messagesSent,
		BadgesEarned:        []string{},
		LastCalculated:      now.UTC(),
	}
}

// CalculateForUser runs the full pipeline for one user: aggregate contacts,
// reduce to a snapshot, evaluate badges, upsert. Any query failure aborts the
// computation; the previous snapshot (if any) is left untouched.
func (s *StatsService) CalculateForUser(ctx context.Context, userID string) (*models.UserStats, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	// Accepted friendships where the user appears on either side. Duplicate
	// rows would double count; that is a pre-existing data bug this engine
	// does not correct.
	var friendships []models.Friendship
	if err := s.DB.WithContext(ctx).
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Limit(maxFriendshipRows).
		Find(&friendships).Error; err != nil {
		return nil, fmt.Errorf("failed to load friendships for %s: %w", userID, err)
	}

	friendIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		friendIDs = append(friendIDs, f.OtherSide(userID))
	}

	friendCities := make([]string, 0, len(friendIDs))
	if len(friendIDs) > 0 {
		var friends []models.User
		if err := s.DB.WithContext(ctx).
			Select("user_id", "active_city").
			Where("user_id IN ?", friendIDs).
			Limit(maxFriendshipRows).
			Find(&friends).Error; err != nil {
			return nil, fmt.Errorf("failed to load registered friends for %s: %w", userID, err)
		}
		for _, friend := range friends {
			if friend.ActiveCity != nil {
				friendCities = append(friendCities, *friend.ActiveCity)
			}
		}
	}

	var imported []models.ImportedFriend
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", userID).
		Limit(maxImportedRows).
		Find(&imported).Error; err != nil {
		return nil, fmt.Errorf("failed to load imported contacts for %s: %w", userID, err)
	}

	var meetupsCreated int64
	if err := s.DB.WithContext(ctx).
		Model(&models.Meetup{}).
		Where("creator_id = ?", userID).
		Count(&meetupsCreated).Error; err != nil {
		return nil, fmt.Errorf("failed to count meetups for %s: %w", userID, err)
	}

	var messagesSent int64
	if err := s.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("from_user_id = ?", userID).
		Count(&messagesSent).Error; err != nil {
		return nil, fmt.Errorf("failed to count messages for %s: %w", userID, err)
	}

	stats := buildSnapshot(userID, len(friendships), friendCities, imported, meetupsCreated, messagesSent, time.Now())
	stats.BadgesEarned = EvaluateBadges(s.Rules, stats, &user)

	if err := s.persist(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// persist replaces the snapshot row wholesale, keyed by user_id. A single
// atomic upsert per user, so concurrent recomputes degrade to
// last-writer-wins without interleaved partial writes.
func (s *StatsService) persist(ctx context.Context, stats *models.UserStats) error {
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_friends", "total_registered", "total_imported",
			"unique_cities", "unique_countries", "unique_continents",
			"countries_breakdown", "continents_breakdown",
			"meetups_created", "messages_sent",
			"badges_earned", "last_calculated",
		}),
	}).Create(stats).Error
	if err != nil {
		return fmt.Errorf("failed to upsert stats for %s: %w", stats.UserID, err)
	}
	return nil
}

// RecalculateAll sweeps every known user sequentially. A failing user is
// logged and skipped: recomputation is cheap and idempotent, so an
// interrupted or partial sweep leaves processed users current and the rest
// on their previous snapshot.
func (s *StatsService) RecalculateAll(ctx context.Context) (updated, failed int, err error) {
	var userIDs []string
	if err := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Limit(maxSweepUsers).
		Pluck("user_id", &userIDs).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to list users: %w", err)
	}

	log.Printf("🔁 Recalculating stats for %d users…", len(userIDs))
	for i, userID := range userIDs {
		if ctx.Err() != nil {
			return updated, failed, ctx.Err()
		}
		if _, err := s.CalculateForUser(ctx, userID); err != nil {
			failed++
			log.Printf("⚠️ Stats sweep: skipping %s: %v", userID, err)
			continue
		}
		updated++
		if (i+1)%10 == 0 {
			log.Printf("[STATS] Progress: %d/%d", i+1, len(userIDs))
		}
	}
	log.Printf("✅ Stats sweep done: %d updated, %d skipped", updated, failed)
	return updated, failed, nil
}

// GetMyStats returns the caller's snapshot, computing it on first access.
func (s *StatsService) GetMyStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var stats models.UserStats
	err := s.DB.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh, calcErr := s.CalculateForUser(c.Context(), userID)
		if calcErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to calculate stats",
				"cause": calcErr.Error(),
			})
		}
		return c.JSON(fresh)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching stats",
			"cause": err.Error(),
		})
	}
	return c.JSON(stats)
}

// RecalculateMyStats forces a fresh snapshot for the caller.
func (s *StatsService) RecalculateMyStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	stats, err := s.CalculateForUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to calculate stats",
			"cause": err.Error(),
		})
	}
	return c.JSON(stats)
}

// RecalculateUser is the admin endpoint for a single-user recompute.
func (s *StatsService) RecalculateUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	stats, err := s.CalculateForUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to calculate stats",
			"cause": err.Error(),
		})
	}
	return c.JSON(stats)
}

// RecalculateAllUsers is the admin endpoint for a full sweep.
func (s *StatsService) RecalculateAllUsers(c *fiber.Ctx) error {
	updated, failed, err := s.RecalculateAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "stats sweep failed",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "stats recalculated",
		"updated": updated,
		"skipped": failed,
	})
}
