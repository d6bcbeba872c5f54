package models

import (
	"time"
)

// UserStats is the per-user statistics snapshot produced by the stats engine.
// The whole row is replaced on every recomputation — badges are never carried
// over from a previous run, and the row does not exist until first computed.
type UserStats struct {
	UserID string `gorm:"primaryKey" json:"user_id"`

	// total_friends = total_registered + total_imported, always.
	TotalFriends    int `json:"total_friends"`
	TotalRegistered int `json:"total_registered"`
	TotalImported   int `json:"total_imported"`

	UniqueCities     int `json:"unique_cities"`
	UniqueCountries  int `json:"unique_countries"`
	UniqueContinents int `json:"unique_continents"` // excludes the "Other" bucket

	CountriesBreakdown  map[string]int `gorm:"serializer:json;type:jsonb" json:"countries_breakdown"`
	ContinentsBreakdown map[string]int `gorm:"serializer:json;type:jsonb" json:"continents_breakdown"`

	MeetupsCreated int64 `json:"meetups_created"`
	MessagesSent   int64 `json:"messages_sent"`

	BadgesEarned []string `gorm:"serializer:json;type:jsonb" json:"badges_earned"`

	LastCalculated time.Time `json:"last_calculated"`
}
