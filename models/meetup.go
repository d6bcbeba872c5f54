package models

import (
	"time"
)

// Meetup is an event organized by one user at a named location. The creator
// is always the first attendee.
type Meetup struct {
	MeetupID  string `gorm:"primaryKey" json:"meetup_id"` // e.g. "meetup_a1b2c3d4e5f6"
	CreatorID string `gorm:"index;not null" json:"creator_id"`

	Title       string  `gorm:"not null" json:"title"`
	City        string  `json:"city"`
	CityLat     float64 `json:"city_lat"`
	CityLng     float64 `json:"city_lng"`
	Date        string  `json:"date"`
	Description *string `json:"description,omitempty"`

	InvitedUserIDs []string `gorm:"serializer:json;type:jsonb" json:"invited_user_ids"`
	AttendeeIDs    []string `gorm:"serializer:json;type:jsonb" json:"attendee_ids"`

	Status    string    `gorm:"type:varchar(16);default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
