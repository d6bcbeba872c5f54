package models

import (
	"time"
)

// User is the platform profile. Rows are created on first login through the
// identity provider exchange; user_id is the key every other collection
// references.
type User struct {
	UserID  string  `gorm:"primaryKey" json:"user_id"` // e.g. "user_a1b2c3d4e5f6"
	Email   string  `gorm:"uniqueIndex;not null" json:"email"`
	Name    string  `gorm:"index;not null" json:"name"`
	Picture *string `json:"picture,omitempty"`
	Bio     *string `json:"bio,omitempty"`

	// The city the user currently lives in. Free-text name plus coordinates;
	// no country field is stored.
	ActiveCity    *string  `json:"active_city,omitempty"`
	ActiveCityLat *float64 `json:"active_city_lat,omitempty"`
	ActiveCityLng *float64 `json:"active_city_lng,omitempty"`

	// Secondary cities the user knows well, shown as extra map markers.
	CompetentCities []CompetentCity `gorm:"serializer:json;type:jsonb" json:"competent_cities"`
	Availability    []string        `gorm:"serializer:json;type:jsonb" json:"availability"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CompetentCity is one entry of User.CompetentCities.
type CompetentCity struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// UserSession holds the opaque session token returned by the identity
// provider exchange. One active session per user; replaced on each login.
type UserSession struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID       string    `gorm:"index;not null" json:"user_id"`
	SessionToken string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
