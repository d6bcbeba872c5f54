package models

import (
	"strings"
	"time"
)

const (
	GeocodePending = "pending"
	GeocodeSuccess = "success"
	GeocodeFailed  = "failed"
)

const (
	ImportSourceManual = "manual"
	ImportSourceCSV    = "csv"
)

// ImportedFriend is a manually entered or CSV-ingested contact owned by a
// single user. Contacts arrive ungeocoded; the geocode worker (or an explicit
// geocode call) fills in coordinates and the provider's display_name.
type ImportedFriend struct {
	FriendID  string `gorm:"primaryKey" json:"friend_id"` // e.g. "imported_a1b2c3d4e5f6"
	OwnerID   string `gorm:"index;not null" json:"owner_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	City    *string  `json:"city,omitempty"`
	CityLat *float64 `json:"lat,omitempty"`
	CityLng *float64 `json:"lng,omitempty"`

	// Full geocoded string from the provider, e.g. "Milan, Lombardy, Italy".
	// The stats engine derives the country from its last segment.
	DisplayName   *string `json:"display_name,omitempty"`
	GeocodeStatus string  `gorm:"type:varchar(16);default:'pending';index" json:"geocode_status"`

	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	Source string `gorm:"type:varchar(16);default:'manual'" json:"source"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FullName joins the name parts, tolerating a missing surname.
func (f *ImportedFriend) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}
