package models

import (
	"time"
)

// MaxGroupsPerUser caps how many groups a single owner can create.
const MaxGroupsPerUser = 20

const (
	GroupMemberUser     = "user"
	GroupMemberImported = "imported"
)

// Group is a user-owned circle of contacts. Members can be registered users
// or imported contacts; the two id lists are kept separate.
type Group struct {
	GroupID string  `gorm:"primaryKey" json:"group_id"` // e.g. "group_a1b2c3d4e5f6"
	OwnerID string  `gorm:"index;not null" json:"owner_id"`
	Name    string  `gorm:"not null" json:"name"`
	Color   string  `gorm:"type:varchar(16);default:'#EC4899'" json:"color"`
	Icon    *string `json:"icon,omitempty"`

	MemberIDs         []string `gorm:"serializer:json;type:jsonb" json:"member_ids"`
	ImportedMemberIDs []string `gorm:"serializer:json;type:jsonb" json:"imported_member_ids"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
