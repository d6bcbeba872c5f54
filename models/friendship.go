package models

import (
	"time"
)

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship links two registered users. UserID is the requester, FriendID
// the recipient; a user's friends are the rows where they appear on either
// side with status accepted.
type Friendship struct {
	FriendshipID string `gorm:"primaryKey" json:"friendship_id"` // e.g. "friendship_a1b2c3d4e5f6"
	UserID       string `gorm:"index;not null" json:"user_id"`
	FriendID     string `gorm:"index;not null" json:"friend_id"`
	Status       string `gorm:"type:varchar(16);default:'pending';index" json:"status"`

	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

// OtherSide returns the user on the opposite end of the friendship.
func (f *Friendship) OtherSide(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
