package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFriendshipOtherSide(t *testing.T) {
	f := &Friendship{UserID: "user_aaa", FriendID: "user_bbb"}

	assert.Equal(t, "user_bbb", f.OtherSide("user_aaa"))
	assert.Equal(t, "user_aaa", f.OtherSide("user_bbb"))
	// An unrelated id falls through to the requester side.
	assert.Equal(t, "user_aaa", f.OtherSide("user_ccc"))
}
