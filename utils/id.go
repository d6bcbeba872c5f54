package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier like "user_a1b2c3d4e5f6", matching the
// id format used across all collections.
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:12]
}
