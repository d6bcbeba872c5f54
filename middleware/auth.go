package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"friend-map-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SessionToken extracts the opaque session token from the session_token
// cookie, falling back to an Authorization: Bearer header.
func SessionToken(c *fiber.Ctx) string {
	if token := c.Cookies("session_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionAuthMiddleware resolves the session token to a user and attaches it
// to the request context. Expired or unknown sessions are rejected.
func SessionAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated",
			})
		}

		var session models.UserSession
		if err := db.Where("session_token = ?", token).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid session",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "DB error resolving session",
				"cause": err.Error(),
			})
		}

		if session.ExpiresAt.Before(time.Now().UTC()) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "session expired",
			})
		}

		var user models.User
		if err := db.Where("user_id = ?", session.UserID).First(&user).Error; err != nil {
			log.Printf("❌ [AUTH] Session %s points at missing user %s", session.ID, session.UserID)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "user not found",
			})
		}

		c.Locals("user_id", user.UserID)
		c.Locals("user", &user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by SessionAuthMiddleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
