// friend-map-system/services/auth_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"friend-map-system/middleware"
	"friend-map-system/models"
	"friend-map-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const sessionTTL = 7 * 24 * time.Hour

// AuthService exchanges provider session ids for platform sessions. The
// identity provider owns authentication entirely; we only call its
// session-data endpoint and store the opaque token it hands back.
type AuthService struct {
	DB          *gorm.DB
	ProviderURL string
	Client      *http.Client
}

type providerSessionData struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

func NewAuthService(db *gorm.DB) *AuthService {
	providerURL := os.Getenv("AUTH_PROVIDER_URL")
	if providerURL == "" {
		log.Fatal("AUTH_PROVIDER_URL environment variable not set")
	}
	return &AuthService{
		DB:          db,
		ProviderURL: providerURL,
		Client:      utils.HTTPClient,
	}
}

// fetchSessionData calls the provider's session-data endpoint.
func (s *AuthService) fetchSessionData(c *fiber.Ctx, sessionID string) (*providerSessionData, error) {
	req, err := http.NewRequestWithContext(c.Context(), "GET", s.ProviderURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[AUTH] Provider returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("provider rejected session_id: %d", resp.StatusCode)
	}

	var data providerSessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	return &data, nil
}

// CreateSession exchanges a provider session_id for a session token, creating
// the user on first login.
func (s *AuthService) CreateSession(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id required"})
	}

	data, err := s.fetchSessionData(c, req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session_id"})
	}

	var user models.User
	err = s.DB.Where("email = ?", data.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		picture := data.Picture
		user = models.User{
			UserID:          utils.NewID("user"),
			Email:           data.Email,
			Name:            data.Name,
			Picture:         &picture,
			CompetentCities: []models.CompetentCity{},
			Availability:    []string{},
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create user",
				"cause": err.Error(),
			})
		}
		log.Printf("✅ [AUTH] New user registered: %s (%s)", user.UserID, user.Email)
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error loading user",
			"cause": err.Error(),
		})
	default:
		// Refresh name/picture from the provider on every login.
		picture := data.Picture
		if err := s.DB.Model(&user).Updates(map[string]interface{}{
			"name":    data.Name,
			"picture": &picture,
		}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update user",
				"cause": err.Error(),
			})
		}
	}

	// One active session per user: drop any prior ones.
	if err := s.DB.Where("user_id = ?", user.UserID).Delete(&models.UserSession{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to clear old sessions",
			"cause": err.Error(),
		})
	}

	session := models.UserSession{
		UserID:       user.UserID,
		SessionToken: data.SessionToken,
		ExpiresAt:    time.Now().UTC().Add(sessionTTL),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create session",
			"cause": err.Error(),
		})
	}

	if err := s.DB.Where("user_id = ?", user.UserID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error reloading user",
			"cause": err.Error(),
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    data.SessionToken,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "None",
	})

	return c.JSON(fiber.Map{
		"user":          user,
		"session_token": data.SessionToken,
	})
}

// Me returns the authenticated user.
func (s *AuthService) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// Logout deletes the session row and clears the cookie.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	if token := middleware.SessionToken(c); token != "" {
		if err := s.DB.Where("session_token = ?", token).Delete(&models.UserSession{}).Error; err != nil {
			log.Printf("⚠️ [AUTH] Failed to delete session: %v", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HTTPOnly: true,
		SameSite: "None",
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}
