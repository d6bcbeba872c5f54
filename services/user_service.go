// friend-map-system/services/user_service.go
package services

import (
	"errors"
	"strings"

	"friend-map-system/middleware"
	"friend-map-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// UpdateMe applies a partial profile update; absent fields are untouched.
func (s *UserService) UpdateMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Bio             *string                 `json:"bio"`
		ActiveCity      *string                 `json:"active_city"`
		ActiveCityLat   *float64                `json:"active_city_lat"`
		ActiveCityLng   *float64                `json:"active_city_lng"`
		CompetentCities *[]models.CompetentCity `json:"competent_cities"`
		Availability    *[]string               `json:"availability"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["bio"] = req.Bio
	}
	if req.ActiveCity != nil {
		updates["active_city"] = req.ActiveCity
	}
	if req.ActiveCityLat != nil {
		updates["active_city_lat"] = req.ActiveCityLat
	}
	if req.ActiveCityLng != nil {
		updates["active_city_lng"] = req.ActiveCityLng
	}
	if req.CompetentCities != nil {
		updates["competent_cities"] = *req.CompetentCities
	}
	if req.Availability != nil {
		updates["availability"] = *req.Availability
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&models.User{}).Where("user_id = ?", user.UserID).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update profile",
				"cause": err.Error(),
			})
		}
	}

	var updated models.User
	if err := s.DB.Where("user_id = ?", user.UserID).First(&updated).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error reloading user",
			"cause": err.Error(),
		})
	}
	return c.JSON(updated)
}

// GetUser fetches any user by id.
func (s *UserService) GetUser(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.Where("user_id = ?", c.Params("user_id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching user",
			"cause": err.Error(),
		})
	}
	return c.JSON(user)
}

// SearchUsers does a case-insensitive name/email search, excluding the caller.
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.JSON([]models.User{})
	}

	searchTerm := "%" + strings.ToLower(query) + "%"
	var users []models.User
	if err := s.DB.
		Where("user_id <> ?", userID).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm).
		Limit(20).
		Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "search failed",
			"cause": err.Error(),
		})
	}
	return c.JSON(users)
}
