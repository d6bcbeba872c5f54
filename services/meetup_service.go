// friend-map-system/services/meetup_service.go
package services

import (
	"encoding/json"

	"friend-map-system/models"
	"friend-map-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MeetupService struct {
	DB *gorm.DB
}

func NewMeetupService(db *gorm.DB) *MeetupService {
	return &MeetupService{DB: db}
}

// jsonbNeedle renders a user id as a one-element jsonb array for @> queries.
func jsonbNeedle(userID string) string {
	b, _ := json.Marshal([]string{userID})
	return string(b)
}

// Create makes a meetup; the creator attends from the start.
func (s *MeetupService) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Title          string   `json:"title"`
		City           string   `json:"city"`
		CityLat        float64  `json:"city_lat"`
		CityLng        float64  `json:"city_lng"`
		Date           string   `json:"date"`
		Description    *string  `json:"description"`
		InvitedUserIDs []string `json:"invited_user_ids"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title required"})
	}
	if req.InvitedUserIDs == nil {
		req.InvitedUserIDs = []string{}
	}

	meetup := models.Meetup{
		MeetupID:       utils.NewID("meetup"),
		CreatorID:      userID,
		Title:          req.Title,
		City:           req.City,
		CityLat:        req.CityLat,
		CityLng:        req.CityLng,
		Date:           req.Date,
		Description:    req.Description,
		InvitedUserIDs: req.InvitedUserIDs,
		AttendeeIDs:    []string{userID},
		Status:         "active",
	}
	if err := s.DB.Create(&meetup).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create meetup",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Meetup created", "meetup_id": meetup.MeetupID})
}

// List returns meetups the caller created, was invited to, or attends.
func (s *MeetupService) List(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	needle := jsonbNeedle(userID)

	var meetups []models.Meetup
	if err := s.DB.
		Where("creator_id = ? OR invited_user_ids @> ?::jsonb OR attendee_ids @> ?::jsonb", userID, needle, needle).
		Limit(100).
		Find(&meetups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load meetups",
			"cause": err.Error(),
		})
	}
	return c.JSON(meetups)
}

// Join adds the caller to a meetup's attendees.
func (s *MeetupService) Join(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	meetupID := c.Params("meetup_id")

	var meetup models.Meetup
	if err := s.DB.Where("meetup_id = ?", meetupID).First(&meetup).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Meetup not found"})
	}
	if contains(meetup.AttendeeIDs, userID) {
		return c.JSON(fiber.Map{"message": "Already attending"})
	}

	meetup.AttendeeIDs = append(meetup.AttendeeIDs, userID)
	if err := s.DB.Model(&meetup).Update("attendee_ids", meetup.AttendeeIDs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to join meetup",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Joined meetup"})
}

// Delete removes a meetup; only its creator may.
func (s *MeetupService) Delete(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res := s.DB.Where("meetup_id = ? AND creator_id = ?", c.Params("meetup_id"), userID).Delete(&models.Meetup{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete meetup",
			"cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Meetup not found or not authorized"})
	}
	return c.JSON(fiber.Map{"message": "Meetup deleted"})
}
