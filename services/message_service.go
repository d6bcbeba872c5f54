// friend-map-system/services/message_service.go
package services

import (
	"errors"

	"friend-map-system/models"
	"friend-map-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MessageService struct {
	DB *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{DB: db}
}

// Send delivers a direct message to another user.
func (s *MessageService) Send(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		ToUserID    string `json:"to_user_id"`
		Content     string `json:"content"`
		MessageType string `json:"message_type"`
	}
	if err := c.BodyParser(&req); err != nil || req.ToUserID == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to_user_id and content required"})
	}
	if req.MessageType == "" {
		req.MessageType = "text"
	}

	var target models.User
	if err := s.DB.Where("user_id = ?", req.ToUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching user",
			"cause": err.Error(),
		})
	}

	message := models.Message{
		MessageID:   utils.NewID("msg"),
		FromUserID:  userID,
		ToUserID:    req.ToUserID,
		Content:     req.Content,
		MessageType: req.MessageType,
	}
	if err := s.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to send message",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Message sent", "message_id": message.MessageID})
}

// Inbox lists received messages, newest first, sender embedded.
func (s *MessageService) Inbox(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var messages []models.Message
	if err := s.DB.
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load inbox",
			"cause": err.Error(),
		})
	}

	result := make([]fiber.Map, 0, len(messages))
	for _, msg := range messages {
		var sender models.User
		_ = s.DB.Where("user_id = ?", msg.FromUserID).First(&sender).Error
		result = append(result, fiber.Map{
			"message_id":   msg.MessageID,
			"from_user_id": msg.FromUserID,
			"to_user_id":   msg.ToUserID,
			"content":      msg.Content,
			"message_type": msg.MessageType,
			"read":         msg.Read,
			"created_at":   msg.CreatedAt,
			"from_user":    sender,
		})
	}
	return c.JSON(result)
}

// Sent lists messages the caller sent, newest first.
func (s *MessageService) Sent(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var messages []models.Message
	if err := s.DB.
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load sent messages",
			"cause": err.Error(),
		})
	}
	return c.JSON(messages)
}

// MarkRead marks a received message as read.
func (s *MessageService) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := s.DB.Model(&models.Message{}).
		Where("message_id = ? AND to_user_id = ?", c.Params("message_id"), userID).
		Update("read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to mark message read",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Marked as read"})
}
