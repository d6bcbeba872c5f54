// friend-map-system/services/friend_service.go
package services

import (
	"errors"
	"time"

	"friend-map-system/models"
	"friend-map-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FriendService struct {
	DB *gorm.DB
}

func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{DB: db}
}

// listFriends resolves the accepted friendships of a user into user rows.
func (s *FriendService) listFriends(userID string) ([]models.User, error) {
	var friendships []models.Friendship
	if err := s.DB.
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Limit(1000).
		Find(&friendships).Error; err != nil {
		return nil, err
	}

	friendIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		friendIDs = append(friendIDs, f.OtherSide(userID))
	}
	if len(friendIDs) == 0 {
		return []models.User{}, nil
	}

	var friends []models.User
	if err := s.DB.Where("user_id IN ?", friendIDs).Limit(1000).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// GetFriends returns all accepted friends of the caller.
func (s *FriendService) GetFriends(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	friends, err := s.listFriends(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load friends",
			"cause": err.Error(),
		})
	}
	return c.JSON(friends)
}

// GetFriendsMap returns one marker per locatable friend city: the active city
// plus every competent city with coordinates.
func (s *FriendService) GetFriendsMap(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	friends, err := s.listFriends(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load friends",
			"cause": err.Error(),
		})
	}

	markers := make([]fiber.Map, 0, len(friends))
	for _, friend := range friends {
		if friend.ActiveCityLat != nil && friend.ActiveCityLng != nil {
			markers = append(markers, fiber.Map{
				"user_id":          friend.UserID,
				"name":             friend.Name,
				"picture":          friend.Picture,
				"bio":              friend.Bio,
				"active_city":      friend.ActiveCity,
				"lat":              *friend.ActiveCityLat,
				"lng":              *friend.ActiveCityLng,
				"competent_cities": friend.CompetentCities,
				"availability":     friend.Availability,
				"marker_type":      "active",
			})
		}
		for _, city := range friend.CompetentCities {
			if city.Lat == 0 && city.Lng == 0 {
				continue
			}
			markers = append(markers, fiber.Map{
				"user_id":      friend.UserID,
				"name":         friend.Name,
				"picture":      friend.Picture,
				"bio":          friend.Bio,
				"city_name":    city.Name,
				"lat":          city.Lat,
				"lng":          city.Lng,
				"availability": friend.Availability,
				"marker_type":  "competent",
			})
		}
	}
	return c.JSON(markers)
}

// SendRequest creates a pending friendship toward another user.
func (s *FriendService) SendRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		ToUserID string `json:"to_user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ToUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to_user_id required"})
	}
	if req.ToUserID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot friend yourself"})
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

	// One friendship per pair, either direction, any status.
	var existing int64
	if err := s.DB.Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, req.ToUserID, req.ToUserID, userID).
		Count(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error checking friendship",
			"cause": err.Error(),
		})
	}
	if existing > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Friendship already exists"})
	}

	friendship := models.Friendship{
		FriendshipID: utils.NewID("friendship"),
		UserID:       userID,
		FriendID:     req.ToUserID,
		Status:       models.FriendshipPending,
	}
	if err := s.DB.Create(&friendship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create friend request",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":       "Friend request sent",
		"friendship_id": friendship.FriendshipID,
	})
}

// GetRequests lists pending requests addressed to the caller, sender embedded.
func (s *FriendService) GetRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var requests []models.Friendship
	if err := s.DB.
		Where("friend_id = ? AND status = ?", userID, models.FriendshipPending).
		Limit(100).
		Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load friend requests",
			"cause": err.Error(),
		})
	}

	result := make([]fiber.Map, 0, len(requests))
	for _, req := range requests {
		var sender models.User
		if err := s.DB.Where("user_id = ?", req.UserID).First(&sender).Error; err != nil {
			continue
		}
		result = append(result, fiber.Map{
			"friendship_id": req.FriendshipID,
			"from_user":     sender,
			"created_at":    req.CreatedAt,
		})
	}
	return c.JSON(result)
}

// AcceptRequest accepts a pending request addressed to the caller.
func (s *FriendService) AcceptRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	friendshipID := c.Params("friendship_id")

	now := time.Now().UTC()
	res := s.DB.Model(&models.Friendship{}).
		Where("friendship_id = ? AND friend_id = ? AND status = ?", friendshipID, userID, models.FriendshipPending).
		Updates(map[string]interface{}{
			"status":      models.FriendshipAccepted,
			"accepted_at": &now,
		})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to accept friend request",
			"cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Friend request not found"})
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

// RemoveFriend deletes the friendship between the caller and friend_id.
func (s *FriendService) RemoveFriend(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	friendID := c.Params("friend_id")

	if err := s.DB.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Delete(&models.Friendship{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to remove friend",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}
