// friend-map-system/services/group_service.go
package services

import (
	"errors"

	"friend-map-system/models"
	"friend-map-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GroupService struct {
	DB *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{DB: db}
}

func (s *GroupService) ownedGroup(c *fiber.Ctx, groupID string) (*models.Group, error) {
	userID := c.Locals("user_id").(string)
	var group models.Group
	if err := s.DB.Where("group_id = ? AND owner_id = ?", groupID, userID).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Create makes a new group; each user may own at most MaxGroupsPerUser.
func (s *GroupService) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Name  string  `json:"name"`
		Color string  `json:"color"`
		Icon  *string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	var count int64
	if err := s.DB.Model(&models.Group{}).Where("owner_id = ?", userID).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error counting groups",
			"cause": err.Error(),
		})
	}
	if count >= models.MaxGroupsPerUser {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Maximum 20 groups allowed",
		})
	}

	group := models.Group{
		GroupID:           utils.NewID("group"),
		OwnerID:           userID,
		Name:              req.Name,
		Icon:              req.Icon,
		MemberIDs:         []string{},
		ImportedMemberIDs: []string{},
	}
	if req.Color != "" {
		group.Color = req.Color
	}
	if err := s.DB.Create(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create group",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Group created", "group_id": group.GroupID})
}

// List returns all groups owned by the caller.
func (s *GroupService) List(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var groups []models.Group
	if err := s.DB.Where("owner_id = ?", userID).Limit(100).Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load groups",
			"cause": err.Error(),
		})
	}
	return c.JSON(groups)
}

// Get returns one group owned by the caller.
func (s *GroupService) Get(c *fiber.Ctx) error {
	group, err := s.ownedGroup(c, c.Params("group_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching group",
			"cause": err.Error(),
		})
	}
	return c.JSON(group)
}

// Update edits name/color/icon of a group owned by the caller.
func (s *GroupService) Update(c *fiber.Ctx) error {
	group, err := s.ownedGroup(c, c.Params("group_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching group",
			"cause": err.Error(),
		})
	}

	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Icon != nil {
		updates["icon"] = req.Icon
	}
	if len(updates) > 0 {
		if err := s.DB.Model(group).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update group",
				"cause": err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{"message": "Group updated"})
}

// Delete removes a group owned by the caller.
func (s *GroupService) Delete(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	res := s.DB.Where("group_id = ? AND owner_id = ?", c.Params("group_id"), userID).Delete(&models.Group{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete group",
			"cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}
	return c.JSON(fiber.Map{"message": "Group deleted"})
}

// AddMember assigns a registered user or imported contact to a group.
func (s *GroupService) AddMember(c *fiber.Ctx) error {
	group, err := s.ownedGroup(c, c.Params("group_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching group",
			"cause": err.Error(),
		})
	}

	var req struct {
		MemberID   string `json:"member_id"`
		MemberType string `json:"member_type"`
	}
	if err := c.BodyParser(&req); err != nil || req.MemberID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "member_id required"})
	}

	switch req.MemberType {
	case models.GroupMemberUser:
		if contains(group.MemberIDs, req.MemberID) {
			return c.JSON(fiber.Map{"message": "Member already in group"})
		}
		group.MemberIDs = append(group.MemberIDs, req.MemberID)
	case models.GroupMemberImported:
		if contains(group.ImportedMemberIDs, req.MemberID) {
			return c.JSON(fiber.Map{"message": "Member already in group"})
		}
		group.ImportedMemberIDs = append(group.ImportedMemberIDs, req.MemberID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "member_type must be 'user' or 'imported'"})
	}

	if err := s.DB.Model(group).Updates(map[string]interface{}{
		"member_ids":          group.MemberIDs,
		"imported_member_ids": group.ImportedMemberIDs,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to add member",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Member added"})
}

// RemoveMember drops a member id from both lists.
func (s *GroupService) RemoveMember(c *fiber.Ctx) error {
	group, err := s.ownedGroup(c, c.Params("group_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching group",
			"cause": err.Error(),
		})
	}

	memberID := c.Params("member_id")
	if err := s.DB.Model(group).Updates(map[string]interface{}{
		"member_ids":          remove(group.MemberIDs, memberID),
		"imported_member_ids": remove(group.ImportedMemberIDs, memberID),
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to remove member",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Member removed"})
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func remove(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}
