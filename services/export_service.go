// friend-map-system/services/export_service.go
package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"friend-map-system/models"
	"friend-map-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const exportReadme = `# MapYourFriends Data Export
Generated: %s

This archive contains all your personal data stored in MapYourFriends.

## Files Included

- profile.json - Your profile information
- friends_imported.json - Friends you manually imported
- friends_imported.csv - Same data in spreadsheet format
- friends_registered.json - Your registered friends (public info only)
- groups.json - Groups you created
- messages_sent.json - Messages you sent
- messages_received.json - Messages you received
- meetups.json - Meetups you created or joined
- stats.json - Your calculated statistics

## Data Retention

After account deletion, data is retained for 30 days before permanent removal.
You can cancel deletion during this period.

## Questions?

Contact: support@mapyourfriends.com
`

// ExportService assembles a user's full data set into a downloadable ZIP
// archive (GDPR data portability).
type ExportService struct {
	DB    *gorm.DB
	Stats *StatsService
}

func NewExportService(db *gorm.DB, stats *StatsService) *ExportService {
	return &ExportService{DB: db, Stats: stats}
}

type exportPayload struct {
	GeneratedAt       time.Time
	Profile           models.User
	ImportedFriends   []models.ImportedFriend
	RegisteredFriends []models.User
	Groups            []models.Group
	MessagesSent      []models.Message
	MessagesReceived  []models.Message
	Meetups           []models.Meetup
	Stats             *models.UserStats
}

// collect gathers every collection the user appears in.
func (s *ExportService) collect(ctx context.Context, userID string) (*exportPayload, error) {
	payload := &exportPayload{GeneratedAt: time.Now().UTC()}

	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&payload.Profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", userID).
		Limit(maxImportedRows).
		Find(&payload.ImportedFriends).Error; err != nil {
		return nil, fmt.Errorf("failed to load imported contacts: %w", err)
	}

	var friendships []models.Friendship
	if err := s.DB.WithContext(ctx).
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Limit(maxFriendshipRows).
		Find(&friendships).Error; err != nil {
		return nil, fmt.Errorf("failed to load friendships: %w", err)
	}
	friendIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		friendIDs = append(friendIDs, f.OtherSide(userID))
	}
	if len(friendIDs) > 0 {
		if err := s.DB.WithContext(ctx).
			Where("user_id IN ?", friendIDs).
			Limit(maxFriendshipRows).
			Find(&payload.RegisteredFriends).Error; err != nil {
			return nil, fmt.Errorf("failed to load registered friends: %w", err)
		}
		// Public info only: strip emails before serialization.
		for i := range payload.RegisteredFriends {
			payload.RegisteredFriends[i].Email = ""
		}
	}

	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", userID).
		Limit(100).
		Find(&payload.Groups).Error; err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	if err := s.DB.WithContext(ctx).
		Where("from_user_id = ?", userID).
		Limit(10000).
		Find(&payload.MessagesSent).Error; err != nil {
		return nil, fmt.Errorf("failed to load sent messages: %w", err)
	}
	if err := s.DB.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Limit(10000).
		Find(&payload.MessagesReceived).Error; err != nil {
		return nil, fmt.Errorf("failed to load received messages: %w", err)
	}

	needle := jsonbNeedle(userID)
	if err := s.DB.WithContext(ctx).
		Where("creator_id = ? OR attendee_ids @> ?::jsonb", userID, needle).
		Limit(1000).
		Find(&payload.Meetups).Error; err != nil {
		return nil, fmt.Errorf("failed to load meetups: %w", err)
	}

	var stats models.UserStats
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fresh, calcErr := s.Stats.CalculateForUser(ctx, userID)
		if calcErr != nil {
			return nil, fmt.Errorf("failed to calculate stats for export: %w", calcErr)
		}
		payload.Stats = fresh
	case err != nil:
		return nil, fmt.Errorf("failed to load stats: %w", err)
	default:
		payload.Stats = &stats
	}

	return payload, nil
}

// writeArchive renders the payload as a ZIP stream.
func writeArchive(w io.Writer, payload *exportPayload) error {
	archive := zip.NewWriter(w)

	addJSON := func(name string, value interface{}) error {
		f, err := archive.Create(name)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}
		_, err = f.Write(data)
		return err
	}

	readme, err := archive.Create("README.md")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(readme, exportReadme, payload.GeneratedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	if err := addJSON("profile.json", payload.Profile); err != nil {
		return err
	}
	if err := addJSON("friends_imported.json", payload.ImportedFriends); err != nil {
		return err
	}
	if err := writeImportedCSV(archive, payload.ImportedFriends); err != nil {
		return err
	}
	if err := addJSON("friends_registered.json", payload.RegisteredFriends); err != nil {
		return err
	}
	if err := addJSON("groups.json", payload.Groups); err != nil {
		return err
	}
	if err := addJSON("messages_sent.json", payload.MessagesSent); err != nil {
		return err
	}
	if err := addJSON("messages_received.json", payload.MessagesReceived); err != nil {
		return err
	}
	if err := addJSON("meetups.json", payload.Meetups); err != nil {
		return err
	}
	if err := addJSON("stats.json", payload.Stats); err != nil {
		return err
	}

	return archive.Close()
}

func writeImportedCSV(archive *zip.Writer, friends []models.ImportedFriend) error {
	f, err := archive.Create("friends_imported.csv")
	if err != nil {
		return err
	}

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"first_name", "last_name", "city", "lat", "lng", "email", "phone", "display_name"}); err != nil {
		return err
	}

	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	coord := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}

	for _, friend := range friends {
		record := []string{
			friend.FirstName,
			friend.LastName,
			str(friend.City),
			coord(friend.CityLat),
			coord(friend.CityLng),
			str(friend.Email),
			str(friend.Phone),
			str(friend.DisplayName),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportUser builds the archive and stores it, returning the download URL.
func (s *ExportService) ExportUser(ctx context.Context, userID string) (string, error) {
	payload, err := s.collect(ctx, userID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := writeArchive(&buf, payload); err != nil {
		return "", fmt.Errorf("failed to build export archive: %w", err)
	}

	hex := uuid.NewString()[:8]
	filename := fmt.Sprintf("%s-%s.zip", slug.Make(payload.Profile.Name), hex)

	if utils.R2Enabled() {
		url, err := utils.UploadBytesToR2(ctx, buf.Bytes(), "exports/"+filename, "application/zip")
		if err != nil {
			return "", err
		}
		log.Printf("📦 [EXPORT] %s → %s (%d bytes)", userID, url, buf.Len())
		return url, nil
	}

	url, err := utils.SaveLocalFile(buf.Bytes(), "exports/"+filename)
	if err != nil {
		return "", fmt.Errorf("failed to save export archive: %w", err)
	}
	log.Printf("📦 [EXPORT] %s → %s (%d bytes, local)", userID, url, buf.Len())
	return url, nil
}

// ExportMe is the user-facing export endpoint.
func (s *ExportService) ExportMe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	url, err := s.ExportUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "export failed",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Export ready", "url": url})
}

// ExportUserAdmin is the operator endpoint for exporting any user.
func (s *ExportService) ExportUserAdmin(c *fiber.Ctx) error {
	userID := c.Params("user_id")

	url, err := s.ExportUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "export failed",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Export ready", "url": url})
}
