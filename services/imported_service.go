// friend-map-system/services/imported_service.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"friend-map-system/models"
	"friend-map-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// maxCSVRows bounds one upload; a defensive cap, not a product rule.
const maxCSVRows = 5000

type ImportedService struct {
	DB       *gorm.DB
	Geocoder *GeocodingClient
}

func NewImportedService(db *gorm.DB, geocoder *GeocodingClient) *ImportedService {
	return &ImportedService{DB: db, Geocoder: geocoder}
}

// List returns all imported contacts owned by the caller.
func (s *ImportedService) List(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var friends []models.ImportedFriend
	if err := s.DB.Where("owner_id = ?", userID).Limit(maxImportedRows).Find(&friends).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load imported friends",
			"cause": err.Error(),
		})
	}
	return c.JSON(friends)
}

// ListForMap returns markers for geocoded contacts only.
func (s *ImportedService) ListForMap(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var friends []models.ImportedFriend
	if err := s.DB.
		Where("owner_id = ? AND geocode_status = ?", userID, models.GeocodeSuccess).
		Limit(maxImportedRows).
		Find(&friends).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load imported friends",
			"cause": err.Error(),
		})
	}

	markers := make([]fiber.Map, 0, len(friends))
	for _, friend := range friends {
		if friend.CityLat == nil || friend.CityLng == nil {
			continue
		}
		markers = append(markers, fiber.Map{
			"friend_id":   friend.FriendID,
			"name":        friend.FullName(),
			"city":        friend.City,
			"lat":         *friend.CityLat,
			"lng":         *friend.CityLng,
			"marker_type": "imported",
		})
	}
	return c.JSON(markers)
}

type importedFriendInput struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	City      *string  `json:"city"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Email     *string  `json:"email"`
	Phone     *string  `json:"phone"`
}

// Add creates a single imported contact. Coordinates provided by hand mark
// the contact as geocoded; otherwise it stays pending for the worker.
func (s *ImportedService) Add(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req importedFriendInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if strings.TrimSpace(req.FirstName) == "" && strings.TrimSpace(req.LastName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	friend := models.ImportedFriend{
		FriendID:      utils.NewID("imported"),
		OwnerID:       userID,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		City:          req.City,
		CityLat:       req.Lat,
		CityLng:       req.Lng,
		Email:         req.Email,
		Phone:         req.Phone,
		GeocodeStatus: models.GeocodePending,
		Source:        models.ImportSourceManual,
	}
	if req.Lat != nil && req.Lng != nil {
		friend.GeocodeStatus = models.GeocodeSuccess
	}

	if err := s.DB.Create(&friend).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create imported friend",
			"cause": err.Error(),
		})
	}
	return c.JSON(friend)
}

// Update edits an imported contact owned by the caller.
func (s *ImportedService) Update(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	friendID := c.Params("friend_id")

	var friend models.ImportedFriend
	if err := s.DB.Where("friend_id = ? AND owner_id = ?", friendID, userID).First(&friend).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Imported friend not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching imported friend",
			"cause": err.Error(),
		})
	}

	var req importedFriendInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.FirstName) != "" {
		updates["first_name"] = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		updates["last_name"] = strings.TrimSpace(req.LastName)
	}
	if req.City != nil {
		updates["city"] = req.City
		// A new city invalidates the previous geocode.
		if friend.City == nil || *req.City != *friend.City {
			updates["geocode_status"] = models.GeocodePending
			updates["display_name"] = nil
		}
	}
	if req.Lat != nil && req.Lng != nil {
		updates["city_lat"] = req.Lat
		updates["city_lng"] = req.Lng
		updates["geocode_status"] = models.GeocodeSuccess
	}
	if req.Email != nil {
		updates["email"] = req.Email
	}
	if req.Phone != nil {
		updates["phone"] = req.Phone
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&friend).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update imported friend",
				"cause": err.Error(),
			})
		}
	}

	if err := s.DB.Where("friend_id = ?", friendID).First(&friend).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error reloading imported friend",
			"cause": err.Error(),
		})
	}
	return c.JSON(friend)
}

// Delete removes an imported contact owned by the caller.
func (s *ImportedService) Delete(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	friendID := c.Params("friend_id")

	res := s.DB.Where("friend_id = ? AND owner_id = ?", friendID, userID).Delete(&models.ImportedFriend{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete imported friend",
			"cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Imported friend not found"})
	}
	return c.JSON(fiber.Map{"message": "Imported friend deleted"})
}

// GeocodeOne geocodes a single contact's city on demand.
func (s *ImportedService) GeocodeOne(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	friendID := c.Params("friend_id")

	var friend models.ImportedFriend
	if err := s.DB.Where("friend_id = ? AND owner_id = ?", friendID, userID).First(&friend).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Imported friend not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching imported friend",
			"cause": err.Error(),
		})
	}
	if friend.City == nil || *friend.City == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "contact has no city to geocode"})
	}

	result, err := s.Geocoder.Lookup(c.Context(), *friend.City)
	if errors.Is(err, ErrNoGeocodeResult) {
		_ = s.DB.Model(&friend).Update("geocode_status", models.GeocodeFailed).Error
		return c.JSON(fiber.Map{"status": "not_found"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "geocoding failed",
			"cause": err.Error(),
		})
	}

	if err := s.DB.Model(&friend).Updates(map[string]interface{}{
		"city_lat":       result.Lat,
		"city_lng":       result.Lng,
		"display_name":   result.DisplayName,
		"geocode_status": models.GeocodeSuccess,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save geocode result",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"lat":          result.Lat,
		"lng":          result.Lng,
		"display_name": result.DisplayName,
	})
}

// GeocodeLookup is the generic city lookup used by the profile editor.
func (s *ImportedService) GeocodeLookup(c *fiber.Ctx) error {
	var req struct {
		City string `json:"city"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.City) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "city required"})
	}

	result, err := s.Geocoder.Lookup(c.Context(), req.City)
	if errors.Is(err, ErrNoGeocodeResult) {
		return c.JSON(fiber.Map{"status": "not_found"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "geocoding failed",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"lat":          result.Lat,
		"lng":          result.Lng,
		"display_name": result.DisplayName,
	})
}

// csvRowError reports one rejected CSV row.
type csvRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// parseContactsCSV reads an uploaded contacts file. Headers are matched
// case-insensitively in Italian or English (Nome/Name, Cognome/Surname,
// Città/City, Email, Telefono/Phone); a row needs at least a name. Bad rows
// are reported, never fatal.
func parseContactsCSV(r io.Reader) ([]models.ImportedFriend, []csvRowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		switch name {
		case "nome", "name", "first name", "first_name":
			cols["first"] = i
		case "cognome", "surname", "last name", "last_name":
			cols["last"] = i
		case "città", "citta", "city":
			cols["city"] = i
		case "email", "e-mail":
			cols["email"] = i
		case "telefono", "phone":
			cols["phone"] = i
		}
	}
	if _, ok := cols["first"]; !ok {
		return nil, nil, fmt.Errorf("CSV is missing a name column (Nome/Name)")
	}

	field := func(record []string, key string) string {
		idx, ok := cols[key]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var friends []models.ImportedFriend
	var rowErrors []csvRowError
	row := 1 // header was row 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrors = append(rowErrors, csvRowError{Row: row, Reason: "malformed CSV row"})
			continue
		}
		if len(friends)+len(rowErrors) > maxCSVRows {
			return nil, nil, fmt.Errorf("CSV has more than %d rows", maxCSVRows)
		}

		firstName := field(record, "first")
		lastName := field(record, "last")
		if firstName == "" && lastName == "" {
			rowErrors = append(rowErrors, csvRowError{Row: row, Reason: "missing name"})
			continue
		}

		friend := models.ImportedFriend{
			FirstName:     firstName,
			LastName:      lastName,
			GeocodeStatus: models.GeocodePending,
			Source:        models.ImportSourceCSV,
		}
		if city := field(record, "city"); city != "" {
			friend.City = &city
		}
		if email := field(record, "email"); email != "" {
			friend.Email = &email
		}
		if phone := field(record, "phone"); phone != "" {
			friend.Phone = &phone
		}
		friends = append(friends, friend)
	}

	return friends, rowErrors, nil
}

// ImportCSV ingests a contacts file. Rows are inserted individually so one
// bad row never sinks the rest of the file.
func (s *ImportedService) ImportCSV(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open file", "cause": err.Error()})
	}
	defer file.Close()

	friends, rowErrors, err := parseContactsCSV(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	imported := 0
	for i := range friends {
		friends[i].FriendID = utils.NewID("imported")
		friends[i].OwnerID = userID
		if err := s.DB.Create(&friends[i]).Error; err != nil {
			log.Printf("⚠️ [IMPORT] Failed to insert contact %q for %s: %v", friends[i].FullName(), userID, err)
			rowErrors = append(rowErrors, csvRowError{Row: 0, Reason: fmt.Sprintf("insert failed for %s", friends[i].FullName())})
			continue
		}
		imported++
	}

	log.Printf("📥 [IMPORT] %s: %d contacts imported, %d rows rejected", userID, imported, len(rowErrors))
	return c.JSON(fiber.Map{
		"total_imported": imported,
		"total_failed":   len(rowErrors),
		"errors":         rowErrors,
	})
}
