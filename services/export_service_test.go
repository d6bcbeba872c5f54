package services

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"
	"time"

	"friend-map-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZipEntry(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return data
	}
	t.Fatalf("archive is missing %s", name)
	return nil
}

func TestWriteArchive(t *testing.T) {
	lat, lng := 45.4642, 9.19
	city := "Milano"
	displayName := "Milan, Lombardy, Italy"

	payload := &exportPayload{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Profile: models.User{
			UserID: "user_abc",
			Name:   "Mario Rossi",
			Email:  "mario@example.com",
		},
		ImportedFriends: []models.ImportedFriend{
			{
				FriendID:      "imported_a1b2c3d4e5f6",
				OwnerID:       "user_abc",
				FirstName:     "Luca",
				LastName:      "Verdi",
				City:          &city,
				CityLat:       &lat,
				CityLng:       &lng,
				DisplayName:   &displayName,
				GeocodeStatus: models.GeocodeSuccess,
			},
		},
		RegisteredFriends: []models.User{
			{UserID: "user_def", Name: "Giulia Bianchi"},
		},
		Stats: &models.UserStats{UserID: "user_abc", TotalFriends: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, writeArchive(&buf, payload))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	wantFiles := []string{
		"README.md",
		"profile.json",
		"friends_imported.json",
		"friends_imported.csv",
		"friends_registered.json",
		"groups.json",
		"messages_sent.json",
		"messages_received.json",
		"meetups.json",
		"stats.json",
	}
	var gotFiles []string
	for _, f := range zr.File {
		gotFiles = append(gotFiles, f.Name)
	}
	assert.ElementsMatch(t, wantFiles, gotFiles)

	readme := string(readZipEntry(t, zr, "README.md"))
	assert.Contains(t, readme, "2026-03-01T12:00:00Z")

	var profile models.User
	require.NoError(t, json.Unmarshal(readZipEntry(t, zr, "profile.json"), &profile))
	assert.Equal(t, "user_abc", profile.UserID)
	assert.Equal(t, "mario@example.com", profile.Email)

	records, err := csv.NewReader(bytes.NewReader(readZipEntry(t, zr, "friends_imported.csv"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"first_name", "last_name", "city", "lat", "lng", "email", "phone", "display_name"}, records[0])
	assert.Equal(t, "Luca", records[1][0])
	assert.Equal(t, "Milano", records[1][2])
	assert.Equal(t, "45.4642", records[1][3])
	assert.Equal(t, "Milan, Lombardy, Italy", records[1][7])

	var stats models.UserStats
	require.NoError(t, json.Unmarshal(readZipEntry(t, zr, "stats.json"), &stats))
	assert.Equal(t, 2, stats.TotalFriends)
}
