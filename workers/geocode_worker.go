package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"friend-map-system/models"
	"friend-map-system/services"

	"gorm.io/gorm"
)

const geocodeBatchSize = 25

// GeocodeWorker resolves coordinates for imported contacts whose city has
// not been geocoded yet.
type GeocodeWorker struct {
	DB       *gorm.DB
	Geocoder *services.GeocodingClient
}

func NewGeocodeWorker(db *gorm.DB, geocoder *services.GeocodingClient) *GeocodeWorker {
	return &GeocodeWorker{DB: db, Geocoder: geocoder}
}

// Run polls for pending contacts until the context is cancelled.
func (w *GeocodeWorker) Run(ctx context.Context, pollInterval time.Duration) {
	log.Println("Starting geocode worker...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Geocode worker stopped.")
			return
		case <-ticker.C:
			resolved, failed, err := w.processPending(ctx)
			if err != nil {
				log.Printf("❌ Geocode batch aborted: %v", err)
				continue
			}
			if resolved > 0 || failed > 0 {
				log.Printf("📍 Geocode batch complete: %d resolved, %d failed", resolved, failed)
			}
		}
	}
}

// processPending geocodes up to one batch of pending contacts. Contacts whose
// city cannot be found are marked failed; network errors abort the batch so
// the same rows are retried next tick.
func (w *GeocodeWorker) processPending(ctx context.Context) (resolved, failed int, err error) {
	var pending []models.ImportedFriend
	if err := w.DB.WithContext(ctx).
		Where("geocode_status = ? AND city IS NOT NULL AND city <> ''", models.GeocodePending).
		Order("created_at asc").
		Limit(geocodeBatchSize).
		Find(&pending).Error; err != nil {
		return 0, 0, err
	}

	for i := range pending {
		contact := &pending[i]

		result, lookupErr := w.Geocoder.Lookup(ctx, *contact.City)
		if lookupErr != nil {
			if errors.Is(lookupErr, services.ErrNoGeocodeResult) {
				if markErr := w.DB.WithContext(ctx).Model(contact).
					Update("geocode_status", models.GeocodeFailed).Error; markErr != nil {
					return resolved, failed, markErr
				}
				log.Printf("⚠️ No geocode result for %q (contact %s)", *contact.City, contact.FriendID)
				failed++
				continue
			}
			// Likely a network or upstream problem, stop and retry later.
			return resolved, failed, lookupErr
		}

		updates := map[string]interface{}{
			"city_lat":       result.Lat,
			"city_lng":       result.Lng,
			"display_name":   result.DisplayName,
			"geocode_status": models.GeocodeSuccess,
		}
		if updateErr := w.DB.WithContext(ctx).Model(contact).Updates(updates).Error; updateErr != nil {
			return resolved, failed, updateErr
		}
		resolved++
	}

	return resolved, failed, nil
}
