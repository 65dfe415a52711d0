// README: Location source polling the device node the mobile client mirrors into Firebase RTDB.
package location

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/db"

	"haulnav/internal/logger"
)

// rtdbDeviceEntry mirrors the entry the device writes under
// /device_locations/{deviceID}.
type rtdbDeviceEntry struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Heading   *float64 `json:"heading"`
	Speed     *float64 `json:"speed"`
	Accuracy  *float64 `json:"accuracy"`
	Altitude  *float64 `json:"altitude"`
	Timestamp int64    `json:"timestamp"`
}

// permissionGranted is what the device writes under
// /devices/{deviceID}/location_permission once the OS grants access.
const permissionGranted = "granted"

// FirebaseSource polls RTDB for the device's latest reading and emits it as
// a Fix whenever its timestamp advances.
type FirebaseSource struct {
	client   *db.Client
	deviceID string
	interval time.Duration
}

func NewFirebaseSource(client *db.Client, deviceID string, interval time.Duration) *FirebaseSource {
	if interval <= 0 {
		interval = time.Second
	}
	return &FirebaseSource{client: client, deviceID: deviceID, interval: interval}
}

func (s *FirebaseSource) RequestPermission(ctx context.Context) (bool, error) {
	var status string
	ref := s.client.NewRef(fmt.Sprintf("devices/%s/location_permission", s.deviceID))
	if err := ref.Get(ctx, &status); err != nil {
		return false, fmt.Errorf("reading location permission for %s: %w", s.deviceID, err)
	}
	return status == permissionGranted, nil
}

func (s *FirebaseSource) Watch(ctx context.Context, fn func(Fix)) (Subscription, error) {
	ref := s.client.NewRef("device_locations/" + s.deviceID)
	sub := newStopper()

	go func() {
		defer close(sub.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		var lastTs int64
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.stop:
				return
			case <-ticker.C:
			}

			var entry rtdbDeviceEntry
			if err := ref.Get(ctx, &entry); err != nil {
				logger.Warn("polling device location failed", "device", s.deviceID, "error", err)
				continue
			}
			if entry.Timestamp == 0 || entry.Timestamp == lastTs {
				continue
			}
			lastTs = entry.Timestamp
			fn(Fix{
				Coords: Coords{
					Latitude:  entry.Lat,
					Longitude: entry.Lng,
					Heading:   entry.Heading,
					Speed:     entry.Speed,
					Accuracy:  entry.Accuracy,
					Altitude:  entry.Altitude,
				},
				Timestamp: entry.Timestamp,
			})
		}
	}()
	return sub, nil
}
