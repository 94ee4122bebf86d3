package booking

import (
	"time"

	"github.com/nekogravitycat/rental-backend/internal/item"
)

// ValidateCreate checks whether requesterID may book it for [start, end).
// Checks run in a fixed order and the first failure wins. Overlap with
// other bookings is not checked.
func ValidateCreate(requesterID string, it *item.Item, start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	if !it.Available {
		return ErrItemNotAvailable
	}
	if it.OwnerID == requesterID {
		return ErrSelfBookingForbidden
	}
	return nil
}
