package booking

import (
	"slices"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/item"
)

var validTransitions = map[Status][]Status{
	StatusWaiting:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// CanTransitionTo reports whether s may move to target.
func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(validTransitions[s], target)
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Initialize builds a new WAITING booking. It does not validate; call
// ValidateCreate first.
func Initialize(it *item.Item, bookerID string, start, end time.Time) *Booking {
	return &Booking{
		ItemID:   it.ID,
		ItemName: it.Name,
		OwnerID:  it.OwnerID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   StatusWaiting,
	}
}

// Transition records the owner's decision on b. Only the item owner may
// decide, and only once.
func Transition(b *Booking, actingUserID string, approve bool) error {
	if actingUserID != b.OwnerID {
		return ErrNotAuthorized
	}

	target := StatusRejected
	if approve {
		target = StatusApproved
	}

	if !b.Status.CanTransitionTo(target) {
		return ErrAlreadyDecided
	}

	b.Status = target
	return nil
}
