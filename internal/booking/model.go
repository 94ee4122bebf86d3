package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidInterval      = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStartInPast          = apperror.New(http.StatusBadRequest, "start time must be in the future")
	ErrItemNotAvailable     = apperror.New(http.StatusBadRequest, "item is not available for booking")
	ErrSelfBookingForbidden = apperror.New(http.StatusForbidden, "owners cannot book their own items")
	ErrNotAuthorized        = apperror.New(http.StatusForbidden, "not allowed to act on this booking")
	ErrAlreadyDecided       = apperror.New(http.StatusConflict, "booking has already been decided")
	ErrUnknownState         = apperror.New(http.StatusBadRequest, "unknown state")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// State selects a bucket of bookings relative to the current time.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = map[string]State{
	string(StateAll):      StateAll,
	string(StateCurrent):  StateCurrent,
	string(StatePast):     StatePast,
	string(StateFuture):   StateFuture,
	string(StateWaiting):  StateWaiting,
	string(StateRejected): StateRejected,
}

// ParseState maps a query value to a State. Matching is exact.
// The returned error satisfies errors.Is(err, ErrUnknownState).
func ParseState(s string) (State, error) {
	st, ok := states[s]
	if !ok {
		return "", apperror.Wrap(ErrUnknownState, ErrUnknownState.Code, "unknown state: "+s)
	}
	return st, nil
}

// Booking is a request by a booker to use an item for [Start, End).
// OwnerID, ItemName and BookerName are read-side joins and are never stored
// on the booking row.
type Booking struct {
	ID         string
	ItemID     string
	ItemName   string
	OwnerID    string
	BookerID   string
	BookerName string
	Start      time.Time
	End        time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LastNext summarises an item's booking timeline for its owner.
// Either side is nil when there is no matching booking.
type LastNext struct {
	Last *Booking
	Next *Booking
}
