package booking

import (
	"slices"
	"time"
)

// Classify returns the bookings that fall into state at instant now, newest
// start first. The input slice is not modified.
//
// PAST only includes approved bookings. CURRENT and FUTURE ignore status.
func Classify(bookings []*Booking, state State, now time.Time) []*Booking {
	match := predicate(state, now)

	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if match(b) {
			out = append(out, b)
		}
	}

	slices.SortStableFunc(out, func(a, b *Booking) int {
		return b.Start.Compare(a.Start)
	})
	return out
}

func predicate(state State, now time.Time) func(*Booking) bool {
	switch state {
	case StateCurrent:
		return func(b *Booking) bool { return b.Start.Before(now) && b.End.After(now) }
	case StatePast:
		return func(b *Booking) bool { return b.End.Before(now) && b.Status == StatusApproved }
	case StateFuture:
		return func(b *Booking) bool { return b.Start.After(now) }
	case StateWaiting:
		return func(b *Booking) bool { return b.Status == StatusWaiting }
	case StateRejected:
		return func(b *Booking) bool { return b.Status == StatusRejected }
	case StateAll:
		return func(*Booking) bool { return true }
	default:
		return func(*Booking) bool { return false }
	}
}
