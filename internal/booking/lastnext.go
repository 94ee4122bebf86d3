package booking

import "time"

// ResolveLastNext picks, among the bookings of itemID, the latest approved
// booking that has started and the earliest waiting booking that has not.
func ResolveLastNext(bookings []*Booking, itemID string, now time.Time) LastNext {
	var ln LastNext
	for _, b := range bookings {
		if b.ItemID != itemID {
			continue
		}
		if b.Status == StatusApproved && b.Start.Before(now) {
			if ln.Last == nil || b.Start.After(ln.Last.Start) {
				ln.Last = b
			}
		}
		if b.Status == StatusWaiting && b.Start.After(now) {
			if ln.Next == nil || b.Start.Before(ln.Next.Start) {
				ln.Next = b
			}
		}
	}
	return ln
}

// ResolveLastNextByItem runs ResolveLastNext for every item in itemIDs.
func ResolveLastNextByItem(bookings []*Booking, itemIDs []string, now time.Time) map[string]LastNext {
	byItem := make(map[string][]*Booking, len(itemIDs))
	for _, b := range bookings {
		byItem[b.ItemID] = append(byItem[b.ItemID], b)
	}

	out := make(map[string]LastNext, len(itemIDs))
	for _, id := range itemIDs {
		out[id] = ResolveLastNext(byItem[id], id, now)
	}
	return out
}
