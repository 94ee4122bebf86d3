package http

import (
	"time"

	"github.com/nekogravitycat/rental-backend/internal/booking"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/rental-backend/internal/user/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	State string `form:"state"`
}

// Normalize applies defaults; an absent state means ALL.
func (r *ListBookingsRequest) Normalize() {
	r.ListParams.Normalize()
	if r.State == "" {
		r.State = string(booking.StateAll)
	}
}

// PatchBookingRequest carries the owner's decision as ?approved=true|false.
type PatchBookingRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

type CreateBookingRequest struct {
	ItemID string    `json:"item_id" binding:"required,uuid"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// Validate rejects bookings that begin in the past. Interval ordering is
// left to the booking service.
func (r *CreateBookingRequest) Validate(now time.Time) error {
	if !r.Start.After(now) {
		return booking.ErrStartInPast
	}
	return nil
}

// ItemTag is a brief representation of the booked item.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID        string           `json:"id"`
	Item      ItemTag          `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		Start:     b.Start,
		End:       b.End,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BookingBrief is the short form used in an item's last/next summary.
type BookingBrief struct {
	ID       string    `json:"id"`
	BookerID string    `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func NewBookingBrief(b *booking.Booking) *BookingBrief {
	if b == nil {
		return nil
	}
	return &BookingBrief{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}
