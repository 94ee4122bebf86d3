package http

import (
	"time"

	bookingHttp "github.com/nekogravitycat/rental-backend/internal/booking/http"
	commentHttp "github.com/nekogravitycat/rental-backend/internal/comment/http"
	"github.com/nekogravitycat/rental-backend/internal/item"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
	Available   *bool  `json:"available"`
}

// IsAvailable defaults to true when the field was omitted.
func (r *CreateItemRequest) IsAvailable() bool {
	return r.Available == nil || *r.Available
}

type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Available   *bool   `json:"available"`
}

type SearchItemsRequest struct {
	request.ListParams
	Text string `form:"text"`
}

type ItemResponse struct {
	ID          string                        `json:"id"`
	OwnerID     string                        `json:"owner_id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Available   bool                          `json:"available"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
	LastBooking *bookingHttp.BookingBrief     `json:"last_booking,omitempty"`
	NextBooking *bookingHttp.BookingBrief     `json:"next_booking,omitempty"`
	Comments    []commentHttp.CommentResponse `json:"comments,omitempty"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
