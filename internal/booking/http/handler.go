package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-backend/internal/auth"
	"github.com/nekogravitycat/rental-backend/internal/booking"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	clock   clock.Clock
}

func NewHandler(service booking.Service, c clock.Clock) *Handler {
	return &Handler{
		service: service,
		clock:   c,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := body.Validate(h.clock.Now()); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		BookerID: auth.GetUserID(c),
		ItemID:   body.ItemID,
		Start:    body.Start,
		End:      body.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Patch approves or rejects a booking: PATCH /bookings/:id?approved=true
func (h *Handler) Patch(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var q PatchBookingRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "approved query parameter is required", err)
		return
	}

	b, err := h.service.Patch(c.Request.Context(), auth.GetUserID(c), uri.ID, *q.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListMine lists bookings made by the caller.
func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, h.service.ListByBooker)
}

// ListOwned lists bookings of items the caller owns.
func (h *Handler) ListOwned(c *gin.Context) {
	h.list(c, h.service.ListByOwner)
}

type listFunc func(ctx context.Context, userID, state string, page, pageSize int) ([]*booking.Booking, int, error)

func (h *Handler) list(c *gin.Context, fetch listFunc) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	bookings, total, err := fetch(c.Request.Context(), auth.GetUserID(c), req.State, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := response.MapItems(bookings, NewBookingResponse)
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}
