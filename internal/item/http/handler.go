package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-backend/internal/auth"
	"github.com/nekogravitycat/rental-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/rental-backend/internal/booking/http"
	"github.com/nekogravitycat/rental-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/rental-backend/internal/comment/http"
	"github.com/nekogravitycat/rental-backend/internal/item"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-backend/internal/pkg/response"
)

// BookingSummary supplies the last and next approved bookings of items.
type BookingSummary interface {
	LastNext(ctx context.Context, itemID string) (booking.LastNext, error)
	LastNextForItems(ctx context.Context, itemIDs []string) (map[string]booking.LastNext, error)
}

type CommentLister interface {
	ListByItem(ctx context.Context, itemID string) ([]*comment.Comment, error)
}

type Handler struct {
	items    item.Service
	bookings BookingSummary
	comments CommentLister
}

func NewHandler(items item.Service, bookings BookingSummary, comments CommentLister) *Handler {
	return &Handler{
		items:    items,
		bookings: bookings,
		comments: comments,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.items.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Name:        body.Name,
		Description: body.Description,
		Available:   body.IsAvailable(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.items.Update(c.Request.Context(), auth.GetUserID(c), uri.ID, item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

// Get returns an item with its comments. The owner additionally sees the
// last and next approved bookings.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	it, err := h.items.GetByID(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := NewItemResponse(it)

	if it.OwnerID == auth.GetUserID(c) {
		ln, err := h.bookings.LastNext(ctx, it.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		resp.LastBooking = bookingHttp.NewBookingBrief(ln.Last)
		resp.NextBooking = bookingHttp.NewBookingBrief(ln.Next)
	}

	comments, err := h.comments.ListByItem(ctx, it.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp.Comments = response.MapItems(comments, commentHttp.NewCommentResponse)

	c.JSON(http.StatusOK, resp)
}

// ListMine lists the caller's own items, each with its last/next booking.
func (h *Handler) ListMine(c *gin.Context) {
	var req request.ListParams
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	ctx := c.Request.Context()
	items, total, err := h.items.ListByOwner(ctx, auth.GetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	summaries, err := h.bookings.LastNextForItems(ctx, ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
		ln := summaries[it.ID]
		out[i].LastBooking = bookingHttp.NewBookingBrief(ln.Last)
		out[i].NextBooking = bookingHttp.NewBookingBrief(ln.Next)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(out, req.Page, req.PageSize, total))
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.items.Search(c.Request.Context(), req.Text, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(response.MapItems(items, NewItemResponse), req.Page, req.PageSize, total))
}
