package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item not found")
	ErrNotOwner            = apperror.New(http.StatusForbidden, "only the owner can modify this item")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description cannot be empty")
)

// Item is something a user offers for rent.
type Item struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID       string
	Text          string // case-insensitive match on name or description
	AvailableOnly bool
	Page          int
	PageSize      int
}
