package comment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
)

var (
	ErrTextRequired      = apperror.New(http.StatusBadRequest, "comment text cannot be empty")
	ErrCommentNotAllowed = apperror.New(http.StatusBadRequest, "only users who completed a booking of this item can comment")
)

// Comment is feedback left on an item by a past booker.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
