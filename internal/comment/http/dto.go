package http

import (
	"time"

	"github.com/nekogravitycat/rental-backend/internal/comment"
	userHttp "github.com/nekogravitycat/rental-backend/internal/user/http"
)

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type CommentResponse struct {
	ID        string           `json:"id"`
	ItemID    string           `json:"item_id"`
	Author    userHttp.UserTag `json:"author"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewCommentResponse(cm *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		ItemID:    cm.ItemID,
		Author:    userHttp.UserTag{ID: cm.AuthorID, Name: cm.AuthorName},
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
	}
}
