package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/items/:id/comments")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
	}
}
