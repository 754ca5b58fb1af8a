package handlers

import (
	"net/http"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/services"
	"github.com/anonto42/warbler/internal/views"
	"github.com/labstack/echo/v4"
)

// HomeHandler serves the landing page and the timeline
type HomeHandler struct {
	messages *services.MessageService
	likes    *services.LikeService
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(messages *services.MessageService, likes *services.LikeService) *HomeHandler {
	return &HomeHandler{messages: messages, likes: likes}
}

// RegisterHomeRoutes registers the home page
func (h *HomeHandler) RegisterHomeRoutes(g *echo.Group) {
	g.GET("/", h.Home)
}

type timelineData struct {
	Messages []models.Message
	Likes    map[uint]bool
}

// Home shows the timeline of the logged in user, or the landing page
func (h *HomeHandler) Home(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return render(c, http.StatusOK, views.HomeAnonPage, "", nil)
	}

	ctx := c.Request().Context()
	messages, err := h.messages.Timeline(ctx, currentUserID)
	if err != nil {
		return err
	}
	likes, err := h.likes.LikedIDs(ctx, currentUserID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.HomePage, "Home", timelineData{Messages: messages, Likes: likes})
}
