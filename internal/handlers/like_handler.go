package handlers

import (
	"errors"

	"github.com/anonto42/warbler/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likes *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/users/add_like/:id", h.ToggleLike, m...)
}

// ToggleLike likes or unlikes a message, then returns to the referring page
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	messageID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	_, err = h.likes.ToggleLike(c.Request().Context(), getUserIDFromContext(c), messageID)
	switch {
	case errors.Is(err, services.ErrLikeOwnMessage), errors.Is(err, services.ErrMessageNotFound):
		flash(c, capitalize(err.Error())+".", "warning")
	case err != nil:
		return err
	}
	return redirect(c, backPath(c))
}
