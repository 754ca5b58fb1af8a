package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/warbler/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	users *services.UserService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(users *services.UserService) *FollowHandler {
	return &FollowHandler{users: users}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/users/follow/:id", h.FollowUser, m...)
	g.POST("/users/stop-following/:id", h.UnfollowUser, m...)
}

// FollowUser follows a user and shows the updated following page
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	err = h.users.Follow(c.Request().Context(), currentUserID, targetID)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrFollowSelf), errors.Is(err, services.ErrAlreadyFollowing):
		flash(c, capitalize(err.Error())+".", "warning")
	case err != nil:
		return err
	}
	return redirect(c, userPath(currentUserID)+"/following")
}

// UnfollowUser stops following a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	err = h.users.Unfollow(c.Request().Context(), currentUserID, targetID)
	if errors.Is(err, services.ErrNotFollowing) {
		flash(c, "You are not following this user.", "warning")
	} else if err != nil {
		return err
	}
	return redirect(c, userPath(currentUserID)+"/following")
}
