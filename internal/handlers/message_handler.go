package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/warbler/internal/middleware"
	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/monitoring"
	"github.com/anonto42/warbler/internal/services"
	"github.com/anonto42/warbler/internal/validators"
	"github.com/anonto42/warbler/internal/views"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles HTTP requests related to messages
type MessageHandler struct {
	messages *services.MessageService
	likes    *services.LikeService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messages *services.MessageService, likes *services.LikeService) *MessageHandler {
	return &MessageHandler{messages: messages, likes: likes}
}

// RegisterPublicRoutes registers the message pages open to anonymous visitors
func (h *MessageHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/messages/:id", h.ShowMessage)
}

// RegisterMessageRoutes registers the message routes that need a login
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.GET("/messages/new", h.NewMessageForm, m...)
	g.POST("/messages/new", h.CreateMessage, m...)
	g.GET("/messages/:id/delete", h.DeleteMessage, m...)
	g.POST("/messages/:id/delete", h.DeleteMessage, m...)
}

type messageData struct {
	Message *models.Message
	Liked   bool
}

func (h *MessageHandler) NewMessageForm(c echo.Context) error {
	return render(c, http.StatusOK, views.MessagesNewPage, "New message", models.CreateMessageRequest{})
}

// CreateMessage posts a message and shows the author's profile
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	var req models.CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return render(c, http.StatusOK, views.MessagesNewPage, "New message", req, validators.Messages(err)...)
	}

	currentUserID := getUserIDFromContext(c)
	_, err := h.messages.Create(c.Request().Context(), currentUserID, req.Text)
	if errors.Is(err, services.ErrMessageInvalid) {
		return render(c, http.StatusOK, views.MessagesNewPage, "New message", req, "Message must be between 1 and 140 characters.")
	}
	if err != nil {
		return err
	}

	monitoring.MessagesPosted.Inc()
	return redirect(c, userPath(currentUserID))
}

// ShowMessage shows a single message
func (h *MessageHandler) ShowMessage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	message, err := h.messages.Get(ctx, id)
	if errors.Is(err, services.ErrMessageNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}
	if err != nil {
		return err
	}

	data := messageData{Message: message}
	if currentUserID := getUserIDFromContext(c); currentUserID != 0 {
		liked, err := h.likes.LikedIDs(ctx, currentUserID)
		if err != nil {
			return err
		}
		data.Liked = liked[message.ID]
	}
	return render(c, http.StatusOK, views.MessagesShowPage, "Message", data)
}

// DeleteMessage deletes a message owned by the logged in user. Anyone else
// is sent home and nothing is deleted.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	currentUserID := getUserIDFromContext(c)
	err = h.messages.Delete(c.Request().Context(), currentUserID, id)
	switch {
	case errors.Is(err, services.ErrMessageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	case errors.Is(err, services.ErrUnauthorized):
		monitoring.UnauthorizedRequests.Inc()
		flash(c, middleware.UnauthorizedMessage, "danger")
		return redirect(c, "/")
	case err != nil:
		return err
	}
	return redirect(c, userPath(currentUserID))
}
