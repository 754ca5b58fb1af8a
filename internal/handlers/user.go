package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/warbler/internal/middleware"
	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/services"
	"github.com/anonto42/warbler/internal/session"
	"github.com/anonto42/warbler/internal/validators"
	"github.com/anonto42/warbler/internal/views"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users    *services.UserService
	messages *services.MessageService
	likes    *services.LikeService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, messages *services.MessageService, likes *services.LikeService) *UserHandler {
	return &UserHandler{users: users, messages: messages, likes: likes}
}

// RegisterPublicRoutes registers the user pages open to anonymous visitors
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.ShowUser)
}

// RegisterProfileRoutes registers the user pages that need a login
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.GET("/users/:id/following", h.ShowFollowing, m...)
	g.GET("/users/:id/followers", h.ShowFollowers, m...)
	g.GET("/users/:id/likes", h.ShowLikes, m...)
	g.GET("/users/profile", h.EditProfileForm, m...)
	g.POST("/users/profile", h.UpdateProfile, m...)
	g.POST("/users/delete", h.DeleteUser, m...)
}

type usersData struct {
	Users []models.User
	Query string
}

type profileData struct {
	Profile     *services.Profile
	Messages    []models.Message
	Likes       map[uint]bool
	Users       []models.User
	IsFollowing bool
	FollowsYou  bool
}

// ListUsers lists every user, or those matching ?q=
func (h *UserHandler) ListUsers(c echo.Context) error {
	q := c.QueryParam("q")
	users, err := h.users.ListUsers(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.UsersIndexPage, "Users", usersData{Users: users, Query: q})
}

func (h *UserHandler) profile(c echo.Context) (*services.Profile, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	profile, err := h.users.Profile(c.Request().Context(), id)
	if errors.Is(err, services.ErrUserNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return profile, err
}

func (h *UserHandler) likedIDs(c echo.Context) (map[uint]bool, error) {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return map[uint]bool{}, nil
	}
	return h.likes.LikedIDs(c.Request().Context(), currentUserID)
}

// ShowUser shows a profile and the user's messages
func (h *UserHandler) ShowUser(c echo.Context) error {
	profile, err := h.profile(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	data := profileData{Profile: profile}

	if data.Messages, err = h.messages.ListByUser(ctx, profile.User.ID); err != nil {
		return err
	}
	if data.Likes, err = h.likedIDs(c); err != nil {
		return err
	}
	if currentUserID := getUserIDFromContext(c); currentUserID != 0 && currentUserID != profile.User.ID {
		if data.IsFollowing, err = h.users.IsFollowing(ctx, currentUserID, profile.User.ID); err != nil {
			return err
		}
		if data.FollowsYou, err = h.users.IsFollowedBy(ctx, currentUserID, profile.User.ID); err != nil {
			return err
		}
	}
	return render(c, http.StatusOK, views.UsersShowPage, "@"+profile.User.Username, data)
}

// ShowFollowing lists the users a user follows
func (h *UserHandler) ShowFollowing(c echo.Context) error {
	profile, err := h.profile(c)
	if err != nil {
		return err
	}
	users, err := h.users.Following(c.Request().Context(), profile.User.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.UsersFollowingPage, "Following", profileData{Profile: profile, Users: users})
}

// ShowFollowers lists the followers of a user
func (h *UserHandler) ShowFollowers(c echo.Context) error {
	profile, err := h.profile(c)
	if err != nil {
		return err
	}
	users, err := h.users.Followers(c.Request().Context(), profile.User.ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.UsersFollowersPage, "Followers", profileData{Profile: profile, Users: users})
}

// ShowLikes lists the messages a user liked
func (h *UserHandler) ShowLikes(c echo.Context) error {
	profile, err := h.profile(c)
	if err != nil {
		return err
	}
	data := profileData{Profile: profile}
	if data.Messages, err = h.likes.LikedMessages(c.Request().Context(), profile.User.ID); err != nil {
		return err
	}
	if data.Likes, err = h.likedIDs(c); err != nil {
		return err
	}
	return render(c, http.StatusOK, views.UsersLikesPage, "Likes", data)
}

func (h *UserHandler) EditProfileForm(c echo.Context) error {
	user := currentUser(c)
	return render(c, http.StatusOK, views.UsersEditPage, "Edit profile", models.UpdateUserRequest{
		Username:       user.Username,
		Email:          user.Email,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
		Bio:            user.Bio,
		Location:       user.Location,
	})
}

// UpdateProfile saves the profile form. The current password must be given.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	form := req
	form.Password = ""

	if err := c.Validate(&req); err != nil {
		return render(c, http.StatusOK, views.UsersEditPage, "Edit profile", form, validators.Messages(err)...)
	}

	currentUserID := getUserIDFromContext(c)
	_, err := h.users.UpdateProfile(c.Request().Context(), currentUserID, services.ProfileParams{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Password:       req.Password,
	})
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		flash(c, "Invalid password, please try again.", "danger")
		return redirect(c, "/")
	case errors.Is(err, services.ErrUserExist):
		return render(c, http.StatusOK, views.UsersEditPage, "Edit profile", form, "Username or email already taken.")
	case errors.Is(err, services.ErrInvalidEmail):
		return render(c, http.StatusOK, views.UsersEditPage, "Edit profile", form, "Invalid email address.")
	case errors.Is(err, services.ErrUsernameInvalid):
		return render(c, http.StatusOK, views.UsersEditPage, "Edit profile", form, "Username must not be blank.")
	case err != nil:
		return err
	}

	flash(c, "Profile updated.", "success")
	return redirect(c, userPath(currentUserID))
}

// DeleteUser deletes the logged in user and everything they own
func (h *UserHandler) DeleteUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if err := h.users.DeleteUser(c.Request().Context(), currentUserID); err != nil {
		return err
	}

	session.Logout(middleware.GetSession(c))
	flash(c, "Your account has been deleted.", "success")
	log.WithField("user_id", currentUserID).Info("user deleted")
	return redirect(c, "/signup")
}
