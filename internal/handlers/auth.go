package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/warbler/internal/middleware"
	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/monitoring"
	"github.com/anonto42/warbler/internal/services"
	"github.com/anonto42/warbler/internal/session"
	"github.com/anonto42/warbler/internal/validators"
	"github.com/anonto42/warbler/internal/views"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// InvalidCredentialsMessage is shown for any failed login, whichever field was wrong
const InvalidCredentialsMessage = "Invalid credentials."

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	users *services.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/signup", h.SignupForm)
	g.POST("/signup", h.Signup)
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login)
	g.GET("/logout", h.Logout)
}

func (h *AuthHandler) SignupForm(c echo.Context) error {
	return render(c, http.StatusOK, views.SignupPage, "Sign up", models.SignupRequest{})
}

// Signup creates the account and logs it in. A rejected form is rendered
// again and the session stays as it was.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	form := req
	form.Password = ""

	if err := c.Validate(&req); err != nil {
		monitoring.SignupFailure.WithLabelValues("invalid_form").Inc()
		return render(c, http.StatusOK, views.SignupPage, "Sign up", form, validators.Messages(err)...)
	}

	user, err := h.users.Signup(c.Request().Context(), services.SignupParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	switch {
	case errors.Is(err, services.ErrUserExist):
		monitoring.SignupFailure.WithLabelValues("duplicate").Inc()
		return render(c, http.StatusOK, views.SignupPage, "Sign up", form, "Username or email already taken.")
	case errors.Is(err, services.ErrInvalidEmail):
		monitoring.SignupFailure.WithLabelValues("invalid_form").Inc()
		return render(c, http.StatusOK, views.SignupPage, "Sign up", form, "Invalid email address.")
	case errors.Is(err, services.ErrUsernameInvalid):
		monitoring.SignupFailure.WithLabelValues("invalid_form").Inc()
		return render(c, http.StatusOK, views.SignupPage, "Sign up", form, "Username must not be blank.")
	case err != nil:
		return err
	}

	session.Login(middleware.GetSession(c), user.ID)
	monitoring.SignupSuccess.Inc()
	log.WithField("user_id", user.ID).Info("user signed up")
	return redirect(c, "/")
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, views.LoginPage, "Log in", models.LoginRequest{})
}

// Login checks the credentials and greets the user on the home page
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	form := models.LoginRequest{Username: req.Username}

	if err := c.Validate(&req); err != nil {
		monitoring.LoginFailure.WithLabelValues("invalid_form").Inc()
		return render(c, http.StatusOK, views.LoginPage, "Log in", form, validators.Messages(err)...)
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	if user == nil {
		monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		return render(c, http.StatusOK, views.LoginPage, "Log in", form, InvalidCredentialsMessage)
	}

	session.Login(middleware.GetSession(c), user.ID)
	monitoring.LoginSuccess.Inc()
	flash(c, fmt.Sprintf("Hello, %s!", user.Username), "success")
	return redirect(c, "/")
}

// Logout ends the session. It does nothing for anonymous visitors.
func (h *AuthHandler) Logout(c echo.Context) error {
	if currentUser(c) == nil {
		return redirect(c, "/login")
	}
	session.Logout(middleware.GetSession(c))
	flash(c, "You have successfully logged out.", "success")
	return redirect(c, "/login")
}
