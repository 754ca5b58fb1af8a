package middleware

import (
	"errors"
	"net/http"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/monitoring"
	"github.com/anonto42/warbler/internal/repositories"
	"github.com/anonto42/warbler/internal/session"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UnauthorizedMessage is flashed when an anonymous visitor hits a protected route
const UnauthorizedMessage = "Access unauthorized."

// CurrentUser resolves the user id held by the session. A user that no
// longer exists is dropped from the session and the request is anonymous.
func CurrentUser(users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := GetSession(c)
			if sess == nil {
				return next(c)
			}
			id, ok := session.UserID(sess)
			if !ok {
				return next(c)
			}

			user, err := users.GetUserByID(c.Request().Context(), id)
			switch {
			case err == nil:
				c.Set(CurrentUserContextKey, user)
			case errors.Is(err, gorm.ErrRecordNotFound):
				sess.Delete(session.CurrUserKey)
			default:
				return err
			}
			return next(c)
		}
	}
}

// GetCurrentUser returns the logged in user, or nil for an anonymous request
func GetCurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(CurrentUserContextKey).(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to the home page with a flash
// before the handler runs.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetCurrentUser(c) != nil {
				return next(c)
			}
			monitoring.UnauthorizedRequests.Inc()
			if sess := GetSession(c); sess != nil {
				sess.AddFlash(UnauthorizedMessage, "danger")
			}
			return c.Redirect(http.StatusFound, "/")
		}
	}
}
