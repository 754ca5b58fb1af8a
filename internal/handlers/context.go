package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/anonto42/warbler/internal/middleware"
	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/views"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the id of the logged in user, 0 when anonymous
func getUserIDFromContext(c echo.Context) uint {
	if user := middleware.GetCurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

func currentUser(c echo.Context) *models.User {
	return middleware.GetCurrentUser(c)
}

func flash(c echo.Context, message, category string) {
	if sess := middleware.GetSession(c); sess != nil {
		sess.AddFlash(message, category)
	}
}

// render executes a page with the current user and the pending flashes
func render(c echo.Context, status int, name, title string, data interface{}, errs ...string) error {
	page := views.Page{
		Title:       title,
		CurrentUser: currentUser(c),
		Errors:      errs,
		Data:        data,
	}
	if sess := middleware.GetSession(c); sess != nil {
		page.Flashes = sess.Flashes()
	}
	return c.Render(status, name, page)
}

func redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusFound, path)
}

func userPath(id uint) string {
	return "/users/" + strconv.FormatUint(uint64(id), 10)
}

// paramID parses a numeric path parameter. Anything else is a missing page.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Page not found")
	}
	return uint(id), nil
}

// backPath is the local page the request came from, or "/"
func backPath(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request().Host) {
		return "/"
	}
	return ref.RequestURI()
}
