package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"unicode"

	"github.com/anonto42/warbler/internal/services"
	"github.com/anonto42/warbler/internal/views"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ErrorHandler renders the 404 page for missing resources and a generic
// error page for everything else. Internal errors are logged, never shown.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < http.StatusInternalServerError {
			message = fmt.Sprint(he.Message)
		}
	} else {
		code = services.StatusFor(err)
		if code < http.StatusInternalServerError {
			message = capitalize(err.Error()) + "."
		}
	}
	if code >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	page, title := views.ErrorPage, "Error"
	if code == http.StatusNotFound {
		page, title = views.NotFoundPage, "Not found"
	}
	if rerr := render(c, code, page, title, message); rerr != nil {
		log.WithError(rerr).Error("failed to render error page")
		_ = c.String(code, http.StatusText(code))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + string(r[1:])
}
