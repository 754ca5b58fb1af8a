package middleware

import (
	"net/http"

	"github.com/anonto42/warbler/internal/session"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Keys under which the middleware stores values on the echo context
const (
	SessionContextKey     = "session"
	CurrentUserContextKey = "currentUser"
)

// LoadSession opens the session of the request and keeps it on the echo
// context. The session is saved right before the response header is written,
// unless the response is a 5xx. Register it after Transaction so the commit
// has succeeded by the time the session is saved.
func LoadSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := store.Open(c.Request())
			if err != nil {
				log.WithError(err).Error("failed to open session")
				return echo.NewHTTPError(http.StatusInternalServerError, "Session unavailable")
			}
			c.Set(SessionContextKey, sess)

			c.Response().Before(func() {
				if c.Response().Status >= http.StatusInternalServerError {
					return
				}
				if err := sess.Save(c.Request(), c.Response().Writer); err != nil {
					log.WithError(err).Error("failed to save session")
				}
			})
			return next(c)
		}
	}
}

// GetSession returns the session loaded by LoadSession
func GetSession(c echo.Context) session.Session {
	sess, _ := c.Get(SessionContextKey).(session.Session)
	return sess
}
