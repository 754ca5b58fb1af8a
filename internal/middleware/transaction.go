package middleware

import (
	"net/http"

	"github.com/anonto42/warbler/internal/repositories"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Transaction runs every request in one database transaction carried by the
// request context. It commits just before the response header is written,
// unless the status is 5xx, and rolls back when the handler fails or panics.
func Transaction(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			tx := db.WithContext(req.Context()).Begin()
			if tx.Error != nil {
				log.WithError(tx.Error).Error("failed to begin transaction")
				return echo.NewHTTPError(http.StatusInternalServerError, "Database unavailable")
			}

			done := false
			finish := func(commit bool) {
				if done {
					return
				}
				done = true
				if !commit {
					if err := tx.Rollback().Error; err != nil {
						log.WithError(err).Warn("rollback failed")
					}
					return
				}
				if err := tx.Commit().Error; err != nil {
					log.WithError(err).Error("commit failed")
					c.Response().Status = http.StatusInternalServerError
				}
			}
			defer func() {
				if r := recover(); r != nil {
					finish(false)
					panic(r)
				}
			}()

			c.SetRequest(req.WithContext(repositories.WithTx(req.Context(), tx)))
			c.Response().Before(func() {
				finish(c.Response().Status < http.StatusInternalServerError)
			})

			err := next(c)
			finish(err == nil)
			return err
		}
	}
}
