package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthCheck reports whether the service and its database are up
func HealthCheck(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := map[string]string{
			"status":   "healthy",
			"service":  "warbler",
			"database": "up",
		}

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			log.WithError(err).Warn("health check: database unreachable")
			status["status"] = "unhealthy"
			status["database"] = "down"
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		return c.JSON(http.StatusOK, status)
	}
}
