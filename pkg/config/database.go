package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/warbler/internal/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NowFunc is the clock GORM uses for autoCreateTime columns
func NowFunc() time.Time {
	return time.Now().UTC()
}

// GormConfig is the gorm.Config shared by the server and the tests
func GormConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(level),
		NowFunc:        NowFunc,
		TranslateError: true,
	}
}

// Dialector picks the GORM driver for a database URL. URLs starting with
// "sqlite:" or "file:" open SQLite with foreign keys enabled, anything else
// is handed to PostgreSQL.
func Dialector(url string) gorm.Dialector {
	switch {
	case strings.HasPrefix(url, "sqlite:"):
		return sqlite.Open(withForeignKeys(strings.TrimPrefix(url, "sqlite:")))
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(withForeignKeys(url))
	default:
		return postgres.Open(url)
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// InitDB opens the database named by cfg.DatabaseURL, tunes the pool and pings it
func InitDB(cfg *Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if !cfg.IsProduction() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(Dialector(cfg.DatabaseURL), GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	logrus.Info("Successfully connected to the database!")
	return db, nil
}

// CloseDB closes the database connection pool
func CloseDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting SQL DB from GORM")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
		return
	}
	logrus.Info("Database connection closed.")
}
