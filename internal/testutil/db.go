// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/pkg/config"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory SQLite database with the schema migrated.
// The pool is pinned to one connection, since every connection to
// ":memory:" would otherwise see its own empty database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(config.Dialector("file::memory:"), config.GormConfig(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with a placeholder password digest
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-digest",
		ImageURL: models.DefaultImageURL,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
