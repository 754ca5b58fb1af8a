package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables for every Warbler model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Message{},
		&Follow{},
		&Like{},
	)
}
