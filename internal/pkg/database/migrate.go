package database

import (
	"Dreamscape/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 建表及索引
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Dream{},
		&model.Like{},
		&model.Favorite{},
		&model.Comment{},
		&model.DreamAnalysis{},
		&model.Rating{},
	)
}
