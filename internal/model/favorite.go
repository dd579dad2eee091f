package model

import (
	"time"
)

type Favorite struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	DreamID   uint64    `gorm:"primaryKey;index:idx_favorites_dream_id" json:"dreamId"`
	CreatedAt time.Time `gorm:"index:idx_favorites_created_at" json:"createdAt"`
}

func (Favorite) TableName() string {
	return "favorites"
}
