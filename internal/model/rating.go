package model

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_ratings_user_dream,priority:1" json:"userId"`
	DreamID   uint64    `gorm:"not null;uniqueIndex:idx_ratings_user_dream,priority:2;index:idx_ratings_dream_id" json:"dreamId"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Rating) TableName() string {
	return "ratings"
}
