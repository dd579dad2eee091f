package model

import (
	"time"
)

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	DreamID   uint64    `gorm:"not null;index:idx_comments_dream_id" json:"dreamId"`
	UserID    uint64    `gorm:"not null;index:idx_comments_user_id" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
