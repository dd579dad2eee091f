package model

import (
	"time"
)

// Dream 梦境记录，计数字段均为冗余值，与子表行数在同一事务内维护
type Dream struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"not null;index:idx_dreams_user_id" json:"userId"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	DreamDate      time.Time `gorm:"not null" json:"dreamDate"`
	ImageURL       *string   `gorm:"type:text" json:"imageUrl"`
	ImageKey       *string   `gorm:"type:text" json:"imageKey"`
	LikesCount     int       `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount  int       `gorm:"not null;default:0" json:"commentsCount"`
	FavoritesCount int       `gorm:"not null;default:0" json:"favoritesCount"`
	AverageRating  int       `gorm:"not null;default:0" json:"averageRating"` // 评分均值 x10
	RatingCount    int       `gorm:"not null;default:0" json:"ratingCount"`
	CreatedAt      time.Time `gorm:"index:idx_dreams_created_at" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// 关联关系
	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (Dream) TableName() string {
	return "dreams"
}
