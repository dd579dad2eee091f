package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	OpenID       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_users_open_id" json:"openId"`
	Name         *string   `gorm:"type:text" json:"name"`
	Email        *string   `gorm:"type:varchar(320)" json:"email"`
	LoginMethod  *string   `gorm:"type:varchar(64)" json:"loginMethod"`
	Role         string    `gorm:"type:varchar(16);not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

func (User) TableName() string {
	return "users"
}
