package dto

// LoginDTO 登录网关回调时上报的外部身份
type LoginDTO struct {
	OpenID      string  `json:"open_id" binding:"required" validate:"required,max=64"`
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Email       *string `json:"email" validate:"omitempty,max=320"`
	LoginMethod *string `json:"login_method" validate:"omitempty,max=64"`
}

type UserDTO struct {
	ID           uint64  `json:"id"`
	OpenID       string  `json:"open_id"`
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	LoginMethod  *string `json:"login_method"`
	Role         string  `json:"role"`
	CreatedAt    string  `json:"created_at"`
	LastSignedIn string  `json:"last_signed_in"`
}

// AuthorDTO 列表中展示的作者信息
type AuthorDTO struct {
	ID   uint64  `json:"id"`
	Name *string `json:"name"`
}

type LoginResultDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}
