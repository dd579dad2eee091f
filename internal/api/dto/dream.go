package dto

// DreamCreateDTO 创建梦境
type DreamCreateDTO struct {
	Title     string  `json:"title" binding:"required" validate:"required,max=255"`
	Content   string  `json:"content" binding:"required" validate:"required"`
	DreamDate *int64  `json:"dream_date" binding:"required" validate:"required"`
	ImageURL  *string `json:"image_url" validate:"omitempty,max=2048"`
	ImageKey  *string `json:"image_key" validate:"omitempty,max=1024"`
}

// DreamUpdateDTO 更新梦境，未传的字段保持不变
type DreamUpdateDTO struct {
	DreamID   uint64  `json:"-"`
	Title     *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content   *string `json:"content" validate:"omitempty,min=1"`
	DreamDate *int64  `json:"dream_date"`
	ImageURL  *string `json:"image_url" validate:"omitempty,max=2048"`
	ImageKey  *string `json:"image_key" validate:"omitempty,max=1024"`
}

type DreamDTO struct {
	ID             uint64     `json:"id"`
	UserID         uint64     `json:"user_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	DreamDate      int64      `json:"dream_date"`
	ImageURL       *string    `json:"image_url"`
	ImageKey       *string    `json:"image_key"`
	LikesCount     int        `json:"likes_count"`
	CommentsCount  int        `json:"comments_count"`
	FavoritesCount int        `json:"favorites_count"`
	AverageRating  int        `json:"average_rating"`
	RatingCount    int        `json:"rating_count"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
	Author         *AuthorDTO `json:"author"`
	IsLiked        bool       `json:"is_liked"`
	IsFavorited    bool       `json:"is_favorited"`
}

// DreamDetailDTO 详情页，额外带上当前用户的评分
type DreamDetailDTO struct {
	DreamDTO
	MyRating *int `json:"my_rating"`
}

type DreamCreatedDTO struct {
	DreamID uint64 `json:"dream_id"`
}

// DreamSearchDTO 搜索参数
type DreamSearchDTO struct {
	Keyword string `form:"keyword" validate:"required,max=100"`
	PageDTO
}
