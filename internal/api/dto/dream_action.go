package dto

// ToggleResultDTO 点赞/收藏切换结果
type ToggleResultDTO struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// ActionStateDTO 当前用户对梦境的操作状态
type ActionStateDTO struct {
	Active bool `json:"active"`
}

type CommentCreateDTO struct {
	DreamID uint64 `json:"-"`
	Content string `json:"content" binding:"required" validate:"required,max=2000"`
}

type CommentDTO struct {
	ID        uint64     `json:"id"`
	DreamID   uint64     `json:"dream_id"`
	UserID    uint64     `json:"user_id"`
	Content   string     `json:"content"`
	CreatedAt string     `json:"created_at"`
	Author    *AuthorDTO `json:"author"`
}

type CommentCreatedDTO struct {
	CommentID     uint64 `json:"comment_id"`
	CommentsCount int    `json:"comments_count"`
}

type CommentDeletedDTO struct {
	CommentsCount int `json:"comments_count"`
}
