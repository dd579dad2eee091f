package dto

type RateDTO struct {
	DreamID uint64 `json:"-"`
	Rating  int    `json:"rating" binding:"required" validate:"required,min=1,max=5"`
}

// RatingStatsDTO 评分后的聚合结果，AverageRating 为均值 x10
type RatingStatsDTO struct {
	AverageRating int `json:"average_rating"`
	RatingCount   int `json:"rating_count"`
}

type UserRatingDTO struct {
	Rating *int `json:"rating"`
}

// LeaderboardQueryDTO 排行榜参数
type LeaderboardQueryDTO struct {
	Limit     int    `form:"limit" validate:"min=1,max=100"`
	TimeRange string `form:"time_range" validate:"oneof=all week month"`
}
