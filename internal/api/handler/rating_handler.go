package handler

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/response"
	"Dreamscape/internal/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingSvc service.RatingService
}

func NewRatingHandler(ratingSvc service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingSvc: ratingSvc,
	}
}

func (s *RatingHandler) RateDream(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	var req dto.RateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	req.DreamID = dreamID
	result, err := s.ratingSvc.RateDream(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *RatingHandler) GetUserRating(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	result, err := s.ratingSvc.GetUserRating(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Leaderboard ?limit=10&time_range=all|week|month
func (s *RatingHandler) Leaderboard(c *gin.Context) {
	var req dto.LeaderboardQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.ratingSvc.TopRated(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
