package handler

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/response"
	"Dreamscape/internal/service"

	"github.com/gin-gonic/gin"
)

type DreamActionHandler struct {
	actionSvc service.DreamActionService
}

func NewDreamActionHandler(actionSvc service.DreamActionService) *DreamActionHandler {
	return &DreamActionHandler{
		actionSvc: actionSvc,
	}
}

// ToggleLike 点赞/取消点赞，每次调用切换一次状态
func (s *DreamActionHandler) ToggleLike(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	result, err := s.actionSvc.ToggleLike(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *DreamActionHandler) IsLiked(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	liked, err := s.actionSvc.IsLiked(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ActionStateDTO{Active: liked})
}

// ToggleFavorite 收藏/取消收藏
func (s *DreamActionHandler) ToggleFavorite(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	result, err := s.actionSvc.ToggleFavorite(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *DreamActionHandler) IsFavorited(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	favorited, err := s.actionSvc.IsFavorited(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ActionStateDTO{Active: favorited})
}

func (s *DreamActionHandler) GetFavoriteDreams(c *gin.Context) {
	var page dto.PageDTO
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.actionSvc.GetFavoriteDreams(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *DreamActionHandler) CreateComment(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	req.DreamID = dreamID
	result, err := s.actionSvc.CreateComment(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *DreamActionHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}
	result, err := s.actionSvc.DeleteComment(c.Request.Context(), currentUserID(c), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *DreamActionHandler) GetComments(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	var page dto.PageDTO
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.actionSvc.GetComments(c.Request.Context(), dreamID, &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
