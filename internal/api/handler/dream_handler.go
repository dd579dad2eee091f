package handler

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/response"
	"Dreamscape/internal/service"

	"github.com/gin-gonic/gin"
)

type DreamHandler struct {
	dreamSvc service.DreamService
}

func NewDreamHandler(dreamSvc service.DreamService) *DreamHandler {
	return &DreamHandler{
		dreamSvc: dreamSvc,
	}
}

func (s *DreamHandler) CreateDream(c *gin.Context) {
	var req dto.DreamCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.dreamSvc.CreateDream(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *DreamHandler) GetDream(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	dream, err := s.dreamSvc.GetDream(c.Request.Context(), currentUserID(c), dreamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dream)
}

// ListDreams 梦境广场，最新的在前
func (s *DreamHandler) ListDreams(c *gin.Context) {
	var page dto.PageDTO
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.dreamSvc.ListDreams(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *DreamHandler) ListMyDreams(c *gin.Context) {
	var page dto.PageDTO
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.dreamSvc.ListMyDreams(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *DreamHandler) UpdateDream(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	var req dto.DreamUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	req.DreamID = dreamID
	if err := s.dreamSvc.UpdateDream(c.Request.Context(), currentUserID(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *DreamHandler) DeleteDream(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	if err := s.dreamSvc.DeleteDream(c.Request.Context(), currentUserID(c), dreamID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ReconcileDream 管理员接口
func (s *DreamHandler) ReconcileDream(c *gin.Context) {
	dreamID, ok := parseID(c, "dream_id")
	if !ok {
		return
	}
	if err := s.dreamSvc.ReconcileDream(c.Request.Context(), dreamID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *DreamHandler) SearchDreams(c *gin.Context) {
	var req dto.DreamSearchDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.dreamSvc.SearchDreams(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
