package handler

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/response"
	"Dreamscape/internal/service"

	"github.com/gin-gonic/gin"
)

type SysBoxHandler struct {
	sysBoxService service.SysBoxService
}

func NewSysBoxHandler(sysBoxService service.SysBoxService) *SysBoxHandler {
	return &SysBoxHandler{
		sysBoxService: sysBoxService,
	}
}

func (s *SysBoxHandler) GetNotificationList(c *gin.Context) {
	var page dto.PageDTO
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.sysBoxService.GetNotifications(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *SysBoxHandler) GetUnreadCount(c *gin.Context) {
	result, err := s.sysBoxService.GetUnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *SysBoxHandler) MarkRead(c *gin.Context) {
	msgID := c.Param("id")
	if msgID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.sysBoxService.MarkAsRead(c.Request.Context(), currentUserID(c), msgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *SysBoxHandler) MarkAllRead(c *gin.Context) {
	if err := s.sysBoxService.MarkAllAsRead(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
