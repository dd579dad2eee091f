package handler

import (
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/response"
	"Dreamscape/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID 解析路径中的数字ID，非法时直接返回参数错误
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) uint64 {
	return c.GetUint64(consts.UserIDKey)
}
