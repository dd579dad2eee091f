package middleware

import (
	"Dreamscape/internal/pkg/response"
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// InternalTokenMiddleware 仅允许携带内部令牌的登录网关调用
func InternalTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Internal-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Fail(c, response.Unauthorized, "内部令牌无效")
			c.Abort()
			return
		}
		c.Next()
	}
}
