package api

import (
	"Dreamscape/internal/api/handler"
	"Dreamscape/internal/service"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler        *handler.UserHandler
	DreamHandler       *handler.DreamHandler
	DreamActionHandler *handler.DreamActionHandler
	RatingHandler      *handler.RatingHandler
	AnalysisHandler    *handler.AnalysisHandler
	MediaHandler       *handler.MediaHandler
	SysBoxHandler      *handler.SysBoxHandler
}

// RouterOptions 路由所需的中间件依赖
type RouterOptions struct {
	Blacklist     service.TokenBlacklist
	InternalToken string
	AIRateLimit   int
	CORSOrigins   []string
}
