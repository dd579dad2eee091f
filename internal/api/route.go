package api

import (
	"Dreamscape/internal/api/middleware"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/logger"
	"Dreamscape/internal/pkg/metrics"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, opts *RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	r.Use(middleware.MetricsMiddleware())
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := middleware.AuthMiddleware(opts.Blacklist)
	authOpt := middleware.AuthOptionalMiddleware()
	aiLimiter := middleware.NewRateLimiter(opts.AIRateLimit).Middleware()

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", middleware.InternalTokenMiddleware(opts.InternalToken), group.UserHandler.Login)
			authGroup.GET("/me", auth, group.UserHandler.Me)
			authGroup.POST("/logout", auth, group.UserHandler.Logout)
		}

		dreamGroup := apiGroup.Group("/dreams")
		{
			// 无需登录即可访问的接口，登录后额外返回点赞/收藏状态
			optGroup := dreamGroup.Group("")
			optGroup.Use(authOpt)
			{
				optGroup.GET("", group.DreamHandler.ListDreams)
				optGroup.GET("/search", group.DreamHandler.SearchDreams)
				optGroup.GET("/leaderboard", group.RatingHandler.Leaderboard)
				optGroup.GET("/:dream_id", group.DreamHandler.GetDream)
				optGroup.GET("/:dream_id/comments", group.DreamActionHandler.GetComments)
				optGroup.GET("/:dream_id/analysis", group.AnalysisHandler.GetAnalysis)
			}

			userGroup := dreamGroup.Group("")
			userGroup.Use(auth)
			{
				userGroup.POST("", group.DreamHandler.CreateDream)
				userGroup.GET("/mine", group.DreamHandler.ListMyDreams)
				userGroup.GET("/favorites", group.DreamActionHandler.GetFavoriteDreams)
				userGroup.PUT("/:dream_id", group.DreamHandler.UpdateDream)
				userGroup.DELETE("/:dream_id", group.DreamHandler.DeleteDream)

				userGroup.POST("/:dream_id/like", group.DreamActionHandler.ToggleLike)
				userGroup.GET("/:dream_id/like", group.DreamActionHandler.IsLiked)
				userGroup.POST("/:dream_id/favorite", group.DreamActionHandler.ToggleFavorite)
				userGroup.GET("/:dream_id/favorite", group.DreamActionHandler.IsFavorited)
				userGroup.POST("/:dream_id/comments", group.DreamActionHandler.CreateComment)
				userGroup.POST("/:dream_id/rating", group.RatingHandler.RateDream)
				userGroup.GET("/:dream_id/rating", group.RatingHandler.GetUserRating)

				userGroup.POST("/:dream_id/analysis", aiLimiter, group.AnalysisHandler.GenerateAnalysis)
				userGroup.POST("/:dream_id/image", aiLimiter, group.AnalysisHandler.GenerateDreamImage)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		commentGroup.Use(auth)
		{
			commentGroup.DELETE("/:comment_id", group.DreamActionHandler.DeleteComment)
		}

		aiGroup := apiGroup.Group("/ai")
		aiGroup.Use(auth, aiLimiter)
		{
			aiGroup.POST("/image", group.AnalysisHandler.GenerateImage)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(auth)
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(auth, middleware.CheckRoles(model.RoleAdmin))
		{
			adminGroup.POST("/dreams/:dream_id/reconcile", group.DreamHandler.ReconcileDream)
		}

		sysbox := apiGroup.Group("/notifications")
		sysbox.Use(auth)
		{
			sysbox.GET("", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read-all", group.SysBoxHandler.MarkAllRead)
			sysbox.POST("/:id/read", group.SysBoxHandler.MarkRead)
		}
	}

	return r
}
