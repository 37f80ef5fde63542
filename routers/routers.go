package routers

import (
	"net/http"
	"net/http/pprof"
	"time"

	"unihub/controller"
	"unihub/logger"
	"unihub/middlewares"
	"unihub/settings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由，mode 取 debug/release/test
func SetupRouter(mode string) *gin.Engine {
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 限流配置解析失败时退到 10ms/200（约 100 QPS、突发 200）
	fillInterval := 10 * time.Millisecond
	capacity := int64(200)
	if settings.Conf.RateLimit != nil {
		if d, err := time.ParseDuration(settings.Conf.RateLimit.FillInterval); err == nil {
			fillInterval = d
		}
		if settings.Conf.RateLimit.Capacity > 0 {
			capacity = settings.Conf.RateLimit.Capacity
		}
	}

	r.Use(
		logger.GinLogger(),
		logger.GinRecovery(true),
		middlewares.RateLimitMiddleware(fillInterval, capacity),
		middlewares.TimeoutMiddleware(10*time.Second),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if mode != gin.ReleaseMode {
		debug := r.Group("/debug/pprof")
		debug.GET("/", gin.WrapF(pprof.Index))
		debug.GET("/profile", gin.WrapF(pprof.Profile))
		debug.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	v1 := r.Group("/api/v1")

	// 公共路由，无需登录
	{
		v1.POST("/signup", controller.SignUpHandler)
		v1.POST("/login", controller.LoginHandler)
		v1.POST("/refresh_token", controller.RefreshTokenHandler)
	}

	// 可匿名的读路由：带 Token 解析观察者身份，不带按匿名处理，
	// 可见性过滤在 logic 层按观察者收敛
	viewGroup := v1.Group("")
	viewGroup.Use(middlewares.JWTAuthOptional())
	{
		viewGroup.GET("/communities", controller.CommunityListHandler)
		viewGroup.GET("/community/:slug", controller.CommunityDetailHandler)
		viewGroup.GET("/communities/:id/members", controller.MemberListHandler)
		viewGroup.GET("/posts", controller.PostListHandler)
		viewGroup.GET("/post/:id", controller.PostDetailHandler)
		viewGroup.GET("/post/:id/comments", controller.CommentListHandler)
	}

	// 认证路由，Header 携带 Authorization: Bearer <token>
	authGroup := v1.Group("")
	authGroup.Use(middlewares.JWTAuthMiddleware())
	{
		authGroup.POST("/logout", controller.LogoutHandler)

		authGroup.POST("/communities", controller.CreateCommunityHandler)
		authGroup.PUT("/communities/:id", controller.UpdateCommunityHandler)

		authGroup.POST("/communities/:id/join", controller.JoinCommunityHandler)
		authGroup.POST("/communities/:id/leave", controller.LeaveCommunityHandler)
		authGroup.GET("/communities/:id/requests", controller.PendingListHandler)
		authGroup.POST("/communities/:id/requests", controller.HandleRequestHandler)
		authGroup.POST("/communities/:id/requests/bulk", controller.HandleRequestsBulkHandler)
		authGroup.PUT("/communities/:id/roles", controller.UpdateRoleHandler)
		authGroup.POST("/communities/:id/invite", controller.InviteHandler)

		authGroup.POST("/post", controller.CreatePostHandler)
		authGroup.POST("/post/:id/pin", controller.PinPostHandler)
		authGroup.POST("/post/:id/upvote", controller.PostUpvoteHandler)

		authGroup.POST("/comment", controller.CreateCommentHandler)
		authGroup.DELETE("/comment/:id", controller.DeleteCommentHandler)
		authGroup.POST("/comment/:id/upvote", controller.CommentUpvoteHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"msg": "404 page not found",
		})
	})

	return r
}
