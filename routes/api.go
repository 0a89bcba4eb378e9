// Package routes 注册路由
package routes

import (
	"tagmind/app/http/controllers/api/v1/analytics"
	"tagmind/app/http/controllers/api/v1/auth"
	"tagmind/app/http/controllers/api/v1/diary"
	"tagmind/app/http/controllers/api/v1/payment"
	"tagmind/app/http/controllers/api/v1/system"
	"tagmind/app/http/controllers/api/v1/tag"
	"tagmind/app/http/controllers/api/v1/tagpack"
	"tagmind/app/http/controllers/api/v1/user"
	"tagmind/app/http/middlewares"
	"tagmind/pkg/ai"
	"tagmind/pkg/config"
	paymentpkg "tagmind/pkg/payment"
	"tagmind/pkg/queue"
	"tagmind/pkg/storage"

	"github.com/gin-gonic/gin"
)

// 路由限流配置
const (
	// 🔐 注册登录：每小时每IP 60 请求
	AuthLimit = "60-H"
	// 📝 创建日记：每小时每IP 600 请求
	CreateDiaryLimit = "600-H"
	// 💳 下单购买：每小时每IP 30 请求
	PurchaseLimit = "30-H"
	// 🔍 搜索：每分钟每IP 120 请求
	SearchLimit = "120-M"
)

// Dependencies 控制器依赖的服务
type Dependencies struct {
	Queue    queue.Queue
	Uploader storage.Uploader
	Analyzer ai.Analyzer
	Checkout *paymentpkg.Checkout
}

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, deps Dependencies) {
	hc := system.NewHealthController(deps.Queue, deps.Analyzer)
	r.GET("/", hc.Welcome)
	r.GET("/healthz", hc.Health)

	v1 := r.Group("/v1")

	v1.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(config.GetString("app.api_rate_limit", "30000-H")),
	)

	// 🔐 注册与令牌
	authGroup := v1.Group("/auth", middlewares.LimitPerRoute(AuthLimit))
	{
		ac := auth.NewAuthController()
		authGroup.POST("/signup", ac.Signup)
		authGroup.POST("/token", ac.IssueToken)
		authGroup.POST("/refresh", ac.RefreshToken)
	}

	// 以下路由都需要登录
	authed := v1.Group("", middlewares.AuthJWT())

	// 👤 当前用户
	{
		uc := user.NewUsersController()
		authed.GET("/users/me", uc.CurrentUser)
		authed.PATCH("/users/me", uc.UpdateProfile)
	}

	// 📔 日记
	diariesGroup := authed.Group("/diaries")
	{
		dc := diary.NewDiariesController(deps.Queue, deps.Uploader)
		diariesGroup.GET("", dc.Index)
		diariesGroup.POST("", middlewares.LimitPerRoute(CreateDiaryLimit), dc.Store)
		diariesGroup.GET("/:id", dc.Show)
		diariesGroup.PUT("/:id", dc.Update)
		diariesGroup.DELETE("/:id", dc.Delete)

		// 🏷️ 日记标签
		dtc := diary.NewDiaryTagsController()
		diariesGroup.PUT("/:id/tags", dtc.Replace)
		diariesGroup.POST("/:id/tags", dtc.Attach)
		diariesGroup.DELETE("/:id/tags/:tag_id", dtc.Detach)
		diariesGroup.POST("/:id/tags/:tag_id/feedback", dtc.Feedback)
	}

	// 🏷️ 标签
	{
		tc := tag.NewTagsController()
		authed.GET("/tags", tc.Index)
		authed.POST("/tags", tc.Store)
	}

	// 🎁 标签包
	packsGroup := authed.Group("/tag-packs")
	{
		tpc := tagpack.NewTagPacksController(deps.Checkout)
		packsGroup.GET("", tpc.Index)
		packsGroup.GET("/mine", tpc.Mine)
		packsGroup.POST("/purchase", middlewares.LimitPerRoute(PurchaseLimit), tpc.Purchase)
		packsGroup.POST("/:product_id/checkout", middlewares.LimitPerRoute(PurchaseLimit), tpc.Checkout)
	}

	// 💳 订单
	{
		pc := payment.NewPaymentController(deps.Checkout)
		authed.GET("/payments/:order_no", pc.Show)
	}

	// 🔍 搜索
	{
		sc := diary.NewSearchController()
		authed.GET("/search", middlewares.LimitPerRoute(SearchLimit), sc.Index)
	}

	// 📊 统计
	analyticsGroup := authed.Group("/analytics")
	{
		anc := analytics.NewAnalyticsController()
		analyticsGroup.GET("/mood", anc.Mood)
		analyticsGroup.GET("/tags", anc.Tags)
	}
}
