package bootstrap

import (
	"net/http"
	"strings"

	"tagmind/app/http/middlewares"
	"tagmind/routes"

	"github.com/gin-gonic/gin"
)

// SetupRoute 路由初始化
// 1. 注册全局中间件
// 2. 注册 API 路由与上传文件目录
// 3. 配置 404 处理器
func SetupRoute(router *gin.Engine, deps routes.Dependencies, uploadDir string) {
	// 注册全局中间件
	registerGlobalMiddleWare(router)

	// 本地存储的图片
	if uploadDir != "" {
		router.Static("/uploads", uploadDir)
	}

	// 注册 API 路由
	routes.RegisterAPIRoutes(router, deps)

	// 配置 404 路由处理器
	setup404Handler(router)
}

// registerGlobalMiddleWare 注册全局中间件
// - Logger 中间件：记录请求日志
// - Recovery 中间件：从 panic 中恢复
// - Cors 中间件：预检请求没有对应路由，需要在全局处理
func registerGlobalMiddleWare(router *gin.Engine) {
	router.Use(
		middlewares.Logger(),   // 记录请求日志
		middlewares.Recovery(), // 在发生 panic 时恢复
		middlewares.Cors(),     // 跨域
	)
}

// setup404Handler 配置 404 请求处理器
// 根据请求的 Accept 头来返回不同格式的 404 响应
func setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		// 获取请求头中的 Accept 信息
		acceptString := c.Request.Header.Get("Accept")

		if strings.Contains(acceptString, "text/html") {
			// 对于 HTML 请求返回简单的文本信息
			c.String(http.StatusNotFound, "页面返回 404")
		} else {
			// 默认返回 JSON 格式的错误信息
			c.JSON(http.StatusNotFound, gin.H{
				"error_code":    404,
				"error_message": "路由未定义，请确认 url 和请求方法是否正确。",
			})
		}
	})
}
