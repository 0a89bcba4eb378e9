// Package config 站点配置信息
package config

import "tagmind/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称
			"name": config.Env("APP_NAME", "TagMind"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口
			"port": config.Env("APP_PORT", "8000"),

			// 对外访问地址，用于拼接上传文件的 URL
			"url": config.Env("APP_URL", "http://localhost:8000"),

			// 设置时区，日记按日期筛选时使用，留空为 UTC
			"timezone": config.Env("TIMEZONE", "UTC"),

			// 加密会话、JWT 加密
			"key": config.Env("APP_KEY", "33446a9dcf9ea060a0a6532b166da32f304af0de"),

			// 全局限流，格式见 pkg/limiter
			"api_rate_limit": config.Env("API_RATE_LIMIT", "30000-H"),
		}
	})
}
