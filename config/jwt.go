package config

import "tagmind/pkg/config"

func init() {
	config.Add("jwt", func() map[string]interface{} {
		return map[string]interface{}{

			// 签名密钥，留空时使用 app.key
			"secret": config.Env("JWT_SECRET", ""),

			// access token 过期时间，单位是分钟
			"expire_time": config.Env("JWT_EXPIRE_TIME", 30),

			// refresh token 过期时间，单位是天
			"refresh_expire_days": config.Env("JWT_REFRESH_EXPIRE_DAYS", 7),
		}
	})
}
