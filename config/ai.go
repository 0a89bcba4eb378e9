package config

import (
	"tagmind/pkg/config"
)

func init() {
	config.Add("ai", func() map[string]interface{} {
		return map[string]interface{}{
			// 文本分析驱动，可选 mock, remote
			"driver": config.Env("AI_DRIVER", "mock"),

			// 多个实例用逗号分隔，与 api_keys 一一对应
			"urls":     config.Env("AI_API_URLS", ""),
			"api_keys": config.Env("AI_API_KEYS", ""),

			"timeout":     config.Env("AI_TIMEOUT", 30),
			"max_retries": config.Env("AI_MAX_RETRIES", 3),
		}
	})
}
