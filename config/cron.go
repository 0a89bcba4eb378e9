package config

import "tagmind/pkg/config"

func init() {
	config.Add("cron", func() map[string]interface{} {
		return map[string]interface{}{
			"enabled": config.Env("CRON_ENABLED", true),

			// 秒级 cron 表达式
			"expire_orders":  config.Env("CRON_EXPIRE_ORDERS", "0 */5 * * * *"),
			"report_metrics": config.Env("CRON_REPORT_METRICS", "0 */1 * * * *"),
		}
	})
}
