package config

import "tagmind/pkg/config"

func init() {
	config.Add("payment", func() map[string]interface{} {
		return map[string]interface{}{
			// 默认支付渠道，可选 mock, alipay, wechat
			"provider": config.Env("PAYMENT_PROVIDER", "mock"),

			// 待支付订单的有效期，单位分钟
			"order_expire_minutes": config.Env("PAYMENT_ORDER_EXPIRE_MINUTES", 30),

			"wechat": map[string]interface{}{
				"app_id":      config.Env("WECHAT_APP_ID", ""),
				"mch_id":      config.Env("WECHAT_MCH_ID", ""),
				"serial_no":   config.Env("WECHAT_SERIAL_NO", ""),
				"private_key": config.Env("WECHAT_PRIVATE_KEY", ""),
				"api_v3_key":  config.Env("WECHAT_API_V3_KEY", ""),
				"notify_url":  config.Env("WECHAT_NOTIFY_URL", ""),
			},

			"alipay": map[string]interface{}{
				"app_id":        config.Env("ALIPAY_APP_ID", ""),
				"private_key":   config.Env("ALIPAY_PRIVATE_KEY", ""),
				"public_key":    config.Env("ALIPAY_PUBLIC_KEY", ""),
				"notify_url":    config.Env("ALIPAY_NOTIFY_URL", ""),
				"return_url":    config.Env("ALIPAY_RETURN_URL", ""),
				"is_production": config.Env("ALIPAY_IS_PRODUCTION", false),
			},
		}
	})
}
