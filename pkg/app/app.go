// Package app 提供应用程序相关的辅助函数
package app

import (
	"time"

	"tagmind/pkg/config"
)

// IsLocal 判断当前是否运行在本地环境
func IsLocal() bool {
	return config.Get("app.env") == "local"
}

// IsProduction 判断当前是否运行在生产环境
func IsProduction() bool {
	return config.Get("app.env") == "production"
}

// IsTesting 判断当前是否运行在测试环境
func IsTesting() bool {
	return config.Get("app.env") == "testing"
}

// Location 返回 app.timezone 对应的时区
// 未配置或无法识别时使用 UTC
func Location() *time.Location {
	name := config.GetString("app.timezone")
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TimenowInTimezone 获取配置时区的当前时间
//
//	currentTime := app.TimenowInTimezone()
func TimenowInTimezone() time.Time {
	return time.Now().In(Location())
}

// ParseDate 按配置时区解析 YYYY-MM-DD，返回当天零点
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, Location())
}

// URL 拼接对外访问地址
func URL(path string) string {
	return config.Get("app.url") + path
}
