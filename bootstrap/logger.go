package bootstrap

import (
	"tagmind/pkg/app"
	"tagmind/pkg/config"
	"tagmind/pkg/logger"
)

// SetupLogger 初始化 Logger，配置项说明见 config/log.go
// 本地环境额外输出到终端
func SetupLogger() {
	logger.InitLogger(logger.Options{
		Filename:  config.GetString("log.filename"),
		MaxSize:   config.GetInt("log.max_size"),
		MaxBackup: config.GetInt("log.max_backup"),
		MaxAge:    config.GetInt("log.max_age"),
		Compress:  config.GetBool("log.compress"),
		Type:      config.GetString("log.type"),
		Level:     config.GetString("log.level"),
		Local:     app.IsLocal(),
	})
}
