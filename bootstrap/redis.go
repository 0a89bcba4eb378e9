package bootstrap

import (
	"fmt"

	"tagmind/pkg/config"
	"tagmind/pkg/logger"
	"tagmind/pkg/redis"
)

// SetupRedis 初始化 Redis，关闭或连接失败时限流与队列退回进程内实现
func SetupRedis() {
	if !config.GetBool("redis.enabled") {
		logger.InfoString("Redis", "Setup", "Redis 未启用")
		return
	}

	err := redis.InitRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
		config.GetInt("redis.queue_database"),
	)
	if err != nil {
		logger.ErrorString("Redis", "Setup", err.Error())
		return
	}
	logger.InfoString("Redis", "Setup", "Redis 连接成功")
}
