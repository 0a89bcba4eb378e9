package config

import "tagmind/pkg/config"

func init() {
	config.Add("queue", func() map[string]interface{} {
		return map[string]interface{}{
			// 队列驱动，可选 redis, memory
			"driver": config.Env("QUEUE_DRIVER", "redis"),

			// 入队限流，每秒任务数与突发上限
			"rate_limit": config.Env("QUEUE_RATE_LIMIT", 50),
			"rate_burst": config.Env("QUEUE_RATE_BURST", 100),

			"worker_count": config.Env("QUEUE_WORKER_COUNT", 4),

			// 单个打标签任务的最长执行时间，单位秒
			"task_timeout": config.Env("QUEUE_TASK_TIMEOUT", 30),

			// memory 驱动的缓冲长度
			"buffer_size": config.Env("QUEUE_BUFFER_SIZE", 1000),
		}
	})
}
