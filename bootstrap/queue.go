package bootstrap

import (
	"context"
	"time"

	"tagmind/pkg/ai"
	"tagmind/pkg/config"
	"tagmind/pkg/logger"
	"tagmind/pkg/queue"
	"tagmind/pkg/redis"
	"tagmind/pkg/tagging"
)

// SetupQueue 初始化打标签队列并启动工作器
// 配置为 redis 且 Redis 可用时使用 Redis 列表，否则使用进程内队列
func SetupQueue(analyzer ai.Analyzer) (queue.Queue, *queue.Worker) {
	metrics := queue.NewMetrics()
	rateLimit := config.GetInt("queue.rate_limit")
	rateBurst := config.GetInt("queue.rate_burst")

	var q queue.Queue
	if config.GetString("queue.driver") == "redis" && redis.Enabled() {
		q = queue.NewRedisQueue(redis.GetRedis(redis.QueueDB).Client, queue.RedisQueueConfig{
			Prefix:    config.GetString("redis.queue_prefix"),
			Timeout:   time.Duration(config.GetInt("redis.queue_timeout")) * time.Second,
			RateLimit: rateLimit,
			RateBurst: rateBurst,
		}, metrics)
		logger.InfoString("Queue", "Setup", "使用 Redis 队列")
	} else {
		q = queue.NewMemoryQueue(config.GetInt("queue.buffer_size"), time.Second, rateLimit, rateBurst, metrics)
		logger.InfoString("Queue", "Setup", "使用内存队列")
	}

	enricher := tagging.NewEnricher(analyzer, tagging.DefaultRules)
	worker := queue.NewWorker(q, func(ctx context.Context, task *queue.EnrichTask) error {
		return enricher.Enrich(ctx, task.DiaryID)
	}, metrics, queue.WorkerConfig{
		WorkerCount:     config.GetInt("queue.worker_count", 4),
		TaskTimeout:     time.Duration(config.GetInt("queue.task_timeout", 30)) * time.Second,
		RetryInterval:   time.Second,
		ShutdownTimeout: 30 * time.Second,
	})

	worker.Start()

	logger.InfoString("Queue", "Setup", "队列服务启动成功")
	return q, worker
}
