package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RedisQueue 基于 Redis 列表的队列，LPUSH 入队，BRPOP 出队
type RedisQueue struct {
	client      *goredis.Client
	prefix      string
	timeout     time.Duration // 任务状态保留时间
	popTimeout  time.Duration
	rateLimiter *rate.Limiter
	metrics     *Metrics
}

// RedisQueueConfig Redis 队列配置
type RedisQueueConfig struct {
	Prefix     string
	Timeout    time.Duration
	PopTimeout time.Duration
	RateLimit  int
	RateBurst  int
}

// NewRedisQueue 创建 Redis 队列
func NewRedisQueue(client *goredis.Client, cfg RedisQueueConfig, metrics *Metrics) *RedisQueue {
	if cfg.Prefix == "" {
		cfg.Prefix = "tagmind"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Hour
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = time.Second
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &RedisQueue{
		client:      client,
		prefix:      cfg.Prefix,
		timeout:     cfg.Timeout,
		popTimeout:  cfg.PopTimeout,
		rateLimiter: newRateLimiter(cfg.RateLimit, cfg.RateBurst),
		metrics:     metrics,
	}
}

func (q *RedisQueue) tasksKey() string {
	return q.prefix + ":tasks"
}

func (q *RedisQueue) statusKey(taskID string) string {
	return fmt.Sprintf("%s:status:%s", q.prefix, taskID)
}

// Push 将任务推送到队列，受入队限流约束
func (q *RedisQueue) Push(ctx context.Context, task *EnrichTask) error {
	if err := q.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	start := time.Now()
	defer func() {
		q.metrics.RecordPushLatency(time.Since(start))
	}()

	taskJSON, err := json.Marshal(task)
	if err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, q.tasksKey(), taskJSON)
	pipe.Set(ctx, q.statusKey(task.ID), string(TaskPending), q.timeout)
	if _, err := pipe.Exec(ctx); err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to push task: %w", err)
	}

	q.metrics.RecordSuccess(OpPush)
	q.metrics.StartWaitTime(task.ID)
	return nil
}

// Pop 阻塞获取任务，最多等待 popTimeout
func (q *RedisQueue) Pop(ctx context.Context) (*EnrichTask, error) {
	result, err := q.client.BRPop(ctx, q.popTimeout, q.tasksKey()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		q.metrics.RecordError(OpPop)
		return nil, fmt.Errorf("failed to pop task from queue: %w", err)
	}
	if len(result) != 2 {
		return nil, errors.New("invalid result from queue")
	}

	var task EnrichTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		q.metrics.RecordError(OpPop)
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// Len 队列中待处理的任务数
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.tasksKey()).Result()
}

// Ping 检查队列服务健康状态
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// UpdateTaskStatus 更新任务状态，失败时一并记录原因
func (q *RedisQueue) UpdateTaskStatus(ctx context.Context, taskID string, status TaskStatus, message string) error {
	value := string(status)
	if message != "" {
		value += ":" + message
	}
	if err := q.client.Set(ctx, q.statusKey(taskID), value, q.timeout).Err(); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

// GetTaskStatus 获取任务状态，任务不存在时返回空字符串
func (q *RedisQueue) GetTaskStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	status, err := q.client.Get(ctx, q.statusKey(taskID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get task status: %w", err)
	}
	for i := 0; i < len(status); i++ {
		if status[i] == ':' {
			return TaskStatus(status[:i]), nil
		}
	}
	return TaskStatus(status), nil
}

// newRateLimiter 入队限流，limit 为 0 时不限流
func newRateLimiter(limit, burst int) *rate.Limiter {
	if limit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = limit
	}
	return rate.NewLimiter(rate.Limit(limit), burst)
}
