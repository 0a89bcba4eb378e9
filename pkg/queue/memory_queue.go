package queue

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// MemoryQueue 进程内队列，未启用 Redis 时使用
// 任务不持久化，进程退出时未处理的任务丢失
type MemoryQueue struct {
	tasks       chan *EnrichTask
	popTimeout  time.Duration
	rateLimiter *rate.Limiter
	metrics     *Metrics
}

// NewMemoryQueue 创建内存队列
func NewMemoryQueue(bufferSize int, popTimeout time.Duration, rateLimit, rateBurst int, metrics *Metrics) *MemoryQueue {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if popTimeout <= 0 {
		popTimeout = time.Second
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &MemoryQueue{
		tasks:       make(chan *EnrichTask, bufferSize),
		popTimeout:  popTimeout,
		rateLimiter: newRateLimiter(rateLimit, rateBurst),
		metrics:     metrics,
	}
}

// Push 入队，缓冲区满时返回 ErrQueueFull
func (q *MemoryQueue) Push(ctx context.Context, task *EnrichTask) error {
	if err := q.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	start := time.Now()
	defer func() {
		q.metrics.RecordPushLatency(time.Since(start))
	}()

	select {
	case q.tasks <- task:
		q.metrics.RecordSuccess(OpPush)
		q.metrics.StartWaitTime(task.ID)
		return nil
	default:
		q.metrics.RecordError(OpPush)
		return ErrQueueFull
	}
}

// Pop 获取任务，最多等待 popTimeout
func (q *MemoryQueue) Pop(ctx context.Context) (*EnrichTask, error) {
	timer := time.NewTimer(q.popTimeout)
	defer timer.Stop()

	select {
	case task := <-q.tasks:
		return task, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, nil
	}
}

// Len 队列中待处理的任务数
func (q *MemoryQueue) Len(ctx context.Context) (int64, error) {
	return int64(len(q.tasks)), nil
}

// Ping 内存队列始终可用
func (q *MemoryQueue) Ping(ctx context.Context) error {
	return nil
}
