package cron

import (
	"context"
	"time"

	"tagmind/app/repositories"
	"tagmind/pkg/logger"
	"tagmind/pkg/queue"

	"go.uber.org/zap"
)

// ExpireOrders 将超过有效期的待支付订单标记为已取消
func ExpireOrders(orders *repositories.OrderRepository) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := orders.ExpirePending(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("Cron", zap.String("job", "expire_orders"), zap.Int64("canceled", n))
		}
		return nil
	}
}

// ReportQueueMetrics 输出队列长度与工作器指标
func ReportQueueMetrics(q queue.Queue, metrics *queue.Metrics) func(context.Context) error {
	return func(ctx context.Context) error {
		length, err := q.Len(ctx)
		if err != nil {
			return err
		}
		snap := metrics.Snapshot()
		logger.Info("Queue Metrics",
			zap.Int64("length", length),
			zap.Any("succeeded", snap.Succeeded),
			zap.Any("failed", snap.Failed),
			zap.Duration("push_avg", snap.PushLatency.Avg),
			zap.Duration("process_avg", snap.ProcessLatency.Avg),
			zap.Duration("process_max", snap.ProcessLatency.Max),
			zap.Duration("wait_avg", snap.WaitLatency.Avg),
		)
		return nil
	}
}
