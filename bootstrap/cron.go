package bootstrap

import (
	"context"

	"tagmind/app/repositories"
	"tagmind/pkg/config"
	"tagmind/pkg/cron"
	"tagmind/pkg/logger"
	"tagmind/pkg/queue"
)

// SetupCron 注册定时任务并启动，未启用时返回 nil
func SetupCron(ctx context.Context, q queue.Queue, worker *queue.Worker) *cron.Runner {
	if !config.GetBool("cron.enabled") {
		return nil
	}

	runner := cron.New(logger.Logger, ctx)
	if _, err := runner.Add("expire_orders", config.GetString("cron.expire_orders"), cron.ExpireOrders(repositories.NewOrderRepository())); err != nil {
		logger.ErrorString("Cron", "expire_orders", err.Error())
	}
	if _, err := runner.Add("report_metrics", config.GetString("cron.report_metrics"), cron.ReportQueueMetrics(q, worker.Metrics())); err != nil {
		logger.ErrorString("Cron", "report_metrics", err.Error())
	}
	runner.Start()
	return runner
}
