// Package cron 定时任务调度，表达式精确到秒
package cron

import (
	"context"

	cronlib "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner 定时任务调度器
type Runner struct {
	cron    *cronlib.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

// New 创建调度器，任务共用 baseCtx
func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cron:    cronlib.New(cronlib.WithSeconds(), cronlib.WithChain(cronlib.SkipIfStillRunning(cronlib.DiscardLogger))),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add 注册任务，cron 表达式为空时跳过
func (r *Runner) Add(name, spec string, job func(context.Context) error) (cronlib.EntryID, error) {
	if spec == "" {
		r.logger.Info("cron job disabled", zap.String("job", name))
		return 0, nil
	}
	return r.cron.AddFunc(spec, func() {
		if err := job(r.baseCtx); err != nil {
			r.logger.Error("cron job failed", zap.String("job", name), zap.Error(err))
		}
	})
}

// Entries 已注册的任务数
func (r *Runner) Entries() int {
	return len(r.cron.Entries())
}

// Start 启动调度
func (r *Runner) Start() {
	r.logger.Info("cron started", zap.Int("jobs", r.Entries()))
	r.cron.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}
