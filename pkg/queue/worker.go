package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tagmind/pkg/logger"

	"go.uber.org/zap"
)

// Handler 任务处理函数
type Handler func(ctx context.Context, task *EnrichTask) error

// Worker 队列工作器组
type Worker struct {
	queue   Queue
	handler Handler
	metrics *Metrics
	config  WorkerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// WorkerConfig 工作器配置
type WorkerConfig struct {
	WorkerCount     int           // 并发工作器数量
	TaskTimeout     time.Duration // 单个任务最长执行时间
	RetryInterval   time.Duration // 出队出错后的等待时间
	ShutdownTimeout time.Duration // 关闭超时时间
}

// NewWorker 创建新的工作器组
func NewWorker(q Queue, handler Handler, metrics *Metrics, config WorkerConfig) *Worker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 4
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = 30 * time.Second
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		queue:   q,
		handler: handler,
		metrics: metrics,
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Metrics 工作器指标
func (w *Worker) Metrics() *Metrics {
	return w.metrics
}

// Start 启动工作器组
func (w *Worker) Start() {
	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.startWorker(i)
	}
}

// startWorker 启动单个工作器
func (w *Worker) startWorker(id int) {
	defer w.wg.Done()
	logger.DebugString("Worker", "Start", fmt.Sprintf("Worker %d started", id))

	for {
		select {
		case <-w.ctx.Done():
			logger.DebugString("Worker", "Stop", fmt.Sprintf("Worker %d stopping", id))
			return
		default:
		}

		if err := w.processNextTask(); err != nil {
			logger.ErrorString("Worker", "Error", fmt.Sprintf("Worker %d error: %v", id, err))
			select {
			case <-w.ctx.Done():
			case <-time.After(w.config.RetryInterval):
			}
		}
	}
}

// processNextTask 取出并处理一个任务，队列为空时直接返回
func (w *Worker) processNextTask() error {
	task, err := w.queue.Pop(w.ctx)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}
	w.handleTask(task)
	return nil
}

// handleTask 处理单个任务，失败只记录日志，不影响后续任务
func (w *Worker) handleTask(task *EnrichTask) {
	w.metrics.EndWaitTime(task.ID)
	start := time.Now()
	defer func() {
		w.metrics.RecordProcessLatency(time.Since(start))
	}()

	// 任务不随工作器停止而中断，只受自身超时约束
	ctx, cancel := context.WithTimeout(context.Background(), w.config.TaskTimeout)
	defer cancel()

	w.updateStatus(ctx, task.ID, TaskRunning, "")

	err := w.runHandler(ctx, task)
	if err != nil {
		w.metrics.RecordError(OpProcess)
		w.updateStatus(ctx, task.ID, TaskFailed, err.Error())
		logger.Error("Worker",
			zap.String("task_id", task.ID),
			zap.Uint64("diary_id", task.DiaryID),
			zap.Error(err))
		return
	}

	w.metrics.RecordSuccess(OpProcess)
	w.updateStatus(ctx, task.ID, TaskCompleted, "")
}

// runHandler 执行处理函数，panic 转为错误
func (w *Worker) runHandler(ctx context.Context, task *EnrichTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return w.handler(ctx, task)
}

func (w *Worker) updateStatus(ctx context.Context, taskID string, status TaskStatus, message string) {
	tracker, ok := w.queue.(StatusTracker)
	if !ok {
		return
	}
	if err := tracker.UpdateTaskStatus(ctx, taskID, status, message); err != nil {
		logger.WarnString("Worker", "UpdateStatus", err.Error())
	}
}

// Stop 优雅关闭工作器组，等待进行中的任务完成
func (w *Worker) Stop() {
	w.once.Do(func() {
		w.cancel()

		done := make(chan struct{})
		go func() {
			w.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			logger.InfoString("Worker", "Stop", "All workers stopped gracefully")
		case <-time.After(w.config.ShutdownTimeout):
			logger.WarnString("Worker", "Stop", "Worker shutdown timed out")
		}
	})
}
