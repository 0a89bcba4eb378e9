package queue

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricOperation 定义指标操作类型
type MetricOperation string

const (
	OpPush    MetricOperation = "push"
	OpPop     MetricOperation = "pop"
	OpProcess MetricOperation = "process"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// LatencySnapshot 延迟统计快照
type LatencySnapshot struct {
	Count int64         `json:"count"`
	Avg   time.Duration `json:"avg"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

func (s *LatencyStats) record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	s.total += d
	if s.min == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

func (s *LatencyStats) snapshot() LatencySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := LatencySnapshot{Count: s.count, Min: s.min, Max: s.max}
	if s.count > 0 {
		snap.Avg = s.total / time.Duration(s.count)
	}
	return snap
}

// Metrics 队列与工作器的运行指标
type Metrics struct {
	succeeded sync.Map // MetricOperation -> *atomic.Int64
	failed    sync.Map

	pushLatency    LatencyStats
	processLatency LatencyStats
	waitLatency    LatencyStats

	waitTimeStart sync.Map // task id -> time.Time
}

// Snapshot 指标快照，供定时任务输出日志
type Snapshot struct {
	Succeeded      map[MetricOperation]int64 `json:"succeeded"`
	Failed         map[MetricOperation]int64 `json:"failed"`
	PushLatency    LatencySnapshot           `json:"push_latency"`
	ProcessLatency LatencySnapshot           `json:"process_latency"`
	WaitLatency    LatencySnapshot           `json:"wait_latency"`
}

// NewMetrics 创建新的指标收集器
func NewMetrics() *Metrics {
	return &Metrics{}
}

func counter(m *sync.Map, op MetricOperation) *atomic.Int64 {
	v, _ := m.LoadOrStore(op, new(atomic.Int64))
	return v.(*atomic.Int64)
}

// RecordSuccess 记录成功操作
func (m *Metrics) RecordSuccess(op MetricOperation) {
	counter(&m.succeeded, op).Add(1)
}

// RecordError 记录失败操作
func (m *Metrics) RecordError(op MetricOperation) {
	counter(&m.failed, op).Add(1)
}

// StartWaitTime 记录任务开始等待的时间
func (m *Metrics) StartWaitTime(taskID string) {
	m.waitTimeStart.Store(taskID, time.Now())
}

// EndWaitTime 任务被取出时记录排队时长
// Redis 队列的任务可能由其他进程入队，此时没有起始时间，直接忽略
func (m *Metrics) EndWaitTime(taskID string) {
	if start, ok := m.waitTimeStart.LoadAndDelete(taskID); ok {
		m.waitLatency.record(time.Since(start.(time.Time)))
	}
}

// RecordPushLatency 记录推送延迟
func (m *Metrics) RecordPushLatency(d time.Duration) {
	m.pushLatency.record(d)
}

// RecordProcessLatency 记录处理延迟
func (m *Metrics) RecordProcessLatency(d time.Duration) {
	m.processLatency.record(d)
}

// Snapshot 获取当前指标
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Succeeded:      make(map[MetricOperation]int64),
		Failed:         make(map[MetricOperation]int64),
		PushLatency:    m.pushLatency.snapshot(),
		ProcessLatency: m.processLatency.snapshot(),
		WaitLatency:    m.waitLatency.snapshot(),
	}
	m.succeeded.Range(func(k, v interface{}) bool {
		snap.Succeeded[k.(MetricOperation)] = v.(*atomic.Int64).Load()
		return true
	})
	m.failed.Range(func(k, v interface{}) bool {
		snap.Failed[k.(MetricOperation)] = v.(*atomic.Int64).Load()
		return true
	})
	return snap
}
