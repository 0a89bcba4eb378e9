// Package queue 日记打标签任务队列与工作器
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// ErrQueueFull 内存队列已满
var ErrQueueFull = errors.New("queue is full")

// EnrichTask 日记写入后的打标签任务
type EnrichTask struct {
	ID        string    `json:"id"`
	DiaryID   uint64    `json:"diary_id"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEnrichTask 创建任务
func NewEnrichTask(diaryID, userID uint64) *EnrichTask {
	return &EnrichTask{
		ID:        uuid.NewString(),
		DiaryID:   diaryID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// Queue 任务队列
// Pop 在等待超时或队列为空时返回 nil, nil
type Queue interface {
	Push(ctx context.Context, task *EnrichTask) error
	Pop(ctx context.Context) (*EnrichTask, error)
	Len(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// StatusTracker 可记录任务状态的队列
type StatusTracker interface {
	UpdateTaskStatus(ctx context.Context, taskID string, status TaskStatus, message string) error
}
