package queue

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueuePushPop(t *testing.T) {
	q := NewMemoryQueue(2, 10*time.Millisecond, 0, 0, nil)
	ctx := context.Background()

	first := NewEnrichTask(1, 10)
	second := NewEnrichTask(2, 10)
	require.NoError(t, q.Push(ctx, first))
	require.NoError(t, q.Push(ctx, second))
	assert.ErrorIs(t, q.Push(ctx, NewEnrichTask(3, 10)), ErrQueueFull)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	got, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	// 空队列等待超时后返回 nil
	got, err = q.Pop(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestWorkerProcessesTasks(t *testing.T) {
	metrics := NewMetrics()
	q := NewMemoryQueue(10, 10*time.Millisecond, 0, 0, metrics)

	var (
		mu   sync.Mutex
		seen []uint64
		wg   sync.WaitGroup
	)
	wg.Add(3)
	handler := func(ctx context.Context, task *EnrichTask) error {
		defer wg.Done()
		mu.Lock()
		seen = append(seen, task.DiaryID)
		mu.Unlock()
		if task.DiaryID == 2 {
			return errors.New("boom")
		}
		if task.DiaryID == 3 {
			panic("handler panic")
		}
		return nil
	}

	w := NewWorker(q, handler, metrics, WorkerConfig{WorkerCount: 2, TaskTimeout: time.Second})
	w.Start()
	defer w.Stop()

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, q.Push(context.Background(), NewEnrichTask(i, 1)))
	}

	waitOrFail(t, &wg)
	w.Stop()

	assert.ElementsMatch(t, []uint64{1, 2, 3}, seen)
	snap := metrics.Snapshot()
	assert.EqualValues(t, 3, snap.Succeeded[OpPush])
	assert.EqualValues(t, 1, snap.Succeeded[OpProcess])
	assert.EqualValues(t, 2, snap.Failed[OpProcess])
	assert.EqualValues(t, 3, snap.ProcessLatency.Count)
	assert.EqualValues(t, 3, snap.WaitLatency.Count)
}

func TestWorkerTaskTimeout(t *testing.T) {
	q := NewMemoryQueue(1, 10*time.Millisecond, 0, 0, nil)
	done := make(chan error, 1)
	handler := func(ctx context.Context, task *EnrichTask) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}

	w := NewWorker(q, handler, nil, WorkerConfig{WorkerCount: 1, TaskTimeout: 20 * time.Millisecond})
	w.Start()
	defer w.Stop()
	require.NoError(t, q.Push(context.Background(), NewEnrichTask(1, 1)))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("task was not cancelled")
	}
}

func TestWorkerStopIsIdempotent(t *testing.T) {
	q := NewMemoryQueue(1, 10*time.Millisecond, 0, 0, nil)
	w := NewWorker(q, func(ctx context.Context, task *EnrichTask) error { return nil }, nil, WorkerConfig{WorkerCount: 3})
	w.Start()
	w.Stop()
	w.Stop()
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordPushLatency(10 * time.Millisecond)
	m.RecordPushLatency(30 * time.Millisecond)
	m.RecordError(OpPop)
	m.EndWaitTime("unknown")

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.PushLatency.Count)
	assert.Equal(t, 20*time.Millisecond, snap.PushLatency.Avg)
	assert.Equal(t, 10*time.Millisecond, snap.PushLatency.Min)
	assert.Equal(t, 30*time.Millisecond, snap.PushLatency.Max)
	assert.EqualValues(t, 1, snap.Failed[OpPop])
	assert.EqualValues(t, 0, snap.WaitLatency.Count)
}

// 需要真实 Redis，设置 REDIS_ADDR 后运行
func TestRedisQueue(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.FlushDB(ctx).Err())

	q := NewRedisQueue(client, RedisQueueConfig{Prefix: "test", PopTimeout: 100 * time.Millisecond}, nil)
	task := NewEnrichTask(7, 1)
	require.NoError(t, q.Push(ctx, task))

	status, err := q.GetTaskStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskPending, status)

	got, err := q.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.ID, got.ID)
	assert.EqualValues(t, 7, got.DiaryID)

	require.NoError(t, q.UpdateTaskStatus(ctx, task.ID, TaskFailed, "boom"))
	status, err = q.GetTaskStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskFailed, status)

	got, err = q.Pop(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tasks")
	}
}
