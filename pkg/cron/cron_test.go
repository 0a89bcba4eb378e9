package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tagmind/app/models/order"
	"tagmind/app/repositories"
	"tagmind/pkg/database/dbtest"
	"tagmind/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerAdd(t *testing.T) {
	r := New(nil, context.Background())

	_, err := r.Add("disabled", "", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 0, r.Entries())

	_, err = r.Add("bad", "every now and then", func(context.Context) error { return nil })
	assert.Error(t, err)

	_, err = r.Add("every_second", "* * * * * *", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, r.Entries())
}

func TestRunnerRunsJobs(t *testing.T) {
	r := New(nil, context.Background())
	var runs atomic.Int32
	_, err := r.Add("tick", "* * * * * *", func(context.Context) error {
		runs.Add(1)
		return errors.New("logged, not fatal")
	})
	require.NoError(t, err)

	r.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	r.Stop()
}

func TestExpireOrders(t *testing.T) {
	dbtest.Setup(t)
	ctx := context.Background()
	orders := repositories.NewOrderRepository()
	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, orders.Create(ctx, &order.Order{
		OrderNo: "E1", UserID: 1, TagPackID: 1, ProductID: "p", Provider: "alipay",
		Amount: 499, Status: string(order.StatusPending), ExpireAt: &past,
	}))

	require.NoError(t, ExpireOrders(orders)(ctx))

	o, err := orders.GetByOrderNo(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusCanceled), o.Status)
}

func TestReportQueueMetrics(t *testing.T) {
	metrics := queue.NewMetrics()
	q := queue.NewMemoryQueue(10, 10*time.Millisecond, 0, 0, metrics)
	require.NoError(t, q.Push(context.Background(), queue.NewEnrichTask(1, 1)))

	assert.NoError(t, ReportQueueMetrics(q, metrics)(context.Background()))
}
