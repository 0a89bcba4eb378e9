package repositories

import (
	"context"
	"testing"
	"time"

	"tagmind/app/models/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderExpirePending(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewOrderRepository()
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	stale := &order.Order{OrderNo: "A1", UserID: 1, TagPackID: 1, ProductID: "p", Provider: "alipay", Amount: 499, Status: string(order.StatusPending), ExpireAt: &past}
	fresh := &order.Order{OrderNo: "A2", UserID: 1, TagPackID: 1, ProductID: "p", Provider: "alipay", Amount: 499, Status: string(order.StatusPending), ExpireAt: &future}
	paid := &order.Order{OrderNo: "A3", UserID: 1, TagPackID: 1, ProductID: "p", Provider: "mock", Amount: 499, Status: string(order.StatusPaid), ExpireAt: &past}
	for _, o := range []*order.Order{stale, fresh, paid} {
		require.NoError(t, repo.Create(ctx, o))
	}

	affected, err := repo.ExpirePending(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	got, err := repo.GetByOrderNo(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusCanceled), got.Status)

	got, err = repo.GetByOrderNo(ctx, "A2")
	require.NoError(t, err)
	assert.True(t, got.IsPending())

	got, err = repo.GetByOrderNo(ctx, "A3")
	require.NoError(t, err)
	assert.True(t, got.IsPaid())
}

func TestOrderGetUserOrderIsOwnerScoped(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewOrderRepository()
	require.NoError(t, repo.Create(ctx, &order.Order{OrderNo: "B1", UserID: 1, TagPackID: 1, ProductID: "p", Provider: "mock", Amount: 0, Status: string(order.StatusPending)}))

	_, err := repo.GetUserOrder(ctx, 2, "B1")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repo.GetUserOrder(ctx, 1, "B1")
	require.NoError(t, err)
	assert.Equal(t, "B1", got.OrderNo)
}

func TestOrderCreateValidates(t *testing.T) {
	setupDB(t)

	err := NewOrderRepository().Create(context.Background(), &order.Order{OrderNo: "C1", Provider: "mock"})
	assert.Error(t, err)
}
