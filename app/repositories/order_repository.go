package repositories

import (
	"context"
	"time"

	"tagmind/app/models/order"
	"tagmind/pkg/database"

	"gorm.io/gorm"
)

// OrderRepository 支付订单仓库
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建仓库实例
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		db: database.DB,
	}
}

// WithTx 在给定事务中执行
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create 创建订单
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(o).Error
}

// Update 更新订单
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// GetByOrderNo 根据订单号获取订单
func (r *OrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// GetUserOrder 获取属于该用户的订单
func (r *OrderRepository) GetUserOrder(ctx context.Context, userID uint64, orderNo string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).
		Where("order_no = ? AND user_id = ?", orderNo, userID).
		First(&o).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ExpirePending 将过期的待支付订单标记为已取消，返回影响行数
func (r *OrderRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("status = ? AND expire_at IS NOT NULL AND expire_at < ?", order.StatusPending, now.UTC()).
		Update("status", order.StatusCanceled)
	return result.RowsAffected, result.Error
}
