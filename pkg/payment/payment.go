// Package payment 标签包下单与支付完成处理
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tagmind/app/models/order"
	"tagmind/app/models/tagpack"
	"tagmind/app/repositories"
	"tagmind/pkg/database"
	"tagmind/pkg/logger"
	"tagmind/pkg/payment/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrProviderUnavailable 渠道未配置
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// DefaultExpire 待支付订单默认有效期
const DefaultExpire = 30 * time.Minute

// Checkout 下单服务
type Checkout struct {
	services        map[order.Provider]types.Service
	defaultProvider order.Provider
	expire          time.Duration
	packs           *repositories.TagPackRepository
	orders          *repositories.OrderRepository
}

// NewCheckout 创建下单服务，defaultProvider 为空时使用 mock
func NewCheckout(services []types.Service, defaultProvider string, expire time.Duration) *Checkout {
	if defaultProvider == "" {
		defaultProvider = string(order.ProviderMock)
	}
	if expire <= 0 {
		expire = DefaultExpire
	}
	byProvider := make(map[order.Provider]types.Service, len(services))
	for _, svc := range services {
		byProvider[svc.Provider()] = svc
	}
	return &Checkout{
		services:        byProvider,
		defaultProvider: order.Provider(defaultProvider),
		expire:          expire,
		packs:           repositories.NewTagPackRepository(),
		orders:          repositories.NewOrderRepository(),
	}
}

// Checkout 为标签包下单，渠道确认支付后立即发放
// 商品不存在返回 repositories.ErrNotFound，已拥有返回 repositories.ErrAlreadyOwned
func (s *Checkout) Checkout(ctx context.Context, userID uint64, productID, provider string) (*types.Result, error) {
	svc, err := s.service(provider)
	if err != nil {
		return nil, err
	}

	pack, err := s.packs.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	owned, err := s.packs.IsOwned(ctx, userID, pack.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, repositories.ErrAlreadyOwned
	}

	result, err := svc.CreatePayment(ctx, &types.Request{
		UserID:      userID,
		TagPackID:   pack.ID,
		ProductID:   pack.ProductID,
		Amount:      int64(pack.Price),
		Description: pack.Name,
		ExpireAt:    time.Now().UTC().Add(s.expire),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment",
		zap.String("order_no", result.OrderNo),
		zap.String("provider", result.Provider),
		zap.Uint64("user_id", userID),
		zap.String("product_id", pack.ProductID),
	)

	if result.Paid() {
		if _, err := s.complete(ctx, result.OrderNo, "", pack); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Sync 向渠道查询待支付订单的最新状态并落库
func (s *Checkout) Sync(ctx context.Context, userID uint64, orderNo string) (*order.Order, error) {
	o, err := s.orders.GetUserOrder(ctx, userID, orderNo)
	if err != nil {
		return nil, err
	}
	if !o.IsPending() {
		return o, nil
	}

	svc, ok := s.services[order.Provider(o.Provider)]
	if !ok {
		return o, nil
	}
	query, err := svc.QueryPayment(ctx, orderNo)
	if err != nil {
		// 渠道查询失败时返回本地状态
		logger.WarnString("Payment", "query", err.Error())
		return o, nil
	}

	switch query.Status {
	case order.StatusPaid:
		pack, err := s.packs.GetByProductID(ctx, o.ProductID)
		if err != nil {
			return nil, err
		}
		return s.complete(ctx, orderNo, query.TransactionID, pack)
	case order.StatusFailed, order.StatusCanceled:
		o.Status = string(query.Status)
		if err := s.orders.Update(ctx, o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// complete 在同一事务中发放标签包并将订单标记为已支付
func (s *Checkout) complete(ctx context.Context, orderNo, transactionID string, pack *tagpack.TagPack) (*order.Order, error) {
	var paid *order.Order
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		o, err := orders.GetByOrderNo(ctx, orderNo)
		if err != nil {
			return err
		}
		if o.IsPaid() {
			paid = o
			return nil
		}
		if _, err := s.packs.WithTx(tx).Grant(ctx, o.UserID, pack); err != nil {
			return err
		}
		if transactionID == "" {
			transactionID = o.Provider + "-" + o.OrderNo
		}
		o.MarkPaid(transactionID, time.Now().UTC())
		if err := orders.Update(ctx, o); err != nil {
			return fmt.Errorf("mark order %s paid: %w", orderNo, err)
		}
		paid = o
		return nil
	})
	return paid, err
}

func (s *Checkout) service(provider string) (types.Service, error) {
	if provider == "" {
		provider = string(s.defaultProvider)
	}
	svc, ok := s.services[order.Provider(provider)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, provider)
	}
	return svc, nil
}
