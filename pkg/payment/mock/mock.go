// Package mock 应用商店内购占位渠道，下单即视为支付完成
package mock

import (
	"context"

	"tagmind/app/models/order"
	"tagmind/pkg/payment/types"
	"tagmind/pkg/payment/utils"
)

// Service 模拟支付服务
type Service struct {
	repository types.Repository
}

// NewService 创建模拟支付服务
func NewService(repo types.Repository) *Service {
	return &Service{repository: repo}
}

// Provider 渠道名
func (s *Service) Provider() order.Provider {
	return order.ProviderMock
}

// CreatePayment 创建订单并直接返回已支付
func (s *Service) CreatePayment(ctx context.Context, req *types.Request) (*types.Result, error) {
	o, err := utils.CreatePendingOrder(ctx, s.repository, s.Provider(), req)
	if err != nil {
		return nil, err
	}
	return &types.Result{
		OrderNo:  o.OrderNo,
		Provider: o.Provider,
		Status:   string(order.StatusPaid),
		ExpireAt: req.ExpireAt,
	}, nil
}

// QueryPayment 模拟渠道的订单总是已支付
func (s *Service) QueryPayment(ctx context.Context, orderNo string) (*types.Query, error) {
	if _, err := s.repository.GetByOrderNo(ctx, orderNo); err != nil {
		return nil, err
	}
	return &types.Query{Status: order.StatusPaid, TransactionID: "mock-" + orderNo}, nil
}

// CancelPayment 模拟渠道无需通知第三方
func (s *Service) CancelPayment(ctx context.Context, orderNo string) error {
	return nil
}
