// Package types 支付渠道共用的类型定义
package types

import (
	"context"
	"time"

	"tagmind/app/models/order"
)

// Request 下单参数
type Request struct {
	UserID      uint64    `json:"user_id"`
	TagPackID   uint64    `json:"tag_pack_id"`
	ProductID   string    `json:"product_id"`
	Amount      int64     `json:"amount"` // 最小货币单位
	Description string    `json:"description"`
	ReturnURL   string    `json:"return_url"`
	ExpireAt    time.Time `json:"expire_at"`
}

// Result 下单结果
type Result struct {
	OrderNo    string                 `json:"order_no"`
	Provider   string                 `json:"provider"`
	Status     string                 `json:"status"`
	PaymentURL string                 `json:"payment_url,omitempty"`
	PrepayID   string                 `json:"prepay_id,omitempty"`
	ExtraData  map[string]interface{} `json:"extra_data,omitempty"`
	ExpireAt   time.Time              `json:"expire_at"`
}

// Paid 渠道是否已确认支付
func (r *Result) Paid() bool {
	return r.Status == string(order.StatusPaid)
}

// Query 渠道侧的订单状态
type Query struct {
	Status        order.Status
	TransactionID string
}

// Service 支付渠道接口
type Service interface {
	Provider() order.Provider
	CreatePayment(ctx context.Context, req *Request) (*Result, error)
	QueryPayment(ctx context.Context, orderNo string) (*Query, error)
	CancelPayment(ctx context.Context, orderNo string) error
}

// Repository 订单仓储接口
type Repository interface {
	Create(ctx context.Context, o *order.Order) error
	Update(ctx context.Context, o *order.Order) error
	GetByOrderNo(ctx context.Context, orderNo string) (*order.Order, error)
}
