package order

import (
	"errors"
	"time"
)

// Provider 支付提供商类型
type Provider string

const (
	ProviderMock   Provider = "mock"   // 应用商店内购占位，直接完成
	ProviderWechat Provider = "wechat" // 微信支付
	ProviderAlipay Provider = "alipay" // 支付宝
)

// Status 支付状态
type Status string

const (
	StatusPending  Status = "pending"  // 待支付
	StatusPaid     Status = "paid"     // 已支付
	StatusFailed   Status = "failed"   // 支付失败
	StatusCanceled Status = "canceled" // 已取消
)

// Validate 验证订单
func (o *Order) Validate() error {
	if o.UserID == 0 {
		return errors.New("user_id is required")
	}
	if o.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	if !ValidProvider(o.Provider) {
		return errors.New("invalid payment provider")
	}
	return nil
}

// ValidProvider 是否为支持的支付渠道
func ValidProvider(provider string) bool {
	switch Provider(provider) {
	case ProviderMock, ProviderWechat, ProviderAlipay:
		return true
	}
	return false
}

// IsPaid 检查是否已支付
func (o *Order) IsPaid() bool {
	return o.Status == string(StatusPaid)
}

// IsPending 检查是否待支付
func (o *Order) IsPending() bool {
	return o.Status == string(StatusPending)
}

// IsExpired 待支付订单是否已超过有效期
func (o *Order) IsExpired(now time.Time) bool {
	return o.IsPending() && o.ExpireAt != nil && now.After(*o.ExpireAt)
}

// MarkPaid 标记为已支付
func (o *Order) MarkPaid(transactionID string, at time.Time) {
	o.Status = string(StatusPaid)
	o.TransactionID = transactionID
	o.PayAt = &at
}
