// Package utils 支付渠道共用的辅助函数
package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"tagmind/app/models/order"
	"tagmind/pkg/payment/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateOrderNo 生成订单号，时间前缀便于人工排查
func GenerateOrderNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return time.Now().UTC().Format("20060102150405") + suffix
}

// GenerateNonceStr 生成随机字符串
func GenerateNonceStr() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// YuanString 将分转换为两位小数的元
func YuanString(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}

// CreatePendingOrder 按下单参数写入一条待支付订单
func CreatePendingOrder(ctx context.Context, repo types.Repository, provider order.Provider, req *types.Request) (*order.Order, error) {
	expireAt := req.ExpireAt
	o := &order.Order{
		OrderNo:   GenerateOrderNo(),
		UserID:    req.UserID,
		TagPackID: req.TagPackID,
		ProductID: req.ProductID,
		Provider:  string(provider),
		Amount:    req.Amount,
		Status:    string(order.StatusPending),
		ExpireAt:  &expireAt,
	}
	if err := repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create payment record error: %w", err)
	}
	return o, nil
}
