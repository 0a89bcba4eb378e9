// Package wechat 微信 App 支付
package wechat

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/app"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"

	"tagmind/app/models/order"
	"tagmind/pkg/payment/types"
	paymentutils "tagmind/pkg/payment/utils"
)

// Config 微信支付配置
type Config struct {
	AppID      string
	MchID      string
	SerialNo   string
	PrivateKey string
	APIv3Key   string
	NotifyURL  string
}

// WechatPayService 微信支付服务
type WechatPayService struct {
	client     *core.Client
	privateKey *rsa.PrivateKey
	appID      string
	mchID      string
	notifyURL  string
	repository types.Repository
}

// NewWechatPayService 创建微信支付服务
func NewWechatPayService(config Config, repo types.Repository) (*WechatPayService, error) {
	// 1. 加载商户私钥
	mchPrivateKey, err := utils.LoadPrivateKey(config.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("load merchant private key error: %w", err)
	}

	// 2. 创建证书管理器
	opts := []core.ClientOption{
		option.WithWechatPayAutoAuthCipher(
			config.MchID,
			config.SerialNo,
			mchPrivateKey,
			config.APIv3Key,
		),
	}

	// 3. 创建客户端
	client, err := core.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create wechat pay client error: %w", err)
	}

	return &WechatPayService{
		client:     client,
		privateKey: mchPrivateKey,
		appID:      config.AppID,
		mchID:      config.MchID,
		notifyURL:  config.NotifyURL,
		repository: repo,
	}, nil
}

// Provider 渠道名
func (s *WechatPayService) Provider() order.Provider {
	return order.ProviderWechat
}

// CreatePayment 创建订单并调用 App 下单接口，返回客户端调起支付的参数
func (s *WechatPayService) CreatePayment(ctx context.Context, req *types.Request) (*types.Result, error) {
	o, err := paymentutils.CreatePendingOrder(ctx, s.repository, s.Provider(), req)
	if err != nil {
		return nil, err
	}

	svc := app.AppApiService{Client: s.client}
	prepayResp, result, err := svc.Prepay(ctx, app.PrepayRequest{
		Appid:       core.String(s.appID),
		Mchid:       core.String(s.mchID),
		Description: core.String(req.Description),
		OutTradeNo:  core.String(o.OrderNo),
		TimeExpire:  core.Time(req.ExpireAt),
		NotifyUrl:   core.String(s.notifyURL),
		Amount: &app.Amount{
			Total:    core.Int64(req.Amount),
			Currency: core.String("CNY"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create wechat payment error: %w", err)
	}
	if result != nil && result.Response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("create wechat payment failed with status code: %d", result.Response.StatusCode)
	}

	// 生成 App 调起支付参数
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	nonceStr := paymentutils.GenerateNonceStr()
	prepayID := *prepayResp.PrepayId

	sign, err := s.sign(timestamp, nonceStr, prepayID)
	if err != nil {
		return nil, err
	}

	return &types.Result{
		OrderNo:  o.OrderNo,
		Provider: o.Provider,
		Status:   o.Status,
		PrepayID: prepayID,
		ExtraData: map[string]interface{}{
			"appid":     s.appID,
			"partnerid": s.mchID,
			"prepayid":  prepayID,
			"package":   "Sign=WXPay",
			"noncestr":  nonceStr,
			"timestamp": timestamp,
			"sign":      sign,
		},
		ExpireAt: req.ExpireAt,
	}, nil
}

// sign 计算 App 调起支付签名
func (s *WechatPayService) sign(timestamp, nonceStr, prepayID string) (string, error) {
	message := fmt.Sprintf("%s\n%s\n%s\n%s\n", s.appID, timestamp, nonceStr, prepayID)
	sign, err := utils.SignSHA256WithRSA(message, s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign wechat payment error: %w", err)
	}
	return sign, nil
}

// QueryPayment 按商户订单号查询微信侧交易状态
func (s *WechatPayService) QueryPayment(ctx context.Context, orderNo string) (*types.Query, error) {
	svc := app.AppApiService{Client: s.client}
	tx, _, err := svc.QueryOrderByOutTradeNo(ctx, app.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(orderNo),
		Mchid:      core.String(s.mchID),
	})
	if err != nil {
		return nil, fmt.Errorf("query wechat order error: %w", err)
	}

	state := ""
	if tx.TradeState != nil {
		state = *tx.TradeState
	}
	switch state {
	case "SUCCESS":
		transactionID := ""
		if tx.TransactionId != nil {
			transactionID = *tx.TransactionId
		}
		return &types.Query{Status: order.StatusPaid, TransactionID: transactionID}, nil
	case "CLOSED", "REVOKED":
		return &types.Query{Status: order.StatusCanceled}, nil
	case "PAYERROR":
		return &types.Query{Status: order.StatusFailed}, nil
	default:
		return &types.Query{Status: order.StatusPending}, nil
	}
}

// CancelPayment 关闭微信订单
func (s *WechatPayService) CancelPayment(ctx context.Context, orderNo string) error {
	svc := app.AppApiService{Client: s.client}
	if _, err := svc.CloseOrder(ctx, app.CloseOrderRequest{
		OutTradeNo: core.String(orderNo),
		Mchid:      core.String(s.mchID),
	}); err != nil {
		return fmt.Errorf("close wechat order error: %w", err)
	}
	return nil
}
