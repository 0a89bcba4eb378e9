// Package alipay 支付宝 App 支付
package alipay

import (
	"context"
	"fmt"

	"github.com/smartwalle/alipay/v3"

	"tagmind/app/models/order"
	"tagmind/pkg/payment/types"
	"tagmind/pkg/payment/utils"
)

// Config 支付宝配置
type Config struct {
	AppID        string
	PrivateKey   string
	PublicKey    string
	NotifyURL    string
	ReturnURL    string
	IsProduction bool
}

// AlipayService 支付宝支付服务
type AlipayService struct {
	client     *alipay.Client
	appID      string
	notifyURL  string
	returnURL  string
	repository types.Repository
}

// NewAlipayService 创建支付宝支付服务
func NewAlipayService(config Config, repo types.Repository) (*AlipayService, error) {
	client, err := alipay.New(config.AppID, config.PrivateKey, config.IsProduction)
	if err != nil {
		return nil, fmt.Errorf("create alipay client error: %w", err)
	}

	if err := client.LoadAliPayPublicKey(config.PublicKey); err != nil {
		return nil, fmt.Errorf("load alipay public key error: %w", err)
	}

	return &AlipayService{
		client:     client,
		appID:      config.AppID,
		notifyURL:  config.NotifyURL,
		returnURL:  config.ReturnURL,
		repository: repo,
	}, nil
}

// Provider 渠道名
func (s *AlipayService) Provider() order.Provider {
	return order.ProviderAlipay
}

// CreatePayment 创建订单，返回客户端拉起支付宝所需的签名串
func (s *AlipayService) CreatePayment(ctx context.Context, req *types.Request) (*types.Result, error) {
	o, err := utils.CreatePendingOrder(ctx, s.repository, s.Provider(), req)
	if err != nil {
		return nil, err
	}

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = s.returnURL
	}

	trade := alipay.TradeAppPay{}
	trade.NotifyURL = s.notifyURL
	trade.ReturnURL = returnURL
	trade.Subject = req.Description
	trade.OutTradeNo = o.OrderNo
	trade.TotalAmount = utils.YuanString(req.Amount)
	trade.ProductCode = "QUICK_MSECURITY_PAY"

	orderString, err := s.client.TradeAppPay(trade)
	if err != nil {
		return nil, fmt.Errorf("create alipay payment error: %w", err)
	}

	return &types.Result{
		OrderNo:   o.OrderNo,
		Provider:  o.Provider,
		Status:    o.Status,
		ExtraData: map[string]interface{}{"order_string": orderString},
		ExpireAt:  req.ExpireAt,
	}, nil
}

// QueryPayment 查询支付宝侧交易状态
func (s *AlipayService) QueryPayment(ctx context.Context, orderNo string) (*types.Query, error) {
	rsp, err := s.client.TradeQuery(ctx, alipay.TradeQuery{OutTradeNo: orderNo})
	if err != nil {
		return nil, fmt.Errorf("query alipay trade error: %w", err)
	}
	if rsp.IsFailure() {
		// 用户尚未扫码时交易不存在
		return &types.Query{Status: order.StatusPending}, nil
	}

	switch rsp.TradeStatus {
	case alipay.TradeStatusSuccess, alipay.TradeStatusFinished:
		return &types.Query{Status: order.StatusPaid, TransactionID: rsp.TradeNo}, nil
	case alipay.TradeStatusClosed:
		return &types.Query{Status: order.StatusCanceled}, nil
	default:
		return &types.Query{Status: order.StatusPending}, nil
	}
}

// CancelPayment 关闭支付宝交易
func (s *AlipayService) CancelPayment(ctx context.Context, orderNo string) error {
	rsp, err := s.client.TradeClose(ctx, alipay.TradeClose{OutTradeNo: orderNo})
	if err != nil {
		return fmt.Errorf("close alipay trade error: %w", err)
	}
	if rsp.IsFailure() {
		return fmt.Errorf("close alipay trade failed: %s %s", rsp.Code, rsp.Msg)
	}
	return nil
}
