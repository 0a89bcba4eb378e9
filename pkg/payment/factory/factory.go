// Package factory 按配置创建支付渠道
package factory

import (
	"fmt"

	"tagmind/app/models/order"
	"tagmind/pkg/config"
	"tagmind/pkg/payment/alipay"
	"tagmind/pkg/payment/mock"
	"tagmind/pkg/payment/types"
	"tagmind/pkg/payment/wechat"
)

// NewPaymentService 创建支付服务
func NewPaymentService(provider order.Provider, repo types.Repository) (types.Service, error) {
	switch provider {
	case order.ProviderMock:
		return mock.NewService(repo), nil

	case order.ProviderWechat:
		return wechat.NewWechatPayService(WechatConfig(), repo)

	case order.ProviderAlipay:
		return alipay.NewAlipayService(AlipayConfig(), repo)

	default:
		return nil, fmt.Errorf("unsupported payment provider: %s", provider)
	}
}

// NewConfiguredServices 创建所有已配置的渠道，mock 总是可用
// 未填写商户信息的渠道会被跳过，配置有误的渠道返回错误
func NewConfiguredServices(repo types.Repository) ([]types.Service, error) {
	services := []types.Service{mock.NewService(repo)}

	if config.GetString("payment.alipay.app_id") != "" {
		svc, err := NewPaymentService(order.ProviderAlipay, repo)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}

	if config.GetString("payment.wechat.mch_id") != "" {
		svc, err := NewPaymentService(order.ProviderWechat, repo)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}

	return services, nil
}

// AlipayConfig 读取支付宝配置
func AlipayConfig() alipay.Config {
	return alipay.Config{
		AppID:        config.GetString("payment.alipay.app_id"),
		PrivateKey:   config.GetString("payment.alipay.private_key"),
		PublicKey:    config.GetString("payment.alipay.public_key"),
		NotifyURL:    config.GetString("payment.alipay.notify_url"),
		ReturnURL:    config.GetString("payment.alipay.return_url"),
		IsProduction: config.GetBool("payment.alipay.is_production"),
	}
}

// WechatConfig 读取微信支付配置
func WechatConfig() wechat.Config {
	return wechat.Config{
		AppID:      config.GetString("payment.wechat.app_id"),
		MchID:      config.GetString("payment.wechat.mch_id"),
		SerialNo:   config.GetString("payment.wechat.serial_no"),
		PrivateKey: config.GetString("payment.wechat.private_key"),
		APIv3Key:   config.GetString("payment.wechat.api_v3_key"),
		NotifyURL:  config.GetString("payment.wechat.notify_url"),
	}
}
