package bootstrap

import (
	"time"

	"tagmind/app/repositories"
	"tagmind/pkg/ai"
	"tagmind/pkg/app"
	"tagmind/pkg/config"
	"tagmind/pkg/logger"
	"tagmind/pkg/payment"
	"tagmind/pkg/payment/factory"
	"tagmind/pkg/storage"

	"go.uber.org/zap"
)

// SetupAnalyzer 初始化文本分析服务
func SetupAnalyzer() ai.Analyzer {
	analyzer := ai.New(ai.Config{
		Driver:     config.GetString("ai.driver"),
		URLs:       ai.SplitList(config.GetString("ai.urls")),
		APIKeys:    ai.SplitList(config.GetString("ai.api_keys")),
		Timeout:    time.Duration(config.GetInt("ai.timeout", 30)) * time.Second,
		MaxRetries: config.GetInt("ai.max_retries"),
	})
	if _, ok := analyzer.(ai.Mock); ok {
		logger.InfoString("AI", "Setup", "使用模拟分析结果")
	}
	return analyzer
}

// SetupStorage 初始化图片存储，返回本地存储目录（remote 驱动为空）
func SetupStorage() (storage.Uploader, string) {
	uploader, err := storage.New(storage.Config{
		Driver:    config.GetString("storage.driver"),
		LocalPath: config.GetString("storage.local_path"),
		BaseURL:   app.URL("/uploads"),
		Endpoint:  config.GetString("storage.endpoint"),
		Bucket:    config.GetString("storage.bucket"),
		Token:     config.GetString("storage.token"),
		PublicURL: config.GetString("storage.public_url"),
		Timeout:   time.Duration(config.GetInt("storage.timeout", 30)) * time.Second,
	})
	if err != nil {
		logger.FatalString("Storage", "Setup", err.Error())
	}

	if local, ok := uploader.(*storage.Local); ok {
		return uploader, local.Root()
	}
	return uploader, ""
}

// SetupPayment 初始化支付渠道与下单服务
func SetupPayment() *payment.Checkout {
	services, err := factory.NewConfiguredServices(repositories.NewOrderRepository())
	if err != nil {
		logger.FatalString("Payment", "Setup", err.Error())
	}

	providers := make([]string, 0, len(services))
	for _, svc := range services {
		providers = append(providers, string(svc.Provider()))
	}
	logger.Info("Payment", zap.Strings("providers", providers))

	return payment.NewCheckout(
		services,
		config.GetString("payment.provider"),
		time.Duration(config.GetInt("payment.order_expire_minutes", 30))*time.Minute,
	)
}
