package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tagmind/bootstrap"
	btsConfig "tagmind/config"
	"tagmind/pkg/config"
	"tagmind/pkg/logger"
	"tagmind/pkg/redis"
	"tagmind/pkg/seed"
	"tagmind/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 加载应用程序的基础配置
func init() {
	// 加载 config 目录下的配置信息
	btsConfig.Initialize()
}

// 命令行参数 --env，例如 --env=testing 将加载 .env.testing 文件
var env string

func main() {
	rootCmd := &cobra.Command{
		Use:   "tagmind",
		Short: "TagMind 标签日记服务",
		// 未指定子命令时启动 HTTP 服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// 先初始化配置，然后初始化日志和数据库
			config.InitConfig(env)
			bootstrap.SetupLogger()
			bootstrap.SetupDB()
		},
	}

	rootCmd.PersistentFlags().StringVar(&env, "env", "", "加载 .env 文件，例如 --env=testing 将加载 .env.testing 文件")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务与打标签工作器",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "自动迁移数据表结构",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.MigrateDB()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "写入基础标签与示例标签包",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap.MigrateDB(); err != nil {
				return err
			}
			return seed.Run(cmd.Context())
		},
	}
}

// runServe 初始化各组件，启动服务器并处理优雅关闭
func runServe() error {
	if err := bootstrap.MigrateDB(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化 Redis，未启用时限流与队列使用进程内实现
	bootstrap.SetupRedis()
	if redis.Manager != nil {
		defer redis.Manager.Close()
	}

	analyzer := bootstrap.SetupAnalyzer()
	q, worker := bootstrap.SetupQueue(analyzer)
	uploader, uploadDir := bootstrap.SetupStorage()
	checkout := bootstrap.SetupPayment()
	runner := bootstrap.SetupCron(ctx, q, worker)

	// 设置 gin 为生产模式
	// 这样可以减少不必要的日志输出，提高性能
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	bootstrap.SetupRoute(router, routes.Dependencies{
		Queue:    q,
		Uploader: uploader,
		Analyzer: analyzer,
		Checkout: checkout,
	}, uploadDir)

	server := &http.Server{
		Addr:    ":" + config.Get("app.port"),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("服务器正在启动", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 等待中断信号
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		logger.Error("服务器启动失败", zap.Error(err))
	}
	logger.Info("正在关闭服务器...")

	// 创建一个带超时的上下文
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器，随后停止定时任务与工作器
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}
	if runner != nil {
		runner.Stop()
	}
	worker.Stop()

	logger.Info("服务器已成功关闭")
	_ = logger.Logger.Sync()
	return nil
}
