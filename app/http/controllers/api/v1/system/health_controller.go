// Package system 服务状态
package system

import (
	"context"
	"net/http"
	"time"

	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/pkg/ai"
	"tagmind/pkg/config"
	"tagmind/pkg/database"
	"tagmind/pkg/queue"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthController 健康检查
type HealthController struct {
	v1.BaseAPIController
	queue    queue.Queue
	analyzer ai.Analyzer
}

// healthChecker 可自检的外部依赖
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewHealthController 创建控制器
func NewHealthController(q queue.Queue, analyzer ai.Analyzer) *HealthController {
	return &HealthController{queue: q, analyzer: analyzer}
}

// Welcome 首页
func (hc *HealthController) Welcome(c *gin.Context) {
	response.Message(c, "Welcome to "+config.GetString("app.name", "TagMind")+" API")
}

// Health 检查数据库与队列连接
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "queue": "ok"}
	healthy := true

	if err := database.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if hc.queue == nil {
		checks["queue"] = "disabled"
	} else if err := hc.queue.Ping(ctx); err != nil {
		checks["queue"] = err.Error()
		healthy = false
	}

	// AI 服务不可用时只降级，不影响整体状态
	if checker, ok := hc.analyzer.(healthChecker); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			checks["ai"] = err.Error()
		} else {
			checks["ai"] = "ok"
		}
	}

	code, status := http.StatusOK, response.Success
	if !healthy {
		code, status = http.StatusServiceUnavailable, response.Error
	}
	c.JSON(code, response.Response{
		Status: status,
		Data: gin.H{
			"checks": checks,
			"time":   time.Now().Unix(),
		},
	})
}
