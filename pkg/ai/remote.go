package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"tagmind/pkg/logger"
)

// 连续错误达到该次数后实例被标记为不健康
const unhealthyThreshold = 3

// Remote 通过 HTTP 调用外部分析服务
// 支持多实例负载均衡、故障转移和自动恢复
type Remote struct {
	instances  []*Instance
	numRetries int
	mu         sync.RWMutex
}

// Instance 分析服务实例
type Instance struct {
	URL          string
	APIKey       string
	Health       bool
	Client       *resty.Client
	LastErr      error
	LastUsed     time.Time
	ErrorCount   int
	RequestCount *RequestCounter
}

// RequestCounter 请求计数器
type RequestCounter struct {
	requests []time.Time
	mu       sync.Mutex
}

// NewRequestCounter 创建新的请求计数器
func NewRequestCounter() *RequestCounter {
	return &RequestCounter{
		requests: make([]time.Time, 0, 64),
	}
}

// AddRequest 记录新请求，只保留最近一小时
func (rc *RequestCounter) AddRequest() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := time.Now()
	kept := rc.requests[:0]
	for _, t := range rc.requests {
		if now.Sub(t) <= time.Hour {
			kept = append(kept, t)
		}
	}
	rc.requests = append(kept, now)
}

// GetRecentCount 获取最近时间段内的请求数
func (rc *RequestCounter) GetRecentCount(duration time.Duration) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := time.Now()
	count := 0
	for i := len(rc.requests) - 1; i >= 0; i-- {
		if now.Sub(rc.requests[i]) > duration {
			break
		}
		count++
	}
	return count
}

// NewInstance 创建新的实例，地址或密钥为空时返回 nil
func NewInstance(url, apiKey string, timeout time.Duration) *Instance {
	if url == "" || apiKey == "" {
		return nil
	}
	return &Instance{
		URL:          url,
		APIKey:       apiKey,
		Health:       true,
		Client:       resty.New().SetTimeout(timeout),
		LastUsed:     time.Now(),
		RequestCount: NewRequestCounter(),
	}
}

// NewRemote 创建远程分析服务，urls 与 api_keys 按顺序一一对应
func NewRemote(cfg Config) (*Remote, error) {
	if len(cfg.URLs) == 0 || len(cfg.URLs) != len(cfg.APIKeys) {
		return nil, errors.New("ai urls and api keys must be non-empty and of equal length")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := &Remote{
		instances:  make([]*Instance, 0, len(cfg.URLs)),
		numRetries: cfg.MaxRetries,
	}
	if r.numRetries <= 0 {
		r.numRetries = 1
	}
	for i, url := range cfg.URLs {
		if instance := NewInstance(url, cfg.APIKeys[i], timeout); instance != nil {
			r.instances = append(r.instances, instance)
		}
	}
	if len(r.instances) == 0 {
		return nil, errors.New("no valid ai instance configured")
	}
	return r, nil
}

// Analyze 实现 Analyzer，失败时切换到其他实例重试
func (r *Remote) Analyze(ctx context.Context, text string) (*Result, error) {
	start := time.Now()
	tried := make(map[*Instance]bool, len(r.instances))
	var lastErr error

	for i := 0; i < r.numRetries; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		instance := r.getAvailableInstance(tried)
		tried[instance] = true

		result, err := r.call(ctx, instance, text)
		if err != nil {
			r.handleAPIError(instance, err)
			lastErr = err
			logger.WarnString("AI", "Error", fmt.Sprintf(
				"请求失败 实例:%s 错误:%v", shortenURL(instance.URL), err))
			continue
		}

		instance.RequestCount.AddRequest()
		r.handleAPISuccess(instance)
		logger.DebugString("AI", "Success", fmt.Sprintf(
			"请求成功 实例:%s 耗时:%v 实体数:%d",
			shortenURL(instance.URL), time.Since(start), len(result.Entities)))
		return result, nil
	}

	return nil, fmt.Errorf("all retry attempts failed: %w", lastErr)
}

// call 调用单个实例的分析接口
func (r *Remote) call(ctx context.Context, instance *Instance, text string) (*Result, error) {
	resp, err := instance.Client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+instance.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(analyzeRequest{Text: text, User: "tagmind"}).
		Post(instance.URL + "/v1/analyze")
	if err != nil {
		return nil, fmt.Errorf("call analyze api: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("analyze api returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var body analyzeResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("unmarshal analyze response: %w", err)
	}
	if body.Sentiment == nil {
		return nil, errors.New("analyze response has no sentiment")
	}

	entities := body.Entities
	if entities == nil {
		entities = []Entity{}
	}
	return &Result{
		Sentiment: *body.Sentiment,
		Entities:  entities,
		Mock:      body.MockData,
	}, nil
}

// HealthCheck 至少有一个健康实例时返回 nil
func (r *Remote) HealthCheck(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lastErr error
	for _, instance := range r.instances {
		if instance.Health {
			return nil
		}
		if instance.LastErr != nil {
			lastErr = instance.LastErr
		}
	}
	if lastErr != nil {
		return fmt.Errorf("no healthy ai instance available: %w", lastErr)
	}
	return errors.New("no healthy ai instance available")
}

// GetHealthyInstanceCount 获取健康实例数量
func (r *Remote) GetHealthyInstanceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, instance := range r.instances {
		if instance.Health {
			count++
		}
	}
	return count
}

func (r *Remote) handleAPISuccess(instance *Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance.Health = true
	instance.ErrorCount = 0
	instance.LastUsed = time.Now()
	instance.LastErr = nil
}

func (r *Remote) handleAPIError(instance *Instance, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance.ErrorCount++
	instance.LastErr = err
	if instance.ErrorCount >= unhealthyThreshold && instance.Health {
		instance.Health = false
		logger.WarnString("AI", "Instance", fmt.Sprintf(
			"实例 %s 被标记为不健康: 连续 %d 次错误, 最后错误: %v",
			shortenURL(instance.URL), instance.ErrorCount, err))
	}
}

// getAvailableInstance 在本次未尝试过的健康实例中选择最近负载最低的
// 全部不可用时重置实例状态，从第一个重新开始
func (r *Remote) getAvailableInstance(tried map[*Instance]bool) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		selected *Instance
		minLoad  int
	)
	for _, instance := range r.instances {
		if !instance.Health || tried[instance] {
			continue
		}
		load := instance.RequestCount.GetRecentCount(5 * time.Minute)
		if selected == nil || load < minLoad {
			selected = instance
			minLoad = load
		}
	}
	if selected != nil {
		return selected
	}

	// 本次已尝试过全部健康实例时，优先复用仍健康的实例
	for _, instance := range r.instances {
		if instance.Health {
			return instance
		}
	}

	for _, instance := range r.instances {
		instance.Health = true
		instance.ErrorCount = 0
	}
	logger.InfoString("AI", "Reset", "已重置所有实例状态")
	return r.instances[0]
}

// shortenURL 缩短 URL 用于日志显示
func shortenURL(url string) string {
	if len(url) > 30 {
		return url[:15] + "..." + url[len(url)-12:]
	}
	return url
}
