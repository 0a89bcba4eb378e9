package middlewares

import (
	"sync"
	"time"

	"tagmind/pkg/app"
	"tagmind/pkg/limiter"
	"tagmind/pkg/logger"
	"tagmind/pkg/redis"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	// DefaultBurst 突发请求数量上限，周期内上限更小时以周期上限为准
	DefaultBurst = 100
	// idleLimiterTTL 超过该时间未使用的内存限流器会被清理
	idleLimiterTTL = 24 * time.Hour
)

// limiterEntry 内存限流器及最近访问时间
type limiterEntry struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (e *limiterEntry) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *limiterEntry) idleSince(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastSeen)
}

var (
	// 用于存储限流器的并发安全缓存
	limiters    sync.Map
	cleanupOnce sync.Once
)

// LimitIP 全局限流中间件，针对 IP 进行限流
//
// 支持的限流格式:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
//
// 启用 Redis 时计数保存在 Redis 中，多实例共享；否则使用进程内令牌桶
func LimitIP(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}
	return createLimiterHandler(limiter.GetKeyIP, limit)
}

// LimitPerRoute 针对单个路由的限流中间件，基于 IP + 路由路径
func LimitPerRoute(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}
	return createLimiterHandler(limiter.GetKeyRouteWithIP, limit)
}

func createLimiterHandler(keyFunc func(*gin.Context) string, limit string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		if redis.Enabled() {
			if ok := limitWithRedis(c, key, limit); !ok {
				return
			}
			c.Next()
			return
		}

		lim, err := getLimiter(key, limit)
		if err != nil {
			logger.ErrorString("限流器", "创建失败", err.Error())
			// 降级处理：允许请求通过
			c.Next()
			return
		}

		if !lim.Allow() {
			response.Abort429(c)
			return
		}

		c.Header("X-RateLimit-Limit", cast.ToString(float64(lim.Limit())))
		c.Header("X-RateLimit-Remaining", cast.ToString(int64(lim.Tokens())))
		c.Next()
	}
}

// limitWithRedis 使用 Redis 计数，返回 false 表示已中断请求
func limitWithRedis(c *gin.Context, key, limit string) bool {
	result, err := limiter.CheckRate(c, key, limit)
	if err != nil {
		logger.LogIf(err)
		// Redis 异常时放行，避免限流组件影响主流程
		return true
	}

	c.Header("X-RateLimit-Limit", cast.ToString(result.Limit))
	c.Header("X-RateLimit-Remaining", cast.ToString(result.Remaining))
	c.Header("X-RateLimit-Reset", cast.ToString(result.Reset))

	if result.Reached {
		response.Abort429(c)
		return false
	}
	return true
}

// getLimiter 获取或创建内存限流器
func getLimiter(key, limit string) (*rate.Limiter, error) {
	cleanupOnce.Do(func() {
		go cleanupLimiters()
	})

	now := time.Now()
	cacheKey := limit + "|" + key
	if v, ok := limiters.Load(cacheKey); ok {
		entry := v.(*limiterEntry)
		entry.touch(now)
		return entry.limiter, nil
	}

	r, err := limiter.ParseLimit(limit)
	if err != nil {
		return nil, err
	}
	entry := &limiterEntry{
		limiter:  rate.NewLimiter(rate.Limit(r.Rate), int(min(r.Limit, DefaultBurst))),
		lastSeen: now,
	}
	actual, _ := limiters.LoadOrStore(cacheKey, entry)
	return actual.(*limiterEntry).limiter, nil
}

// cleanupLimiters 定期清理长时间未使用的限流器
func cleanupLimiters() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for now := range ticker.C {
		limiters.Range(func(key, value interface{}) bool {
			if value.(*limiterEntry).idleSince(now) > idleLimiterTTL {
				limiters.Delete(key)
			}
			return true
		})
	}
}
