package router

import (
	"fmt"
	"strings"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int // 超限后的封禁时长，0 表示只等窗口过期
}

// KEYS[1] 计数 key，KEYS[2] 封禁 key；返回 {计数, 剩余秒数}，计数为 -1 表示处于封禁期
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local block = tonumber(ARGV[3])
if current > tonumber(ARGV[2]) and block > 0 then
	redis.call("SET", KEYS[2], "1", "EX", block)
	return {current, block}
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 频率限制中间件，未配置 Redis 时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}

		result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key, key + ":block"},
			rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Result()
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			response.Abort(c, response.CodeInternal, response.KindInternal, "rate limit unavailable")
			return
		}

		values, ok := result.([]interface{})
		if !ok || len(values) < 2 {
			response.Abort(c, response.CodeInternal, response.KindInternal, "rate limit unavailable")
			return
		}
		count, ok := toInt64(values[0])
		if !ok {
			response.Abort(c, response.CodeInternal, response.KindInternal, "rate limit unavailable")
			return
		}
		ttlSeconds, _ := toInt64(values[1])
		if count < 0 || count > int64(rule.MaxRequests) {
			response.Abort(c, response.CodeTooManyRequests, response.KindRateLimited,
				fmt.Sprintf("too many requests, retry in %d seconds", retryAfterSeconds(ttlSeconds, rule)))
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(ttlSeconds int64, rule RateLimitRule) int {
	wait := int(ttlSeconds)
	if wait < 1 {
		wait = rule.WindowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return wait
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByActorOrIP 已鉴权请求按操作人限流，否则按 IP
func KeyByActorOrIP(c *gin.Context) string {
	if actor := strings.TrimSpace(c.GetString(constants.ContextKeyActor)); actor != "" {
		return "actor:" + strings.ToLower(actor)
	}
	return "ip:" + c.ClientIP()
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
