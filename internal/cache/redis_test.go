package cache

import (
	"context"
	"testing"
	"time"

	"github.com/laundry-pos/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()
	if Enabled() || Client() != nil {
		t.Fatalf("disabled cache should not expose a client")
	}
	if err := SetJSON(ctx, "report:daily", map[string]int{"orders": 1}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should be ignored: %v", err)
	}
	var dest map[string]int
	hit, err := GetJSON(ctx, "report:daily", &dest)
	if err != nil || hit {
		t.Fatalf("get on disabled cache should miss, hit=%v err=%v", hit, err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping on disabled cache should succeed: %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	redisPrefix = "laundry"
	if got := buildKey(" report:daily "); got != "laundry:report:daily" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := buildKey(""); got != "laundry" {
		t.Fatalf("empty key should fall back to prefix, got %s", got)
	}
}
