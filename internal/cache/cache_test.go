package cache

import (
	"context"
	"testing"
	"time"

	"github.com/desbrava-pizza/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	if err := SetJSON(ctx, "relatorio:x", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("set should be a no-op: %v", err)
	}
	var dest map[string]int
	if hit, err := GetJSON(ctx, "relatorio:x", &dest); hit || err != nil {
		t.Fatalf("get should miss: %v %v", hit, err)
	}
	if n, err := DelByPrefix(ctx, "relatorio:"); n != 0 || err != nil {
		t.Fatalf("del by prefix should be a no-op: %d %v", n, err)
	}
	release, err := Obtain(ctx, "retirada:1", time.Second)
	if err != nil || release == nil {
		t.Fatalf("lock without redis should succeed: %v", err)
	}
	release()
}

func TestBuildKey(t *testing.T) {
	redisPrefix = "dp"
	if got := buildKey(" auth:admin:1 "); got != "dp:auth:admin:1" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := buildKey(""); got != "dp" {
		t.Fatalf("empty key should be the prefix, got %s", got)
	}
}
