package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotObtained 锁已被其他请求持有
var ErrLockNotObtained = errors.New("lock not obtained")

var locker *redislock.Client

func initLocker(client *redis.Client) {
	if client == nil {
		locker = nil
		return
	}
	locker = redislock.New(client)
}

// Obtain 获取分布式锁，Redis 未启用时返回空操作的释放函数
func Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if !Enabled() || locker == nil {
		return func() {}, nil
	}
	lock, err := locker.Obtain(ctx, buildKey("lock:"+key), ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
