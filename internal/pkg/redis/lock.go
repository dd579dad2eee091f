package redis

import (
	"context"
	log "log/slog"
	"time"
)

// DistLock 面向业务层的锁实现，Redis 未初始化时退化为不加锁
type DistLock struct{}

func NewDistLock() *DistLock {
	return &DistLock{}
}

func (s *DistLock) TryLock(ctx context.Context, key string, value string, expiration time.Duration, retryTimes int) (bool, error) {
	if Rdb == nil {
		return true, nil
	}
	ok, err := TryLock(ctx, key, value, expiration, retryTimes)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		// 锁只用于削减重复调用，Redis 故障时放行，唯一索引兜底
		log.WarnContext(ctx, "redis lock unavailable, continue without lock", "key", key, "err", err)
		return true, nil
	}
	return ok, nil
}

func (s *DistLock) UnLock(ctx context.Context, key string, value string) {
	if Rdb == nil {
		return
	}
	UnLock(ctx, key, value)
}
