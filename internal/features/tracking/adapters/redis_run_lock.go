package adapter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/tracking/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisRunLock is a ports.RunLock backed by SET NX with a TTL. While held, the
// TTL is refreshed every third of its length so a batch running longer than
// ttl keeps the lock; a crashed holder loses it after at most ttl.
type RedisRunLock struct {
	cache cache.Cache
	key   string
}

// NewRedisRunLock creates a lock stored under key.
func NewRedisRunLock(c cache.Cache, key string) *RedisRunLock {
	return &RedisRunLock{cache: c, key: key}
}

// Acquire implements ports.RunLock.
func (l *RedisRunLock) Acquire(ctx context.Context, ttl time.Duration) (func(context.Context) error, error) {
	token := []byte(uuid.NewString())

	ok, err := l.cache.SetNX(ctx, l.key, token, ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrLockHeld, l.key)
	}

	keepCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.keepAlive(keepCtx, token, ttl)
	}()

	return func(ctx context.Context) error {
		stop()
		wg.Wait()
		// A false result means the lock expired and may belong to another runner.
		_, err := l.cache.CompareAndDelete(ctx, l.key, token)
		return err
	}, nil
}

func (l *RedisRunLock) keepAlive(ctx context.Context, token []byte, ttl time.Duration) {
	interval := ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := l.cache.CompareAndExpire(ctx, l.key, token, ttl)
			if err != nil {
				logger.Named("run_lock").Warn("Failed to refresh run lock", zap.String("key", l.key), zap.Error(err))
				continue
			}
			if !ok {
				logger.Named("run_lock").Warn("Run lock lost before release", zap.String("key", l.key))
				return
			}
		}
	}
}
