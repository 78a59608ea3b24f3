// Package cache блокировка запусков на Redis и отчеты запусков в памяти.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock реализация LockPort на SET NX PX
type RedisLock struct {
	client *redis.Client
	prefix string
}

// NewRedisLock подключается к Redis и проверяет соединение
func NewRedisLock(ctx context.Context, host string, port int, password string, db int, prefix string) (*RedisLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Password:     password,
		DB:           db,
		PoolSize:     2,
		MaxRetries:   3,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLock{client: client, prefix: prefix}, nil
}

func (r *RedisLock) buildKey(key string) string {
	if r.prefix != "" {
		return r.prefix + ":" + key
	}
	return key
}

// Acquire захватывает блокировку key на ttl
func (r *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (interfaces.ReleaseFunc, bool, error) {
	fullKey := r.buildKey(key)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("ошибка захвата блокировки %s: %w", fullKey, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, r.client, []string{fullKey}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("ошибка снятия блокировки %s: %w", fullKey, err)
		}
		return nil
	}

	return release, true, nil
}

func (r *RedisLock) Close() error {
	return r.client.Close()
}
