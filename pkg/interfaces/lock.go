package interfaces

import (
	"context"
	"time"
)

// ReleaseFunc освобождает ранее захваченную блокировку
type ReleaseFunc func(ctx context.Context) error

// LockPort определяет интерфейс распределенной блокировки.
// Используется, чтобы два запуска синхронизации по расписанию не пересекались.
type LockPort interface {
	// Acquire пытается захватить блокировку на ttl.
	// Возвращает ok=false без ошибки, если блокировка уже занята.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release ReleaseFunc, ok bool, err error)

	// Close закрывает соединение с хранилищем блокировок
	Close() error
}
