package interfaces

import "context"

// LogField поле структурированного лога
type LogField struct {
	Key   string
	Value interface{}
}

// LoggerPort порт логирования. В args допускаются LogField и пары ключ-значение.
type LoggerPort interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	// Fatal пишет сообщение и завершает процесс
	Fatal(msg string, args ...interface{})

	// *WithContext добавляют run_id, target и request_id из контекста
	DebugWithContext(ctx context.Context, msg string, args ...interface{})
	InfoWithContext(ctx context.Context, msg string, args ...interface{})
	WarnWithContext(ctx context.Context, msg string, args ...interface{})
	ErrorWithContext(ctx context.Context, msg string, args ...interface{})

	WithFields(fields ...LogField) LoggerPort

	// Sync сбрасывает буферы перед выходом
	Sync() error
}
