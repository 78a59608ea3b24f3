package interfaces

import "context"

// EventPublisher публикует события синхронизации во внешнюю шину
type EventPublisher interface {
	// Publish отправляет сообщение в тему topic с ключом key
	Publish(ctx context.Context, topic string, key string, message []byte) error

	// Close дожидается доставки и закрывает соединение
	Close() error
}
