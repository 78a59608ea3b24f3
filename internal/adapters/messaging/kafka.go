// Package messaging публикация событий синхронизации в Kafka.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
)

const flushTimeoutMs = 15 * 1000

// ErrNoBrokers список брокеров пуст
var ErrNoBrokers = errors.New("kafka brokers are empty")

// KafkaPublisher реализация EventPublisher с использованием Kafka
type KafkaPublisher struct {
	producer *kafka.Producer
	log      interfaces.LoggerPort
}

// NewKafkaPublisher создает producer для списка брокеров
func NewKafkaPublisher(brokers []string, clientID string, log interfaces.LoggerPort) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": strings.Join(brokers, ","),
		"client.id":         clientID,
		"acks":              "all",
		"retries":           5,
		"retry.backoff.ms":  500,
		"linger.ms":         10,
		"message.max.bytes": 1000000,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Kafka producer: %w", err)
	}

	return &KafkaPublisher{
		producer: producer,
		log:      log.WithFields(interfaces.LogField{Key: "component", Value: "kafka"}),
	}, nil
}

// newKafkaMessage собирает kafka.Message со служебными заголовками
func newKafkaMessage(ctx context.Context, topic, key string, message []byte, now time.Time) *kafka.Message {
	headers := []kafka.Header{
		{Key: HeaderMessageID, Value: []byte(uuid.NewString())},
		{Key: HeaderTimestamp, Value: []byte(now.UTC().Format(time.RFC3339Nano))},
	}
	if runID, ok := ctx.Value(logger.RunIDKey).(string); ok && runID != "" {
		headers = append(headers, kafka.Header{Key: HeaderRunID, Value: []byte(runID)})
	}

	var keyBytes []byte
	if key != "" {
		keyBytes = []byte(key)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          message,
		Key:            keyBytes,
		Headers:        headers,
	}
}

// Publish отправляет сообщение и ждет подтверждения доставки
func (k *KafkaPublisher) Publish(ctx context.Context, topic string, key string, message []byte) error {
	delivery := make(chan kafka.Event, 1)

	if err := k.producer.Produce(newKafkaMessage(ctx, topic, key, message, time.Now()), delivery); err != nil {
		return fmt.Errorf("ошибка отправки сообщения в %s: %w", topic, err)
	}

	select {
	case e := <-delivery:
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("сообщение в %s не доставлено: %w", topic, m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close дожидается отправки буфера и закрывает producer
func (k *KafkaPublisher) Close() error {
	if remaining := k.producer.Flush(flushTimeoutMs); remaining > 0 {
		k.log.Warn("Не все сообщения отправлены в Kafka",
			interfaces.LogField{Key: "remaining", Value: remaining})
	}
	k.producer.Close()
	return nil
}
