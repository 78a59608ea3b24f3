package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaMessage(t *testing.T) {
	ctx := context.WithValue(context.Background(), logger.RunIDKey, "run-1")
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	msg := newKafkaMessage(ctx, "stocksync.events", "ozon", []byte(`{}`), now)

	require.NotNil(t, msg.TopicPartition.Topic)
	assert.Equal(t, "stocksync.events", *msg.TopicPartition.Topic)
	assert.Equal(t, []byte("ozon"), msg.Key)
	assert.Equal(t, []byte(`{}`), msg.Value)

	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.NotEmpty(t, headers[HeaderMessageID])
	assert.Equal(t, "2024-05-01T10:00:00Z", headers[HeaderTimestamp])
	assert.Equal(t, "run-1", headers[HeaderRunID])
}

func TestNewKafkaMessage_NoKeyNoRun(t *testing.T) {
	msg := newKafkaMessage(context.Background(), "t", "", []byte("x"), time.Now())

	assert.Nil(t, msg.Key)
	assert.Len(t, msg.Headers, 2)
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	p, err := NewKafkaPublisher(nil, "stocksync", logger.NewNopLogger())
	assert.ErrorIs(t, err, ErrNoBrokers)
	assert.Nil(t, p)
}
