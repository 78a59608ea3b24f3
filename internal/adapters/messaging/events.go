package messaging

// Служебные заголовки сообщений о синхронизации
const (
	HeaderMessageID = "message_id"
	HeaderTimestamp = "timestamp"
	HeaderRunID     = "run_id"
)
