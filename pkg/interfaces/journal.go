package interfaces

import (
	"context"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
)

// RunJournalPort журнал запусков синхронизации.
// Только запись: следующий запуск журнал не читает.
type RunJournalPort interface {
	// SaveRun сохраняет отчет о запуске вместе с шагами всех целей
	SaveRun(ctx context.Context, report *models.RunReport) error

	Close() error
}
