package models

import "time"

// StepResult итог одного шага загрузки
type StepResult struct {
	Kind     StepKind      `json:"kind"`
	Index    int           `json:"index"`
	Size     int           `json:"size"`
	Duration time.Duration `json:"duration"`
	Skipped  bool          `json:"skipped,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// TargetReport итог синхронизации одной цели (маркетплейс или кампания)
type TargetReport struct {
	Target        string        `json:"target"`
	OfferIDs      int           `json:"offer_ids"`
	Stocks        int           `json:"stocks"`
	InStock       []StockLevel  `json:"in_stock,omitempty"`
	Prices        int           `json:"prices"`
	SkippedPrices int           `json:"skipped_prices"`
	Steps         []StepResult  `json:"steps"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	Error         string        `json:"error,omitempty"`
	ErrorKind     string        `json:"error_kind,omitempty"`
}

// Failed true, если цель завершилась ошибкой
func (r *TargetReport) Failed() bool {
	return r.Error != ""
}

// RunReport итог одного запуска синхронизации
type RunReport struct {
	RunID           string         `json:"run_id"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	SupplierRecords int            `json:"supplier_records"`
	DryRun          bool           `json:"dry_run"`
	Targets         []TargetReport `json:"targets"`
}

// Success true, если все цели отработали без ошибок
func (r *RunReport) Success() bool {
	for i := range r.Targets {
		if r.Targets[i].Failed() {
			return false
		}
	}
	return true
}

// Типы событий о цели
const (
	EventStockSyncCompleted = "stock_sync_completed"
	EventStockSyncFailed    = "stock_sync_failed"
)

// TargetEvent событие о завершении синхронизации цели, публикуется в шину
type TargetEvent struct {
	EventType string    `json:"event_type"`
	RunID     string    `json:"run_id"`
	Target    string    `json:"target"`
	Stocks    int       `json:"stocks"`
	InStock   int       `json:"in_stock"`
	Prices    int       `json:"prices"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	At        time.Time `json:"at"`
}
