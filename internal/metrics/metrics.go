// Package metrics метрики синхронизации для Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Metrics коллекторы одного реестра
type Metrics struct {
	gatherer prometheus.Gatherer

	batches        *prometheus.CounterVec
	entries        *prometheus.CounterVec
	targetDuration *prometheus.HistogramVec
	targetErrors   *prometheus.CounterVec
	inStock        *prometheus.GaugeVec
	lastSuccess    *prometheus.GaugeVec
	runs           *prometheus.CounterVec
}

// New регистрирует коллекторы в reg
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksync_batches_total",
			Help: "Количество отправленных пакетов",
		}, []string{"target", "kind", "status"}),
		entries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksync_entries_total",
			Help: "Количество позиций в отправленных пакетах",
		}, []string{"target", "kind"}),
		targetDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stocksync_target_duration_seconds",
			Help:    "Длительность синхронизации одной цели",
			Buckets: prometheus.DefBuckets,
		}, []string{"target"}),
		targetErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksync_target_errors_total",
			Help: "Ошибки синхронизации целей по видам",
		}, []string{"target", "kind"}),
		inStock: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stocksync_in_stock_items",
			Help: "Количество товаров с ненулевым остатком после последней синхронизации",
		}, []string{"target"}),
		lastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stocksync_last_success_timestamp",
			Help: "Время последней успешной синхронизации цели (unix)",
		}, []string{"target"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksync_runs_total",
			Help: "Количество запусков синхронизации",
		}, []string{"status"}),
	}
}

// Gatherer реестр для promhttp и pushgateway
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// ObserveStep учитывает один шаг загрузки
func (m *Metrics) ObserveStep(target string, result models.StepResult) {
	if m == nil {
		return
	}

	status := StatusSuccess
	switch {
	case result.Skipped:
		status = StatusSkipped
	case result.Error != "":
		status = StatusError
	}

	m.batches.WithLabelValues(target, string(result.Kind), status).Inc()
	if status == StatusSuccess {
		m.entries.WithLabelValues(target, string(result.Kind)).Add(float64(result.Size))
	}
}

// ObserveTarget учитывает итог цели
func (m *Metrics) ObserveTarget(report *models.TargetReport, finishedAt time.Time) {
	if m == nil {
		return
	}

	m.targetDuration.WithLabelValues(report.Target).Observe(report.Duration.Seconds())
	if report.Failed() {
		m.targetErrors.WithLabelValues(report.Target, report.ErrorKind).Inc()
		return
	}
	m.inStock.WithLabelValues(report.Target).Set(float64(len(report.InStock)))
	m.lastSuccess.WithLabelValues(report.Target).Set(float64(finishedAt.Unix()))
}

// ObserveRun учитывает запуск целиком
func (m *Metrics) ObserveRun(report *models.RunReport) {
	if m == nil {
		return
	}

	status := StatusSuccess
	if !report.Success() {
		status = StatusError
	}
	m.runs.WithLabelValues(status).Inc()
}

// Push отправляет метрики в Pushgateway
func (m *Metrics) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(m.gatherer).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
