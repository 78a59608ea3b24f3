package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/internal/metrics"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	EventTargetCompleted = models.EventStockSyncCompleted
	EventTargetFailed    = models.EventStockSyncFailed

	DefaultLockKey     = "stocksync:run"
	DefaultLockTTL     = 30 * time.Minute
	DefaultEventsTopic = "stocksync.events"
)

// FeedFetcher источник прайса поставщика
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]models.SupplierRecord, error)
}

// Target цель синхронизации: маркетплейс или кампания маркетплейса
type Target interface {
	Name() string
	ListOfferIDs(ctx context.Context) ([]string, error)
	// Plan строит записи и упорядоченные шаги загрузки: сначала остатки, затем цены
	Plan(records []models.SupplierRecord, offerIDs []string) (*models.Plan, error)
}

// Options поведение запуска
type Options struct {
	// ContinueWithinTarget продолжать загрузку пакетов цели после ошибки
	ContinueWithinTarget bool
	// StopOnTargetError не переходить к следующей цели после ошибки
	StopOnTargetError bool
	// DryRun строить пакеты, но не отправлять их
	DryRun bool

	LockKey     string
	LockTTL     time.Duration
	EventsTopic string
}

// Option дополнительная зависимость сервиса
type Option func(*SyncService)

// WithLock распределенная блокировка запусков
func WithLock(lock interfaces.LockPort) Option {
	return func(s *SyncService) { s.lock = lock }
}

// WithPublisher публикация событий по целям
func WithPublisher(publisher interfaces.EventPublisher) Option {
	return func(s *SyncService) { s.publisher = publisher }
}

// WithJournal журнал запусков
func WithJournal(journal interfaces.RunJournalPort) Option {
	return func(s *SyncService) { s.journal = journal }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SyncService) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *SyncService) { s.now = now }
}

// SyncService синхронизирует прайс поставщика с целями по очереди
type SyncService struct {
	feed    FeedFetcher
	targets []Target
	log     interfaces.LoggerPort
	opts    Options

	lock      interfaces.LockPort
	publisher interfaces.EventPublisher
	journal   interfaces.RunJournalPort
	metrics   *metrics.Metrics
	now       func() time.Time

	running sync.Mutex
}

// NewSyncService создает сервис синхронизации
func NewSyncService(feed FeedFetcher, targets []Target, log interfaces.LoggerPort, opts Options, options ...Option) *SyncService {
	if opts.LockKey == "" {
		opts.LockKey = DefaultLockKey
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = DefaultLockTTL
	}
	if opts.EventsTopic == "" {
		opts.EventsTopic = DefaultEventsTopic
	}

	s := &SyncService{
		feed:    feed,
		targets: targets,
		log:     log,
		opts:    opts,
		now:     time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Targets имена целей в порядке синхронизации
func (s *SyncService) Targets() []string {
	names := make([]string, len(s.targets))
	for i, t := range s.targets {
		names[i] = t.Name()
	}
	return names
}

// Run выполняет один запуск синхронизации.
// Отчет возвращается и при ошибках целей; ошибка объединяет ошибки всех целей.
// Если запуск уже идет, возвращается ErrRunInProgress и nil отчет.
func (s *SyncService) Run(ctx context.Context) (*models.RunReport, error) {
	if !s.running.TryLock() {
		return nil, models.ErrRunInProgress
	}
	defer s.running.Unlock()

	if s.lock != nil {
		release, ok, err := s.lock.Acquire(ctx, s.opts.LockKey, s.opts.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, models.ErrRunInProgress
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("Не удалось снять блокировку запуска",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()
	}

	report := &models.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now().UTC(),
		DryRun:    s.opts.DryRun,
		Targets:   make([]models.TargetReport, 0, len(s.targets)),
	}
	ctx = context.WithValue(ctx, logger.RunIDKey, report.RunID)

	s.log.InfoWithContext(ctx, "Запуск синхронизации",
		interfaces.LogField{Key: "targets", Value: s.Targets()},
		interfaces.LogField{Key: "dry_run", Value: s.opts.DryRun})

	feed := &feedLoader{fetcher: s.feed}
	var errs []error

	for _, target := range s.targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("run interrupted: %w", err))
			break
		}

		targetReport, err := s.syncTarget(ctx, report.RunID, target, feed)
		report.Targets = append(report.Targets, targetReport)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", target.Name(), err))
			if s.opts.StopOnTargetError {
				break
			}
		}
	}

	report.SupplierRecords = len(feed.records)
	report.FinishedAt = s.now().UTC()

	s.metrics.ObserveRun(report)
	s.saveJournal(ctx, report)

	s.log.InfoWithContext(ctx, "Синхронизация завершена",
		interfaces.LogField{Key: "success", Value: report.Success()},
		interfaces.LogField{Key: "supplier_records", Value: report.SupplierRecords},
		interfaces.LogField{Key: "duration", Value: report.FinishedAt.Sub(report.StartedAt).String()})

	return report, errors.Join(errs...)
}

func (s *SyncService) syncTarget(ctx context.Context, runID string, target Target, feed *feedLoader) (models.TargetReport, error) {
	name := target.Name()
	ctx = context.WithValue(ctx, logger.TargetKey, name)

	started := s.now()
	report := models.TargetReport{Target: name, StartedAt: started.UTC()}

	s.log.InfoWithContext(ctx, "Синхронизация цели")

	err := s.runTarget(ctx, target, feed, &report)
	finished := s.now()
	report.Duration = finished.Sub(started)

	if err != nil {
		report.Error = err.Error()
		report.ErrorKind = ClassifyError(err)
		s.log.ErrorWithContext(ctx, "Ошибка синхронизации цели",
			interfaces.LogField{Key: "error", Value: report.Error},
			interfaces.LogField{Key: "error_kind", Value: report.ErrorKind})
	} else {
		s.log.InfoWithContext(ctx, "Цель синхронизирована",
			interfaces.LogField{Key: "offer_ids", Value: report.OfferIDs},
			interfaces.LogField{Key: "stocks", Value: report.Stocks},
			interfaces.LogField{Key: "in_stock", Value: len(report.InStock)},
			interfaces.LogField{Key: "prices", Value: report.Prices},
			interfaces.LogField{Key: "skipped_prices", Value: report.SkippedPrices})
	}

	s.metrics.ObserveTarget(&report, finished)
	s.publish(ctx, runID, &report, finished)

	return report, err
}

func (s *SyncService) runTarget(ctx context.Context, target Target, feed *feedLoader, report *models.TargetReport) error {
	offerIDs, err := target.ListOfferIDs(ctx)
	if err != nil {
		return fmt.Errorf("list offer ids: %w", err)
	}
	report.OfferIDs = len(offerIDs)

	records, err := feed.load(ctx)
	if err != nil {
		return fmt.Errorf("fetch supplier feed: %w", err)
	}

	plan, err := target.Plan(records, offerIDs)
	if err != nil {
		return fmt.Errorf("build entries: %w", err)
	}
	report.Stocks = len(plan.Stocks)
	report.InStock = plan.InStock
	report.Prices = len(plan.Prices)
	report.SkippedPrices = plan.SkippedPrices

	return s.runSteps(ctx, plan.Steps, report)
}

// runSteps выполняет шаги строго по очереди. Отправленные пакеты не откатываются.
func (s *SyncService) runSteps(ctx context.Context, steps []models.UploadStep, report *models.TargetReport) error {
	var (
		errs   []error
		failed bool
	)
	report.Steps = make([]models.StepResult, 0, len(steps))

	for _, step := range steps {
		result := models.StepResult{Kind: step.Kind, Index: step.Index, Size: step.Size}
		fields := []interface{}{
			interfaces.LogField{Key: "kind", Value: string(step.Kind)},
			interfaces.LogField{Key: "batch", Value: step.Index},
			interfaces.LogField{Key: "size", Value: step.Size},
		}

		switch {
		case s.opts.DryRun:
			result.Skipped = true
			s.log.DebugWithContext(ctx, "Пакет не отправлен: пробный запуск", fields...)
		case failed && !s.opts.ContinueWithinTarget:
			result.Skipped = true
		default:
			started := s.now()
			err := step.Run(ctx)
			result.Duration = s.now().Sub(started)

			if err != nil {
				failed = true
				result.Error = err.Error()
				errs = append(errs, fmt.Errorf("%s batch %d: %w", step.Kind, step.Index, err))
				s.log.ErrorWithContext(ctx, "Ошибка отправки пакета",
					append(fields, interfaces.LogField{Key: "error", Value: result.Error})...)
			} else {
				s.log.InfoWithContext(ctx, "Пакет отправлен", fields...)
			}
		}

		report.Steps = append(report.Steps, result)
		s.metrics.ObserveStep(report.Target, result)
	}

	return errors.Join(errs...)
}

func (s *SyncService) publish(ctx context.Context, runID string, report *models.TargetReport, at time.Time) {
	if s.publisher == nil {
		return
	}

	event := models.TargetEvent{
		EventType: EventTargetCompleted,
		RunID:     runID,
		Target:    report.Target,
		Stocks:    report.Stocks,
		InStock:   len(report.InStock),
		Prices:    report.Prices,
		Error:     report.Error,
		ErrorKind: report.ErrorKind,
		At:        at.UTC(),
	}
	if report.Failed() {
		event.EventType = EventTargetFailed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.ErrorWithContext(ctx, "Ошибка сериализации события",
			interfaces.LogField{Key: "error", Value: err.Error()})
		return
	}

	if err := s.publisher.Publish(ctx, s.opts.EventsTopic, report.Target, payload); err != nil {
		s.log.WarnWithContext(ctx, "Не удалось опубликовать событие",
			interfaces.LogField{Key: "topic", Value: s.opts.EventsTopic},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

func (s *SyncService) saveJournal(ctx context.Context, report *models.RunReport) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SaveRun(context.WithoutCancel(ctx), report); err != nil {
		s.log.WarnWithContext(ctx, "Не удалось записать запуск в журнал",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

// feedLoader скачивает прайс не больше одного раза за запуск.
// Ошибка первой попытки возвращается всем следующим целям.
type feedLoader struct {
	fetcher FeedFetcher
	records []models.SupplierRecord
	err     error
	done    bool
}

func (f *feedLoader) load(ctx context.Context) ([]models.SupplierRecord, error) {
	if !f.done {
		f.records, f.err = f.fetcher.Fetch(ctx)
		f.done = true
	}
	return f.records, f.err
}
