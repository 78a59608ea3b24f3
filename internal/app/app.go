// Package app собирает сервис синхронизации из конфигурации.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/athebyme/gomarket-stocksync/config"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/cache"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/marketplace"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/marketplace/ozon"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/marketplace/yandex"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/messaging"
	postgres "github.com/athebyme/gomarket-stocksync/internal/adapters/storage"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/supplier"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/internal/domain/services"
	"github.com/athebyme/gomarket-stocksync/internal/metrics"
	"github.com/athebyme/gomarket-stocksync/internal/utils"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App собранный сервис и его внешние зависимости
type App struct {
	Service *services.SyncService
	Metrics *metrics.Metrics

	log     interfaces.LoggerPort
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// New создает сервис. Redis, Kafka и PostgreSQL подключаются, только если включены.
func New(ctx context.Context, cfg *config.Config, log interfaces.LoggerPort) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &App{
		Metrics: metrics.New(reg),
		log:     log,
	}

	options := []services.Option{services.WithMetrics(a.Metrics)}

	if cfg.Redis.Enabled {
		lock, err := cache.NewRedisLock(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis lock: %w", err)
		}
		a.addCloser("redis", lock.Close)
		options = append(options, services.WithLock(lock))
		log.Info("Блокировка запусков в Redis включена")
	}

	if cfg.Kafka.Enabled {
		publisher, err := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.ClientID, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		a.addCloser("kafka", publisher.Close)
		options = append(options, services.WithPublisher(publisher))
		log.Info("Публикация событий в Kafka включена",
			interfaces.LogField{Key: "topic", Value: cfg.Kafka.Topic})
	}

	if cfg.Postgres.Enabled {
		journal, err := newJournal(ctx, cfg, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.addCloser("postgres", journal.Close)
		options = append(options, services.WithJournal(journal))
		log.Info("Журнал запусков в PostgreSQL включен")
	}

	feed := supplier.NewFetcher(feedConfig(cfg), &http.Client{Timeout: cfg.Feed.Timeout}, supplier.NewXLSReader(cfg.Feed.Charset), log)

	a.Service = services.NewSyncService(feed, BuildTargets(cfg), log, services.Options{
		ContinueWithinTarget: cfg.Sync.ContinueWithinTarget,
		StopOnTargetError:    !cfg.Sync.ContinueOnError,
		DryRun:               cfg.Sync.DryRun,
		LockKey:              cfg.Sync.LockKey,
		LockTTL:              cfg.Sync.LockTTL,
		EventsTopic:          cfg.Kafka.Topic,
	}, options...)

	return a, nil
}

func newJournal(ctx context.Context, cfg *config.Config, log interfaces.LoggerPort) (*postgres.RunJournal, error) {
	params := utils.PostgresParams{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
		PoolSize: cfg.Postgres.PoolSize,
		Timeout:  cfg.Postgres.Timeout,
	}

	if cfg.Postgres.Migrate {
		migrationURL, err := utils.GenerateMigrationURL(params)
		if err != nil {
			return nil, fmt.Errorf("postgres migration url: %w", err)
		}
		if err := postgres.Migrate(migrationURL); err != nil {
			return nil, err
		}
	}

	connectionStr, err := utils.GenerateConnectionString(params)
	if err != nil {
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}
	return postgres.NewRunJournal(ctx, connectionStr, log)
}

func feedConfig(cfg *config.Config) supplier.Config {
	headerRow := cfg.Feed.HeaderRow
	return supplier.Config{
		URL:        cfg.Feed.URL,
		FileName:   cfg.Feed.FileName,
		ExtractDir: cfg.Feed.ExtractDir,
		HeaderRow:  &headerRow,
		Columns: models.Columns{
			Code:     cfg.Feed.CodeColumn,
			Quantity: cfg.Feed.QuantityColumn,
			Price:    cfg.Feed.PriceColumn,
		},
	}
}

func httpConfig(cfg *config.Config, baseURL, host string) marketplace.Config {
	return marketplace.Config{
		BaseURL:   baseURL,
		Host:      host,
		Timeout:   cfg.HTTP.Timeout,
		RateLimit: cfg.HTTP.RateLimit,
		RateBurst: cfg.HTTP.RateBurst,
		UserAgent: cfg.HTTP.UserAgent,
	}
}

// BuildTargets цели в порядке синхронизации: Ozon, затем кампании FBS и DBS
func BuildTargets(cfg *config.Config) []services.Target {
	var targets []services.Target

	if cfg.Ozon.Enabled {
		client := ozon.NewClient(ozon.Config{
			ClientID:  cfg.Ozon.ClientID,
			APIKey:    cfg.Ozon.APIKey,
			PageLimit: cfg.Ozon.PageLimit,
			HTTP:      httpConfig(cfg, cfg.Ozon.BaseURL, ""),
		})
		targets = append(targets, ozon.NewTarget(client, cfg.Ozon.StockBatchSize, cfg.Ozon.PriceBatchSize))
	}

	if cfg.Yandex.Enabled && (cfg.Yandex.FBS.Enabled || cfg.Yandex.DBS.Enabled) {
		client := yandex.NewClient(yandex.Config{
			Token:    cfg.Yandex.Token,
			PageSize: cfg.Yandex.PageSize,
			HTTP:     httpConfig(cfg, cfg.Yandex.BaseURL, cfg.Yandex.Host),
		})

		campaigns := []struct {
			name string
			cfg  config.Campaign
		}{
			{"fbs", cfg.Yandex.FBS},
			{"dbs", cfg.Yandex.DBS},
		}
		for _, c := range campaigns {
			if !c.cfg.Enabled {
				continue
			}
			campaign := yandex.Campaign{Name: c.name, ID: c.cfg.CampaignID, WarehouseID: c.cfg.WarehouseID}
			targets = append(targets, yandex.NewTarget(client, campaign, cfg.Yandex.StockBatchSize, cfg.Yandex.PriceBatchSize))
		}
	}

	return targets
}

func (a *App) addCloser(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// Close закрывает зависимости в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.log.Error("Ошибка при закрытии зависимости",
				interfaces.LogField{Key: "dependency", Value: c.name},
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}
	a.closers = nil
}
