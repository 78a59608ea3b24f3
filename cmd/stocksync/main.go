package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/athebyme/gomarket-stocksync/config"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/athebyme/gomarket-stocksync/internal/app"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
)

// Однократный запуск синхронизации: Ozon, затем кампании Яндекс Маркета.
// Код выхода 1, если хотя бы одна цель завершилась ошибкой.
func main() {
	cfg, err := config.Load(os.Getenv("STOCKSYNC_CONFIG"))
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Некорректная конфигурация: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.ENV == "production")
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	log.Info("Инициализация синхронизации",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
		interfaces.LogField{Key: "targets", Value: cfg.EnabledTargets()},
		interfaces.LogField{Key: "dry_run", Value: cfg.Sync.DryRun},
	)

	code := run(cfg, log)
	_ = log.Sync()
	os.Exit(code)
}

func run(cfg *config.Config, log interfaces.LoggerPort) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sync.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Sync.RunTimeout)
		defer cancel()
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Ошибка инициализации зависимостей",
			interfaces.LogField{Key: "error", Value: err.Error()})
		return 1
	}
	defer a.Close()

	report, err := a.Service.Run(ctx)

	if cfg.Metrics.PushgatewayURL != "" {
		if pushErr := a.Metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); pushErr != nil {
			log.Warn("Не удалось отправить метрики в pushgateway",
				interfaces.LogField{Key: "error", Value: pushErr.Error()})
		}
	}

	if errors.Is(err, models.ErrRunInProgress) {
		log.Warn("Синхронизация уже выполняется, запуск пропущен")
		return 1
	}
	if report != nil {
		for _, target := range report.Targets {
			log.Info("Итог цели",
				interfaces.LogField{Key: "target", Value: target.Target},
				interfaces.LogField{Key: "stocks", Value: target.Stocks},
				interfaces.LogField{Key: "in_stock", Value: len(target.InStock)},
				interfaces.LogField{Key: "prices", Value: target.Prices},
				interfaces.LogField{Key: "skipped_prices", Value: target.SkippedPrices},
				interfaces.LogField{Key: "error", Value: target.Error},
			)
		}
	}
	if err != nil {
		log.Error("Синхронизация завершилась с ошибками",
			interfaces.LogField{Key: "error", Value: err.Error()})
		return 1
	}

	log.Info("Синхронизация завершена")
	return 0
}
