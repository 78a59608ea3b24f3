package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athebyme/gomarket-stocksync/config"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/cache"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/athebyme/gomarket-stocksync/internal/api"
	"github.com/athebyme/gomarket-stocksync/internal/app"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/internal/security"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/robfig/cron/v3"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.ENV == "production")
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Инициализация сервиса",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Ошибка инициализации зависимостей", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer a.Close()

	reports := cache.NewReportStore(cfg.Cache.ReportTTL)

	var jwtManager *security.JWTManager
	if cfg.Security.JWTSecret != "" {
		jwtManager, err = security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer)
		if err != nil {
			log.Fatal("Ошибка инициализации JWT", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	} else {
		log.Warn("JWT секрет не задан, запуск синхронизации доступен без авторизации")
	}

	deps := api.RouterDeps{
		Runner:  a.Service,
		Reports: reports,
		Logger:  log,
		JWT:     jwtManager,

		SyncRateLimit: cfg.API.RateLimit,
		SyncRateBurst: cfg.API.RateBurst,
	}
	if cfg.Metrics.Enabled {
		deps.Gatherer = a.Metrics.Gatherer()
	}
	router := api.SetupRouter(deps)
	log.Info("Маршрутизатор настроен")

	var scheduler *cron.Cron
	if cfg.Sync.Schedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Sync.Schedule, func() {
			runScheduled(ctx, a, reports, cfg.Sync.RunTimeout, log)
		})
		if err != nil {
			log.Fatal("Некорректное расписание синхронизации",
				interfaces.LogField{Key: "schedule", Value: cfg.Sync.Schedule},
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		scheduler.Start()
		log.Info("Расписание синхронизации включено",
			interfaces.LogField{Key: "schedule", Value: cfg.Sync.Schedule})
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", interfaces.LogField{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка при graceful shutdown", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		log.Info("HTTP сервер остановлен")

		if scheduler != nil {
			// ждем текущий запуск по расписанию
			<-scheduler.Stop().Done()
		}
		cancel()

		close(done)
	}()

	<-done
	log.Info("Сервер корректно завершил работу")
}

// runScheduled запуск по расписанию; пересечение с ручным запуском отклоняется сервисом
func runScheduled(ctx context.Context, a *app.App, reports *cache.ReportStore, timeout time.Duration, log interfaces.LoggerPort) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report, err := a.Service.Run(ctx)
	if errors.Is(err, models.ErrRunInProgress) {
		log.Warn("Синхронизация уже выполняется, запуск по расписанию пропущен")
		return
	}
	if report != nil {
		reports.Save(report)
	}
	if err != nil {
		log.Error("Запуск по расписанию завершился с ошибками",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}
