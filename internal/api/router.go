package api

import (
	"net/http"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/cache"
	_ "github.com/athebyme/gomarket-stocksync/internal/api/docs"
	"github.com/athebyme/gomarket-stocksync/internal/api/handlers"
	"github.com/athebyme/gomarket-stocksync/internal/api/middleware"
	"github.com/athebyme/gomarket-stocksync/internal/security"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Ограничение POST /api/v1/sync, если в RouterDeps не задано иное.
// Запуск длится минуты, поэтому частые повторы отсекаются до постановки в очередь.
const (
	DefaultSyncRateLimit = 1
	DefaultSyncRateBurst = 2
)

// RouterDeps зависимости маршрутизатора
type RouterDeps struct {
	Runner  handlers.SyncRunner
	Reports *cache.ReportStore
	Logger  interfaces.LoggerPort
	// JWT nil отключает проверку токена
	JWT      *security.JWTManager
	Gatherer prometheus.Gatherer
	// SyncRateLimit запусков в секунду, 0 означает DefaultSyncRateLimit
	SyncRateLimit float64
	SyncRateBurst int
}

// SetupRouter настраивает маршрутизатор
func SetupRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger документация
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	rateLimit, rateBurst := deps.SyncRateLimit, deps.SyncRateBurst
	if rateLimit <= 0 {
		rateLimit = DefaultSyncRateLimit
	}
	if rateBurst <= 0 {
		rateBurst = DefaultSyncRateBurst
	}

	syncHandler := handlers.NewSyncHandler(deps.Runner, deps.Reports, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/targets", syncHandler.ListTargets)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/last", syncHandler.LastRun)
			r.Get("/{id}", syncHandler.GetRun)
		})

		r.With(
			middleware.RateLimit(rateLimit, rateBurst),
			middleware.JWTAuth(deps.JWT, security.RoleSync, deps.Logger),
		).Post("/sync", syncHandler.RunSync)
	})

	return r
}
