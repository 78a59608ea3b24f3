package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/cache"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// SyncRunner запускает синхронизацию
type SyncRunner interface {
	Run(ctx context.Context) (*models.RunReport, error)
	Targets() []string
}

// SyncHandler обработчик запросов запуска синхронизации
type SyncHandler struct {
	runner  SyncRunner
	reports *cache.ReportStore
	logger  interfaces.LoggerPort
}

// NewSyncHandler создает новый обработчик
func NewSyncHandler(runner SyncRunner, reports *cache.ReportStore, logger interfaces.LoggerPort) *SyncHandler {
	return &SyncHandler{
		runner:  runner,
		reports: reports,
		logger:  logger,
	}
}

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// response представляет структуру успешного ответа
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type runMeta struct {
	Error string `json:"error,omitempty"`
}

// RunSync запускает синхронизацию и ждет ее завершения.
// Ошибки целей не меняют статус ответа: итог в поле success и в отчете.
func (h *SyncHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	// запуск не должен прерываться, если клиент отключился
	report, err := h.runner.Run(context.WithoutCancel(r.Context()))
	if errors.Is(err, models.ErrRunInProgress) {
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, errorResponse{
			Error:   "conflict",
			Code:    http.StatusConflict,
			Message: "синхронизация уже выполняется",
		})
		return
	}
	if report == nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка запуска синхронизации",
			interfaces.LogField{Key: "error", Value: errString(err)})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: errString(err),
		})
		return
	}

	h.reports.Save(report)

	resp := response{Success: report.Success(), Data: report}
	if err != nil {
		resp.Meta = runMeta{Error: err.Error()}
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// LastRun возвращает отчет последнего запуска
func (h *SyncHandler) LastRun(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reports.Last()
	if !ok {
		h.notFound(w, r, "запусков еще не было")
		return
	}
	render.JSON(w, r, response{Success: true, Data: report})
}

// GetRun возвращает отчет запуска по id
func (h *SyncHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reports.Get(chi.URLParam(r, "id"))
	if !ok {
		h.notFound(w, r, "запуск не найден")
		return
	}
	render.JSON(w, r, response{Success: true, Data: report})
}

// ListTargets возвращает цели синхронизации в порядке запуска
func (h *SyncHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response{Success: true, Data: h.runner.Targets()})
}

func (h *SyncHandler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, errorResponse{
		Error:   "not_found",
		Code:    http.StatusNotFound,
		Message: message,
	})
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
