package cache

import (
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
)

const lastReportKey = "last"

// ReportStore хранит отчеты последних запусков в памяти процесса
type ReportStore struct {
	cache *gocache.Cache
}

// NewReportStore создает хранилище; отчеты живут ttl
func NewReportStore(ttl time.Duration) *ReportStore {
	return &ReportStore{cache: gocache.New(ttl, ttl*2)}
}

// Save сохраняет отчет и делает его последним
func (s *ReportStore) Save(report *models.RunReport) {
	if report == nil {
		return
	}
	s.cache.SetDefault(runKey(report.RunID), report)
	s.cache.SetDefault(lastReportKey, report)
}

// Last возвращает отчет последнего запуска
func (s *ReportStore) Last() (*models.RunReport, bool) {
	return s.get(lastReportKey)
}

// Get возвращает отчет по id запуска
func (s *ReportStore) Get(runID string) (*models.RunReport, bool) {
	return s.get(runKey(runID))
}

func (s *ReportStore) get(key string) (*models.RunReport, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	report, ok := v.(*models.RunReport)
	return report, ok
}

func runKey(runID string) string {
	return "run:" + runID
}
