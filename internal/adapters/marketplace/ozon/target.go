package ozon

import (
	"context"

	"github.com/athebyme/gomarket-stocksync/internal/domain/inventory"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/pkg/utils"
)

const (
	DefaultStockBatchSize = 100
	DefaultPriceBatchSize = 900
)

// Target цель синхронизации: магазин на Ozon
type Target struct {
	client         *Client
	stockBatchSize int
	priceBatchSize int
}

// NewTarget создает цель; нулевые размеры пакетов заменяются значениями по умолчанию
func NewTarget(client *Client, stockBatchSize, priceBatchSize int) *Target {
	if stockBatchSize <= 0 {
		stockBatchSize = DefaultStockBatchSize
	}
	if priceBatchSize <= 0 {
		priceBatchSize = DefaultPriceBatchSize
	}
	return &Target{client: client, stockBatchSize: stockBatchSize, priceBatchSize: priceBatchSize}
}

func (t *Target) Name() string {
	return Platform
}

func (t *Target) ListOfferIDs(ctx context.Context) ([]string, error) {
	return t.client.ListOfferIDs(ctx)
}

// Plan готовит пакеты остатков, затем пакеты цен
func (t *Target) Plan(records []models.SupplierRecord, offerIDs []string) (*models.Plan, error) {
	stocks, levels, err := BuildStocks(records, offerIDs)
	if err != nil {
		return nil, err
	}
	prices, priceLevels, skipped := BuildPrices(records, offerIDs)

	plan := &models.Plan{
		Stocks:        levels,
		InStock:       inventory.InStock(levels),
		Prices:        priceLevels,
		SkippedPrices: skipped,
	}

	for i, batch := range utils.Chunk(stocks, t.stockBatchSize) {
		plan.Steps = append(plan.Steps, models.UploadStep{
			Kind:  models.StepStock,
			Index: i,
			Size:  len(batch),
			Run:   func(ctx context.Context) error { return t.client.UpdateStocks(ctx, batch) },
		})
	}
	for i, batch := range utils.Chunk(prices, t.priceBatchSize) {
		plan.Steps = append(plan.Steps, models.UploadStep{
			Kind:  models.StepPrice,
			Index: i,
			Size:  len(batch),
			Run:   func(ctx context.Context) error { return t.client.UpdatePrices(ctx, batch) },
		})
	}

	return plan, nil
}
