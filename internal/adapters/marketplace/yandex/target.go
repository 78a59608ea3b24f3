package yandex

import (
	"context"

	"github.com/athebyme/gomarket-stocksync/internal/domain/inventory"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/pkg/utils"
)

const (
	DefaultStockBatchSize = 2000
	DefaultPriceBatchSize = 500
)

// Campaign кампания магазина (модель FBS или DBS) и ее склад
type Campaign struct {
	// Name модель работы: fbs или dbs
	Name        string
	ID          string
	WarehouseID int64
}

// Target цель синхронизации: одна кампания Яндекс Маркета
type Target struct {
	client         *Client
	campaign       Campaign
	stockBatchSize int
	priceBatchSize int
}

// NewTarget создает цель для кампании
func NewTarget(client *Client, campaign Campaign, stockBatchSize, priceBatchSize int) *Target {
	if stockBatchSize <= 0 {
		stockBatchSize = DefaultStockBatchSize
	}
	if priceBatchSize <= 0 {
		priceBatchSize = DefaultPriceBatchSize
	}
	return &Target{
		client:         client,
		campaign:       campaign,
		stockBatchSize: stockBatchSize,
		priceBatchSize: priceBatchSize,
	}
}

// Name имя цели вида yandex-fbs
func (t *Target) Name() string {
	return Platform + "-" + t.campaign.Name
}

func (t *Target) ListOfferIDs(ctx context.Context) ([]string, error) {
	return t.client.ListOfferIDs(ctx, t.campaign.ID)
}

// Plan готовит пакеты остатков, затем пакеты цен.
// updatedAt фиксируется один раз на всю цель.
func (t *Target) Plan(records []models.SupplierRecord, offerIDs []string) (*models.Plan, error) {
	skus, levels, err := BuildStocks(records, offerIDs, t.campaign.WarehouseID, t.client.Timestamp())
	if err != nil {
		return nil, err
	}
	offers, priceLevels, skipped, err := BuildPrices(records, offerIDs)
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{
		Stocks:        levels,
		InStock:       inventory.InStock(levels),
		Prices:        priceLevels,
		SkippedPrices: skipped,
	}

	for i, batch := range utils.Chunk(skus, t.stockBatchSize) {
		plan.Steps = append(plan.Steps, models.UploadStep{
			Kind:  models.StepStock,
			Index: i,
			Size:  len(batch),
			Run: func(ctx context.Context) error {
				return t.client.UpdateStocks(ctx, t.campaign.ID, batch)
			},
		})
	}
	for i, batch := range utils.Chunk(offers, t.priceBatchSize) {
		plan.Steps = append(plan.Steps, models.UploadStep{
			Kind:  models.StepPrice,
			Index: i,
			Size:  len(batch),
			Run: func(ctx context.Context) error {
				return t.client.UpdatePrices(ctx, t.campaign.ID, batch)
			},
		})
	}

	return plan, nil
}
