package ozon

import (
	"github.com/athebyme/gomarket-stocksync/internal/domain/inventory"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
)

// Stock элемент запроса /v1/product/import/stocks
type Stock struct {
	OfferID string `json:"offer_id"`
	Stock   int    `json:"stock"`
}

// Price элемент запроса /v1/product/import/prices
type Price struct {
	AutoActionEnabled string `json:"auto_action_enabled"`
	CurrencyCode      string `json:"currency_code"`
	OfferID           string `json:"offer_id"`
	OldPrice          string `json:"old_price"`
	Price             string `json:"price"`
}

// BuildStocks строит остатки для всех offer id магазина, отсутствующие в прайсе получают 0
func BuildStocks(records []models.SupplierRecord, offerIDs []string) ([]Stock, []models.StockLevel, error) {
	levels, err := inventory.MatchStocks(records, offerIDs)
	if err != nil {
		return nil, nil, err
	}

	stocks := make([]Stock, len(levels))
	for i, l := range levels {
		stocks[i] = Stock{OfferID: l.OfferID, Stock: l.Count}
	}
	return stocks, levels, nil
}

// BuildPrices строит цены только для товаров, которые есть и в прайсе, и в магазине
func BuildPrices(records []models.SupplierRecord, offerIDs []string) ([]Price, []models.PriceLevel, int) {
	levels, skipped := inventory.MatchPrices(records, offerIDs)

	prices := make([]Price, len(levels))
	for i, l := range levels {
		prices[i] = Price{
			AutoActionEnabled: "UNKNOWN",
			CurrencyCode:      "RUB",
			OfferID:           l.OfferID,
			OldPrice:          "0",
			Price:             l.Price,
		}
	}
	return prices, levels, skipped
}
