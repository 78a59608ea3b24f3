package yandex

import (
	"fmt"
	"strconv"

	"github.com/athebyme/gomarket-stocksync/internal/domain/inventory"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
)

// StockItem количество товара определенного типа
type StockItem struct {
	Count     int    `json:"count"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}

// SKUStock остаток одного SKU на складе
type SKUStock struct {
	SKU         string      `json:"sku"`
	WarehouseID int64       `json:"warehouseId"`
	Items       []StockItem `json:"items"`
}

// PriceValue цена в рублях
type PriceValue struct {
	Value      int    `json:"value"`
	CurrencyID string `json:"currencyId"`
}

// OfferPrice цена одного предложения
type OfferPrice struct {
	ID    string     `json:"id"`
	Price PriceValue `json:"price"`
}

// BuildStocks строит остатки склада для всех SKU кампании
func BuildStocks(records []models.SupplierRecord, offerIDs []string, warehouseID int64, updatedAt string) ([]SKUStock, []models.StockLevel, error) {
	levels, err := inventory.MatchStocks(records, offerIDs)
	if err != nil {
		return nil, nil, err
	}

	skus := make([]SKUStock, len(levels))
	for i, l := range levels {
		skus[i] = SKUStock{
			SKU:         l.OfferID,
			WarehouseID: warehouseID,
			Items: []StockItem{{
				Count:     l.Count,
				Type:      "FIT",
				UpdatedAt: updatedAt,
			}},
		}
	}
	return skus, levels, nil
}

// BuildPrices строит цены для SKU кампании, найденных в прайсе.
// Цена без цифр считается ошибкой разбора.
func BuildPrices(records []models.SupplierRecord, offerIDs []string) ([]OfferPrice, []models.PriceLevel, int, error) {
	levels, skipped := inventory.MatchPrices(records, offerIDs)

	offers := make([]OfferPrice, len(levels))
	for i, l := range levels {
		value, err := strconv.Atoi(l.Price)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("%w: price %q of %q", models.ErrParse, l.Price, l.OfferID)
		}
		offers[i] = OfferPrice{
			ID:    l.OfferID,
			Price: PriceValue{Value: value, CurrencyID: "RUR"},
		}
	}
	return offers, levels, skipped, nil
}
