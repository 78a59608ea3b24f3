// Package inventory сопоставляет прайс поставщика с каталогом маркетплейса.
package inventory

import (
	"fmt"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/internal/domain/normalize"
)

// MatchStocks строит остатки для каждого offer id каталога.
//
// Сначала идут совпавшие с прайсом позиции в порядке прайса, затем
// оставшиеся offer id с нулевым остатком в порядке выдачи маркетплейса.
// Каждый offer id попадает в результат ровно столько раз, сколько он
// встретился в offerIDs. Входной срез не изменяется.
func MatchStocks(records []models.SupplierRecord, offerIDs []string) ([]models.StockLevel, error) {
	remaining := countIDs(offerIDs)
	stocks := make([]models.StockLevel, 0, len(offerIDs))

	for _, record := range records {
		if remaining[record.Code] == 0 {
			continue
		}

		count, err := normalize.Quantity(record.Quantity)
		if err != nil {
			return nil, fmt.Errorf("stock for code %q: %w", record.Code, err)
		}

		stocks = append(stocks, models.StockLevel{OfferID: record.Code, Count: count})
		remaining[record.Code]--
	}

	for _, id := range offerIDs {
		if remaining[id] == 0 {
			continue
		}
		stocks = append(stocks, models.StockLevel{OfferID: id, Count: 0})
		remaining[id]--
	}

	return stocks, nil
}

// MatchPrices строит цены для записей прайса, чей артикул есть в каталоге.
//
// Offer id без записи в прайсе цену не получают. Записи с пустой ценой
// пропускаются и учитываются в skipped.
func MatchPrices(records []models.SupplierRecord, offerIDs []string) (prices []models.PriceLevel, skipped int) {
	known := countIDs(offerIDs)
	prices = make([]models.PriceLevel, 0, len(records))

	for _, record := range records {
		if known[record.Code] == 0 {
			continue
		}

		price, err := normalize.RecordPrice(record)
		if err != nil {
			skipped++
			continue
		}

		prices = append(prices, models.PriceLevel{OfferID: record.Code, Price: price})
	}

	return prices, skipped
}

// InStock возвращает остатки с ненулевым количеством
func InStock(stocks []models.StockLevel) []models.StockLevel {
	result := make([]models.StockLevel, 0, len(stocks))
	for _, s := range stocks {
		if s.Count != 0 {
			result = append(result, s)
		}
	}
	return result
}

func countIDs(ids []string) map[string]int {
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	return counts
}
