package inventory

import (
	"testing"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/internal/domain/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(code, qty, price string) models.SupplierRecord {
	return models.SupplierRecord{Code: code, Quantity: qty, Price: price, HasPrice: true}
}

func TestMatchStocks(t *testing.T) {
	records := []models.SupplierRecord{record("A", "5", ""), record("B", ">10", "")}
	offerIDs := []string{"A", "B", "C"}

	stocks, err := MatchStocks(records, offerIDs)
	require.NoError(t, err)

	assert.Equal(t, []models.StockLevel{
		{OfferID: "A", Count: 5},
		{OfferID: "B", Count: 100},
		{OfferID: "C", Count: 0},
	}, stocks)
	assert.Equal(t, []string{"A", "B", "C"}, offerIDs, "входной срез не должен меняться")
}

func TestMatchStocks_OrderMatchedThenUnmatched(t *testing.T) {
	records := []models.SupplierRecord{record("Z", "3", ""), record("X", "1", ""), record("NOPE", "9", "")}
	offerIDs := []string{"Y", "X", "W", "Z"}

	stocks, err := MatchStocks(records, offerIDs)
	require.NoError(t, err)

	assert.Equal(t, []models.StockLevel{
		{OfferID: "Z", Count: 3},
		{OfferID: "X", Count: 0},
		{OfferID: "Y", Count: 0},
		{OfferID: "W", Count: 0},
	}, stocks)
}

func TestMatchStocks_EachOfferOnce(t *testing.T) {
	records := []models.SupplierRecord{record("A", "2", ""), record("A", "4", "")}

	stocks, err := MatchStocks(records, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []models.StockLevel{{OfferID: "A", Count: 2}}, stocks)

	stocks, err = MatchStocks(records, []string{"A", "A"})
	require.NoError(t, err)
	assert.Equal(t, []models.StockLevel{{OfferID: "A", Count: 2}, {OfferID: "A", Count: 4}}, stocks)
}

func TestMatchStocks_InvalidQuantity(t *testing.T) {
	_, err := MatchStocks([]models.SupplierRecord{record("A", "много", "")}, []string{"A"})
	assert.ErrorIs(t, err, normalize.ErrInvalidQuantity)
}

func TestMatchStocks_UnmatchedRecordIsNotParsed(t *testing.T) {
	stocks, err := MatchStocks([]models.SupplierRecord{record("Q", "много", "")}, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []models.StockLevel{{OfferID: "A", Count: 0}}, stocks)
}

func TestMatchPrices(t *testing.T) {
	records := []models.SupplierRecord{
		record("A", "5", "5'990.00 руб."),
		record("B", ">10", "199.99 руб."),
	}

	prices, skipped := MatchPrices(records, []string{"A", "B", "C"})

	assert.Zero(t, skipped)
	assert.Equal(t, []models.PriceLevel{
		{OfferID: "A", Price: "5990"},
		{OfferID: "B", Price: "199"},
	}, prices)
}

func TestMatchPrices_SkipsEmptyPrice(t *testing.T) {
	records := []models.SupplierRecord{
		record("A", "5", ""),
		{Code: "B", Quantity: "2"},
		record("C", "2", "1'000.00 руб."),
	}

	prices, skipped := MatchPrices(records, []string{"A", "B", "C"})

	assert.Equal(t, 2, skipped)
	assert.Equal(t, []models.PriceLevel{{OfferID: "C", Price: "1000"}}, prices)
}

func TestInStock(t *testing.T) {
	stocks := []models.StockLevel{{OfferID: "A", Count: 5}, {OfferID: "B"}, {OfferID: "C", Count: 100}}

	assert.Equal(t, []models.StockLevel{{OfferID: "A", Count: 5}, {OfferID: "C", Count: 100}}, InStock(stocks))
	assert.Empty(t, InStock(nil))
}
