// Package ozon клиент Ozon Seller API: каталог, остатки и цены.
package ozon

import (
	"context"
	"fmt"
	"net/http"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/marketplace"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
)

const (
	Platform = "ozon"

	DefaultBaseURL   = "https://api-seller.ozon.ru"
	DefaultPageLimit = 1000

	listPath   = "/v2/product/list"
	pricesPath = "/v1/product/import/prices"
	stocksPath = "/v1/product/import/stocks"
)

// Config настройки клиента Ozon
type Config struct {
	ClientID  string
	APIKey    string
	PageLimit int
	HTTP      marketplace.Config
}

// Client клиент Ozon Seller API
type Client struct {
	api       *marketplace.Client
	pageLimit int
}

// NewClient создает клиента с заголовками Client-Id и Api-Key
func NewClient(cfg Config) *Client {
	httpCfg := cfg.HTTP
	if httpCfg.BaseURL == "" {
		httpCfg.BaseURL = DefaultBaseURL
	}
	headers := make(map[string]string, len(httpCfg.Headers)+2)
	for k, v := range httpCfg.Headers {
		headers[k] = v
	}
	headers["Client-Id"] = cfg.ClientID
	headers["Api-Key"] = cfg.APIKey
	httpCfg.Headers = headers

	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}

	return &Client{
		api:       marketplace.NewClient(Platform, httpCfg),
		pageLimit: pageLimit,
	}
}

type listFilter struct {
	Visibility string `json:"visibility"`
}

type listRequest struct {
	Filter listFilter `json:"filter"`
	LastID string     `json:"last_id"`
	Limit  int        `json:"limit"`
}

type listItem struct {
	ProductID int64  `json:"product_id"`
	OfferID   string `json:"offer_id"`
}

type listResult struct {
	Items  []listItem `json:"items"`
	Total  int        `json:"total"`
	LastID string     `json:"last_id"`
}

type listResponse struct {
	Result *listResult `json:"result"`
}

// ListOfferIDs возвращает offer_id всех товаров магазина в порядке выдачи API.
// Обход останавливается, когда набрано total товаров, пришла пустая страница
// или API не вернул last_id для следующей страницы.
func (c *Client) ListOfferIDs(ctx context.Context) ([]string, error) {
	var offerIDs []string
	lastID := ""

	for {
		var resp listResponse
		req := listRequest{
			Filter: listFilter{Visibility: "ALL"},
			LastID: lastID,
			Limit:  c.pageLimit,
		}
		if err := c.api.DoJSON(ctx, http.MethodPost, listPath, nil, req, &resp); err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		if resp.Result == nil {
			return nil, fmt.Errorf("list products: %w: no result", models.ErrMalformedResponse)
		}

		for _, item := range resp.Result.Items {
			offerIDs = append(offerIDs, item.OfferID)
		}

		if len(resp.Result.Items) == 0 || len(offerIDs) >= resp.Result.Total || resp.Result.LastID == "" {
			break
		}
		lastID = resp.Result.LastID
	}

	return offerIDs, nil
}

// UpdateStocks отправляет один пакет остатков
func (c *Client) UpdateStocks(ctx context.Context, stocks []Stock) error {
	body := struct {
		Stocks []Stock `json:"stocks"`
	}{Stocks: stocks}

	if err := c.api.DoJSON(ctx, http.MethodPost, stocksPath, nil, body, nil); err != nil {
		return fmt.Errorf("import stocks: %w", err)
	}
	return nil
}

// UpdatePrices отправляет один пакет цен
func (c *Client) UpdatePrices(ctx context.Context, prices []Price) error {
	body := struct {
		Prices []Price `json:"prices"`
	}{Prices: prices}

	if err := c.api.DoJSON(ctx, http.MethodPost, pricesPath, nil, body, nil); err != nil {
		return fmt.Errorf("import prices: %w", err)
	}
	return nil
}
