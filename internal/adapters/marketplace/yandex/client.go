// Package yandex клиент Партнерского API Яндекс Маркета для кампаний FBS и DBS.
package yandex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/marketplace"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"golang.org/x/oauth2"
)

const (
	Platform = "yandex"

	DefaultBaseURL  = "https://api.partner.market.yandex.ru/"
	DefaultHost     = "api.partner.market.yandex.ru"
	DefaultPageSize = 200

	// updatedAt в UTC с точностью до секунды
	timestampLayout = "2006-01-02T15:04:05Z"
)

// ErrRepeatedPageToken API вернул уже использованный токен страницы
var ErrRepeatedPageToken = fmt.Errorf("%w: repeated page token", models.ErrMalformedResponse)

// Config настройки клиента Яндекс Маркета
type Config struct {
	Token    string
	PageSize int
	HTTP     marketplace.Config
	// Now источник времени для updatedAt, по умолчанию time.Now
	Now func() time.Time
}

// Client клиент Партнерского API
type Client struct {
	api      *marketplace.Client
	pageSize int
	now      func() time.Time
}

// NewClient создает клиента; токен передается заголовком Authorization: Bearer
func NewClient(cfg Config) *Client {
	httpCfg := cfg.HTTP
	if httpCfg.BaseURL == "" {
		httpCfg.BaseURL = DefaultBaseURL
	}
	if httpCfg.Host == "" && httpCfg.BaseURL == DefaultBaseURL {
		httpCfg.Host = DefaultHost
	}
	httpCfg.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
		Base:   httpCfg.Transport,
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		api:      marketplace.NewClient(Platform, httpCfg),
		pageSize: pageSize,
		now:      now,
	}
}

type mappingEntry struct {
	Offer struct {
		ShopSku string `json:"shopSku"`
	} `json:"offer"`
}

type paging struct {
	NextPageToken string `json:"nextPageToken"`
}

type mappingResult struct {
	Paging              *paging        `json:"paging"`
	OfferMappingEntries []mappingEntry `json:"offerMappingEntries"`
}

type mappingResponse struct {
	Result *mappingResult `json:"result"`
}

// ListOfferIDs возвращает shopSku всех товаров кампании.
// Обход идет по nextPageToken, пока токен не пустой.
func (c *Client) ListOfferIDs(ctx context.Context, campaignID string) ([]string, error) {
	var (
		offerIDs []string
		token    string
		seen     = make(map[string]struct{})
	)
	path := "campaigns/" + url.PathEscape(campaignID) + "/offer-mapping-entries"

	for {
		query := url.Values{"limit": {strconv.Itoa(c.pageSize)}}
		if token != "" {
			query.Set("page_token", token)
		}

		var resp mappingResponse
		if err := c.api.DoJSON(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
			return nil, fmt.Errorf("offer mapping entries of campaign %s: %w", campaignID, err)
		}
		if resp.Result == nil {
			return nil, fmt.Errorf("offer mapping entries of campaign %s: %w: no result", campaignID, models.ErrMalformedResponse)
		}

		for _, entry := range resp.Result.OfferMappingEntries {
			offerIDs = append(offerIDs, entry.Offer.ShopSku)
		}

		if resp.Result.Paging == nil || resp.Result.Paging.NextPageToken == "" {
			break
		}
		token = resp.Result.Paging.NextPageToken
		if _, ok := seen[token]; ok {
			return nil, fmt.Errorf("offer mapping entries of campaign %s: %w", campaignID, ErrRepeatedPageToken)
		}
		seen[token] = struct{}{}
	}

	return offerIDs, nil
}

// UpdateStocks отправляет один пакет остатков кампании
func (c *Client) UpdateStocks(ctx context.Context, campaignID string, skus []SKUStock) error {
	body := struct {
		SKUs []SKUStock `json:"skus"`
	}{SKUs: skus}

	path := "campaigns/" + url.PathEscape(campaignID) + "/offers/stocks"
	if err := c.api.DoJSON(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("update stocks of campaign %s: %w", campaignID, err)
	}
	return nil
}

// UpdatePrices отправляет один пакет цен кампании
func (c *Client) UpdatePrices(ctx context.Context, campaignID string, offers []OfferPrice) error {
	body := struct {
		Offers []OfferPrice `json:"offers"`
	}{Offers: offers}

	path := "campaigns/" + url.PathEscape(campaignID) + "/offer-prices/updates"
	if err := c.api.DoJSON(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("update prices of campaign %s: %w", campaignID, err)
	}
	return nil
}

// Timestamp текущее время в формате updatedAt
func (c *Client) Timestamp() string {
	return c.now().UTC().Format(timestampLayout)
}
