// Package marketplace содержит общий HTTP клиент для API маркетплейсов.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

// Config настройки HTTP клиента маркетплейса
type Config struct {
	BaseURL string
	// Host переопределяет заголовок Host (нужен Яндекс Маркету)
	Host      string
	Timeout   time.Duration // 0 - без таймаута, как у http.DefaultClient
	RateLimit float64       // запросов в секунду, 0 - без ограничения
	RateBurst int
	UserAgent string
	Headers   map[string]string
	Transport http.RoundTripper
}

// APIError неуспешный ответ API маркетплейса
type APIError struct {
	Platform   string
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s %s: status %d: %s", e.Platform, e.Method, e.URL, e.StatusCode, e.Body)
}

// HTTPStatus возвращает код ответа
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Client выполняет JSON запросы к API одного маркетплейса
type Client struct {
	platform   string
	baseURL    string
	host       string
	userAgent  string
	headers    map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient создает клиент маркетплейса platform
func NewClient(platform string, cfg Config) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		platform:  platform,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		host:      cfg.Host,
		userAgent: cfg.UserAgent,
		headers:   headers,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Platform возвращает имя маркетплейса
func (c *Client) Platform() string {
	return c.platform
}

// DoJSON отправляет body как JSON и декодирует ответ в out.
// Любой статус кроме 2xx возвращается как *APIError, повторов нет.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", c.platform, err)
	}

	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s encode request: %w", c.platform, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("%s build request: %w", c.platform, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.host != "" {
		req.Host = c.host
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", c.platform, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Platform:   c.platform,
			Method:     method,
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s %s: %w: %w", c.platform, method, path, models.ErrMalformedResponse, err)
	}
	return nil
}
