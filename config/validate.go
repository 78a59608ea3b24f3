package config

import (
	"errors"
	"fmt"
)

var (
	ErrNoTargets         = errors.New("no sync targets enabled")
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidSetting    = errors.New("invalid setting")
)

// Validate проверяет настройки; учетные данные требуются только для включенных целей
func (c *Config) Validate() error {
	var errs []error

	missing := func(name, env string) {
		errs = append(errs, fmt.Errorf("%w: %s (%s)", ErrMissingCredential, name, env))
	}
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSetting}, args...)...))
	}

	if len(c.EnabledTargets()) == 0 {
		errs = append(errs, ErrNoTargets)
	}

	if c.Feed.URL == "" {
		invalid("feed.url is empty")
	}
	if c.Feed.HeaderRow < 0 {
		invalid("feed.headerRow %d < 0", c.Feed.HeaderRow)
	}
	if c.API.RateLimit < 0 || c.API.RateBurst < 0 {
		invalid("api.rateLimit and api.rateBurst must not be negative")
	}

	if c.Ozon.Enabled {
		if c.Ozon.ClientID == "" {
			missing("ozon.clientID", "CLIENT_ID")
		}
		if c.Ozon.APIKey == "" {
			missing("ozon.apiKey", "SELLER_TOKEN")
		}
		if c.Ozon.StockBatchSize < 1 || c.Ozon.PriceBatchSize < 1 {
			invalid("ozon batch sizes must be >= 1")
		}
	}

	if c.Yandex.Enabled && (c.Yandex.FBS.Enabled || c.Yandex.DBS.Enabled) {
		if c.Yandex.Token == "" {
			missing("yandex.token", "MARKET_TOKEN")
		}
		if c.Yandex.StockBatchSize < 1 || c.Yandex.PriceBatchSize < 1 {
			invalid("yandex batch sizes must be >= 1")
		}
		if c.Yandex.FBS.Enabled {
			if c.Yandex.FBS.CampaignID == "" {
				missing("yandex.fbs.campaignID", "FBS_ID")
			}
			if c.Yandex.FBS.WarehouseID == 0 {
				missing("yandex.fbs.warehouseID", "WAREHOUSE_FBS_ID")
			}
		}
		if c.Yandex.DBS.Enabled {
			if c.Yandex.DBS.CampaignID == "" {
				missing("yandex.dbs.campaignID", "DBS_ID")
			}
			if c.Yandex.DBS.WarehouseID == 0 {
				missing("yandex.dbs.warehouseID", "WAREHOUSE_DBS_ID")
			}
		}
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		invalid("kafka.brokers is empty")
	}

	return errors.Join(errs...)
}

// EnabledTargets имена включенных целей в порядке синхронизации
func (c *Config) EnabledTargets() []string {
	var targets []string
	if c.Ozon.Enabled {
		targets = append(targets, "ozon")
	}
	if c.Yandex.Enabled {
		if c.Yandex.FBS.Enabled {
			targets = append(targets, "yandex-fbs")
		}
		if c.Yandex.DBS.Enabled {
			targets = append(targets, "yandex-dbs")
		}
	}
	return targets
}
