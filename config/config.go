package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/supplier"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Campaign кампания Яндекс Маркета
type Campaign struct {
	Enabled     bool
	CampaignID  string
	WarehouseID int64
}

// Config содержит все настройки сервиса
type Config struct {
	AppName  string
	Version  string
	LogLevel string
	ENV      string

	Server struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	// API ограничение ручного запуска синхронизации через POST /api/v1/sync
	API struct {
		RateLimit float64 // запусков в секунду
		RateBurst int
	}

	Feed struct {
		URL            string
		FileName       string
		ExtractDir     string
		HeaderRow      int // номер строки заголовка, считая с нуля
		Charset        string
		CodeColumn     string
		QuantityColumn string
		PriceColumn    string
		Timeout        time.Duration
	}

	// HTTP общие настройки клиентов маркетплейсов
	HTTP struct {
		Timeout   time.Duration // 0 - без таймаута
		RateLimit float64       // запросов в секунду, 0 - без ограничения
		RateBurst int
		UserAgent string
	}

	Ozon struct {
		Enabled        bool
		BaseURL        string
		ClientID       string
		APIKey         string
		PageLimit      int
		StockBatchSize int
		PriceBatchSize int
	}

	Yandex struct {
		Enabled        bool
		BaseURL        string
		Host           string
		Token          string
		PageSize       int
		StockBatchSize int
		PriceBatchSize int
		FBS            Campaign
		DBS            Campaign
	}

	Sync struct {
		// ContinueOnError переходить к следующей цели после ошибки
		ContinueOnError      bool
		ContinueWithinTarget bool
		DryRun               bool
		Schedule             string // cron выражение для cmd/api, пусто - без расписания
		RunTimeout           time.Duration
		LockKey              string
		LockTTL              time.Duration
	}

	Postgres struct {
		Enabled  bool
		Migrate  bool
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
		Timeout  time.Duration
		PoolSize int // размер пула соединений
	}

	Redis struct {
		Enabled  bool
		Host     string
		Port     int
		Password string
		DB       int
		Prefix   string
	}

	Kafka struct {
		Enabled  bool     `mapstructure:"enabled"`
		Brokers  []string `mapstructure:"brokers"`
		ClientID string   `mapstructure:"client_id"`
		Topic    string   `mapstructure:"topic"`
	}

	Metrics struct {
		Enabled        bool
		Port           int `mapstructure:"port"`
		PushgatewayURL string
		JobName        string
	}

	Security struct {
		JWTSecret string
		JWTIssuer string
	}

	Cache struct {
		ReportTTL time.Duration
	}
}

// Load загружает конфигурацию из .env, файла и переменных окружения.
// configPath - путь к yaml файлу; если пусто, ищется config.yaml в . и ./config
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		// Продолжаем, если файл не найден, будем использовать только переменные окружения
	}

	setDefaults(v)
	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка десериализации конфигурации: %w", err)
	}

	if cfg.ENV == "" {
		cfg.ENV = "development"
	}

	return &cfg, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Основные настройки
	v.SetDefault("appName", "stocksync")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("logLevel", "info")
	v.SetDefault("env", "development")

	// Настройки сервера
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "30m")
	v.SetDefault("server.shutdownTimeout", "5s")

	v.SetDefault("api.rateLimit", 1)
	v.SetDefault("api.rateBurst", 2)

	// Прайс поставщика
	v.SetDefault("feed.url", supplier.DefaultURL)
	v.SetDefault("feed.fileName", supplier.DefaultFileName)
	v.SetDefault("feed.extractDir", ".")
	v.SetDefault("feed.headerRow", supplier.DefaultHeaderRow)
	v.SetDefault("feed.charset", "utf-8")
	v.SetDefault("feed.codeColumn", "Код")
	v.SetDefault("feed.quantityColumn", "Количество")
	v.SetDefault("feed.priceColumn", "Цена")
	v.SetDefault("feed.timeout", "0s")

	v.SetDefault("http.timeout", "0s")
	v.SetDefault("http.rateLimit", 0)
	v.SetDefault("http.rateBurst", 1)
	v.SetDefault("http.userAgent", "stocksync/1.0")

	// Ozon
	v.SetDefault("ozon.enabled", true)
	v.SetDefault("ozon.baseURL", "https://api-seller.ozon.ru")
	v.SetDefault("ozon.pageLimit", 1000)
	v.SetDefault("ozon.stockBatchSize", 100)
	v.SetDefault("ozon.priceBatchSize", 900)

	// Яндекс Маркет
	v.SetDefault("yandex.enabled", true)
	v.SetDefault("yandex.baseURL", "https://api.partner.market.yandex.ru/")
	v.SetDefault("yandex.host", "api.partner.market.yandex.ru")
	v.SetDefault("yandex.pageSize", 200)
	v.SetDefault("yandex.stockBatchSize", 2000)
	v.SetDefault("yandex.priceBatchSize", 500)
	v.SetDefault("yandex.fbs.enabled", true)
	v.SetDefault("yandex.dbs.enabled", true)

	// Синхронизация
	v.SetDefault("sync.continueOnError", true)
	v.SetDefault("sync.continueWithinTarget", false)
	v.SetDefault("sync.dryRun", false)
	v.SetDefault("sync.schedule", "")
	v.SetDefault("sync.runTimeout", "30m")
	v.SetDefault("sync.lockKey", "run")
	v.SetDefault("sync.lockTTL", "30m")

	// Настройки Postgres
	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.migrate", true)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.dbname", "stocksync")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timeout", "5s")
	v.SetDefault("postgres.poolSize", 4)

	// Настройки Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "stocksync")

	// Настройки Kafka
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.client_id", "stocksync")
	v.SetDefault("kafka.topic", "stocksync.events")

	// Настройки метрик
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.pushgatewayURL", "")
	v.SetDefault("metrics.jobName", "stocksync")

	// Настройки безопасности
	v.SetDefault("security.jwtSecret", "")
	v.SetDefault("security.jwtIssuer", "stocksync")

	v.SetDefault("cache.reportTTL", "24h")
}

// bindEnvVariables привязывает переменные окружения к конфигурации.
// Для учетных данных маркетплейсов принимаются и исходные имена переменных.
func bindEnvVariables(v *viper.Viper) {
	// Основные настройки
	_ = v.BindEnv("appName", "APP_NAME")
	_ = v.BindEnv("version", "APP_VERSION")
	_ = v.BindEnv("logLevel", "LOG_LEVEL")
	_ = v.BindEnv("env", "APP_ENV")

	// Настройки сервера
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")

	_ = v.BindEnv("feed.url", "FEED_URL")
	_ = v.BindEnv("feed.extractDir", "FEED_EXTRACT_DIR")
	_ = v.BindEnv("feed.headerRow", "FEED_HEADER_ROW")

	_ = v.BindEnv("api.rateLimit", "API_RATE_LIMIT")
	_ = v.BindEnv("api.rateBurst", "API_RATE_BURST")

	// Ozon
	_ = v.BindEnv("ozon.enabled", "OZON_ENABLED")
	_ = v.BindEnv("ozon.clientID", "OZON_CLIENT_ID", "CLIENT_ID")
	_ = v.BindEnv("ozon.apiKey", "OZON_API_KEY", "SELLER_TOKEN")

	// Яндекс Маркет
	_ = v.BindEnv("yandex.enabled", "YANDEX_ENABLED")
	_ = v.BindEnv("yandex.token", "YANDEX_TOKEN", "MARKET_TOKEN")
	_ = v.BindEnv("yandex.fbs.enabled", "YANDEX_FBS_ENABLED")
	_ = v.BindEnv("yandex.fbs.campaignID", "YANDEX_FBS_CAMPAIGN_ID", "FBS_ID")
	_ = v.BindEnv("yandex.fbs.warehouseID", "YANDEX_FBS_WAREHOUSE_ID", "WAREHOUSE_FBS_ID")
	_ = v.BindEnv("yandex.dbs.enabled", "YANDEX_DBS_ENABLED")
	_ = v.BindEnv("yandex.dbs.campaignID", "YANDEX_DBS_CAMPAIGN_ID", "DBS_ID")
	_ = v.BindEnv("yandex.dbs.warehouseID", "YANDEX_DBS_WAREHOUSE_ID", "WAREHOUSE_DBS_ID")

	// Синхронизация
	_ = v.BindEnv("sync.dryRun", "SYNC_DRY_RUN")
	_ = v.BindEnv("sync.schedule", "SYNC_SCHEDULE")
	_ = v.BindEnv("sync.continueOnError", "SYNC_CONTINUE_ON_ERROR")
	_ = v.BindEnv("sync.continueWithinTarget", "SYNC_CONTINUE_WITHIN_TARGET")

	// Настройки Postgres
	_ = v.BindEnv("postgres.enabled", "POSTGRES_ENABLED")
	_ = v.BindEnv("postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("postgres.dbname", "POSTGRES_DBNAME")
	_ = v.BindEnv("postgres.sslmode", "POSTGRES_SSLMODE")

	// Настройки Redis
	_ = v.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Настройки Kafka
	_ = v.BindEnv("kafka.enabled", "KAFKA_ENABLED")
	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("kafka.topic", "KAFKA_TOPIC")

	// Настройки метрик
	_ = v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	_ = v.BindEnv("metrics.port", "METRICS_PORT")
	_ = v.BindEnv("metrics.pushgatewayURL", "PUSHGATEWAY_URL")

	// Настройки безопасности
	_ = v.BindEnv("security.jwtSecret", "JWT_SECRET")
}
