package utils

import (
	"errors"
	"net/url"
	"strconv"
	"time"
)

// Ошибки параметров подключения к PostgreSQL
var (
	ErrEmptyHost       = errors.New("postgres: host is empty")
	ErrInvalidPort     = errors.New("postgres: port is out of range")
	ErrEmptyUser       = errors.New("postgres: user is empty")
	ErrEmptyDBName     = errors.New("postgres: database name is empty")
	ErrInvalidSSLMode  = errors.New("postgres: unknown sslmode")
	ErrInvalidPoolSize = errors.New("postgres: pool size is negative")
	ErrInvalidTimeout  = errors.New("postgres: timeout is negative")
)

var sslModes = map[string]struct{}{
	"disable":     {},
	"allow":       {},
	"prefer":      {},
	"require":     {},
	"verify-ca":   {},
	"verify-full": {},
}

// PostgresParams параметры подключения к журналу запусков
type PostgresParams struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	PoolSize int
	Timeout  time.Duration
}

func (p PostgresParams) validate() error {
	if p.Host == "" {
		return ErrEmptyHost
	}
	if p.Port <= 0 || p.Port > 65535 {
		return ErrInvalidPort
	}
	if p.User == "" {
		return ErrEmptyUser
	}
	if p.DBName == "" {
		return ErrEmptyDBName
	}
	if _, ok := sslModes[p.SSLMode]; !ok {
		return ErrInvalidSSLMode
	}
	if p.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if p.PoolSize < 0 {
		return ErrInvalidPoolSize
	}
	return nil
}

func (p PostgresParams) url(scheme string, withPool bool) string {
	query := url.Values{}
	query.Set("sslmode", p.SSLMode)
	if p.Timeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(p.Timeout.Seconds())))
	}
	if withPool && p.PoolSize > 0 {
		query.Set("pool_max_conns", strconv.Itoa(p.PoolSize))
	}

	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + strconv.Itoa(p.Port),
		Path:     "/" + p.DBName,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// GenerateConnectionString строка подключения для pgxpool
func GenerateConnectionString(p PostgresParams) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	return p.url("postgres", true), nil
}

// GenerateMigrationURL строка подключения для golang-migrate (драйвер pgx5)
func GenerateMigrationURL(p PostgresParams) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	return p.url("pgx5", false), nil
}
