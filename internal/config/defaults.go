package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID     = "collector"
	DefaultBaseURL        = "https://api.coingecko.com/api/v3"
	DefaultVsCurrency     = "usd"
	DefaultOrder          = "market_cap_desc"
	DefaultPerPage        = 100
	DefaultPage           = 1
	DefaultAPITimeout     = 30 * time.Second
	DefaultPollInterval   = 60 * time.Second
	DefaultDriver         = DriverSQLite
	DefaultTable          = "market_data_live"
	DefaultSQLitePath     = "crypto_top100_data.db"
	DefaultBusyTimeout    = 5 * time.Second
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 0
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "snapshots"
	DefaultRedisTTL       = 5 * time.Minute
	DefaultMetricsPort    = 9090
	DefaultMetricsPath    = "/metrics"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func (c *CollectorConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.VsCurrency == "" {
		c.API.VsCurrency = DefaultVsCurrency
	}
	if c.API.Order == "" {
		c.API.Order = DefaultOrder
	}
	if c.API.PerPage == 0 {
		c.API.PerPage = DefaultPerPage
	}
	if c.API.Page == 0 {
		c.API.Page = DefaultPage
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if c.Collector.Interval == 0 {
		c.Collector.Interval = DefaultPollInterval
	}

	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Database.Table == "" {
		c.Database.Table = DefaultTable
	}
	if c.Database.SQLite.Path == "" {
		c.Database.SQLite.Path = DefaultSQLitePath
	}
	if c.Database.SQLite.BusyTimeout == 0 {
		c.Database.SQLite.BusyTimeout = DefaultBusyTimeout
	}
	applyDBDefaults(&c.Database.Postgres)

	// Cache defaults
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = DefaultRedisAddr
	}
	if c.Cache.Redis.KeyPrefix == "" {
		c.Cache.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if c.Cache.Redis.TTL == 0 {
		c.Cache.Redis.TTL = DefaultRedisTTL
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
}
