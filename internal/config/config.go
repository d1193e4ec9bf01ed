package config

import "time"

// CollectorConfig is the root configuration for a collector instance.
type CollectorConfig struct {
	Instance  InstanceConfig `yaml:"instance"`
	API       APIConfig      `yaml:"api"`
	Collector LoopConfig     `yaml:"collector"`
	Database  DatabaseConfig `yaml:"database"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Log       LogConfig      `yaml:"log"`
}

// InstanceConfig identifies this collector.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds market-data API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"` // Optional demo key (x-cg-demo-api-key)
	VsCurrency string        `yaml:"vs_currency"`
	Order      string        `yaml:"order"`
	PerPage    int           `yaml:"per_page"`
	Page       int           `yaml:"page"`
	Sparkline  bool          `yaml:"sparkline"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"` // 0 = single attempt per cycle
}

// LoopConfig holds collection loop settings.
type LoopConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DatabaseConfig selects and configures the snapshot store.
type DatabaseConfig struct {
	Driver   string       `yaml:"driver"` // "sqlite" or "postgres"
	Table    string       `yaml:"table"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
	Postgres DBConfig     `yaml:"postgres"`
}

// SQLiteConfig holds the file-backed store settings.
type SQLiteConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CacheConfig holds optional latest-snapshot cache settings.
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the Redis mirror of the latest batch.
type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// MetricsConfig holds Prometheus metrics and health server settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
