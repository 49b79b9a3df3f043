package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	envPrefix = "PMWATCH_"
)

type Config struct {
	App struct {
		Limit      int    `toml:"limit"`
		TimeoutSec int    `toml:"timeout_sec"`
		Source     string `toml:"source"` // registered activity source name
	} `toml:"app"`

	Polymarket struct {
		BaseURL string `toml:"base_url"`
	} `toml:"polymarket"`

	Storage struct {
		Driver string `toml:"driver"` // sqlite | postgres

		SQLite struct {
			Path string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			DSN          string `toml:"dsn"`
			MaxOpenConns int    `toml:"max_open_conns"`
			Mirror       bool   `toml:"mirror"` // mirror writes of the primary sqlite store
		} `toml:"postgres"`
	} `toml:"storage"`

	Redis struct {
		Enabled  bool   `toml:"enabled"`
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
		Prefix   string `toml:"prefix"`
		Stream   string `toml:"stream"`
		Channel  string `toml:"channel"`
		MaxLen   int64  `toml:"max_len"`
	} `toml:"redis"`

	AMQP struct {
		Enabled    bool   `toml:"enabled"`
		URL        string `toml:"url"`
		Exchange   string `toml:"exchange"`
		RoutingKey string `toml:"routing_key"`
	} `toml:"amqp"`

	Metrics struct {
		Textfile string `toml:"textfile"` // node_exporter textfile collector output, empty disables
	} `toml:"metrics"`

	Display struct {
		Timezone string `toml:"timezone"`
		Plain    bool   `toml:"plain"`
	} `toml:"display"`

	LogLevel string `toml:"log_level"`
}

// Load builds the configuration: defaults, then the TOML file at path (skipped when
// path is empty), then .env and PMWATCH_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.App.TimeoutSec) * time.Second
}

// Location resolves the display timezone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Display.Timezone)
	if tz == "" || strings.EqualFold(tz, "UTC") {
		return time.UTC, nil
	}
	if strings.EqualFold(tz, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

func applyDefaults(cfg *Config) {
	if cfg.App.Limit <= 0 {
		cfg.App.Limit = 25
	}
	if cfg.App.TimeoutSec <= 0 {
		cfg.App.TimeoutSec = 10
	}
	if strings.TrimSpace(cfg.App.Source) == "" {
		cfg.App.Source = "polymarket"
	}
	if strings.TrimSpace(cfg.Polymarket.BaseURL) == "" {
		cfg.Polymarket.BaseURL = "https://data-api.polymarket.com"
	}
	if strings.TrimSpace(cfg.Storage.Driver) == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if strings.TrimSpace(cfg.Storage.SQLite.Path) == "" {
		cfg.Storage.SQLite.Path = "polymarket.db"
	}
	if cfg.Storage.Postgres.MaxOpenConns <= 0 {
		cfg.Storage.Postgres.MaxOpenConns = 4
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		cfg.Redis.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.Redis.Prefix) == "" {
		cfg.Redis.Prefix = "pmwatch"
	}
	if strings.TrimSpace(cfg.Display.Timezone) == "" {
		cfg.Display.Timezone = "UTC"
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch cfg.Storage.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn empty but driver is postgres")
		}
	default:
		return fmt.Errorf("storage.driver %q not supported", cfg.Storage.Driver)
	}

	if cfg.Storage.Postgres.Mirror {
		if cfg.Storage.Driver == DriverPostgres {
			return errors.New("storage.postgres.mirror needs the sqlite driver as primary")
		}
		if strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn empty but mirror enabled")
		}
	}

	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but enabled")
	}

	if cfg.AMQP.Enabled && strings.TrimSpace(cfg.AMQP.URL) == "" {
		return errors.New("amqp.url empty but enabled")
	}

	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("display.timezone: %w", err)
	}
	return nil
}

// applyEnvOverrides lets operators inject secrets and paths at deploy time.
func applyEnvOverrides(cfg *Config) {
	setInt(&cfg.App.Limit, "APP_LIMIT")
	setInt(&cfg.App.TimeoutSec, "APP_TIMEOUT_SEC")
	setStr(&cfg.App.Source, "APP_SOURCE")

	setStr(&cfg.Polymarket.BaseURL, "POLYMARKET_BASE_URL")

	setStr(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setStr(&cfg.Storage.SQLite.Path, "SQLITE_PATH")
	setStr(&cfg.Storage.Postgres.DSN, "POSTGRES_DSN")
	setInt(&cfg.Storage.Postgres.MaxOpenConns, "POSTGRES_MAX_OPEN_CONNS")
	setBool(&cfg.Storage.Postgres.Mirror, "POSTGRES_MIRROR")

	setBool(&cfg.Redis.Enabled, "REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setStr(&cfg.Redis.Prefix, "REDIS_PREFIX")
	setStr(&cfg.Redis.Stream, "REDIS_STREAM")
	setStr(&cfg.Redis.Channel, "REDIS_CHANNEL")
	setInt64(&cfg.Redis.MaxLen, "REDIS_MAX_LEN")

	setBool(&cfg.AMQP.Enabled, "AMQP_ENABLED")
	setStr(&cfg.AMQP.URL, "AMQP_URL")
	setStr(&cfg.AMQP.Exchange, "AMQP_EXCHANGE")
	setStr(&cfg.AMQP.RoutingKey, "AMQP_ROUTING_KEY")

	setStr(&cfg.Metrics.Textfile, "METRICS_TEXTFILE")

	setStr(&cfg.Display.Timezone, "TIMEZONE")
	setBool(&cfg.Display.Plain, "PLAIN")

	setStr(&cfg.LogLevel, "LOG_LEVEL")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setStr(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := lookup(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
