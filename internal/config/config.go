package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	AppName    = "Translation Catalog"
	AppVersion = "1.0.0"
)

// DefaultExportTTL bounds how long an export snapshot is served without recomputation.
const DefaultExportTTL = 60 * time.Second

type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	DataDir   string `env:"DATA_DIR" envDefault:"./data"`
	DBPath    string `env:"DB_PATH"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// JWTSecret signs access tokens. When empty a random secret is generated
	// once and persisted in the settings table.
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	LoginRPS      float64       `env:"LOGIN_RPS" envDefault:"1"`
	LoginBurst    int           `env:"LOGIN_BURST" envDefault:"5"`

	ExportTTL     time.Duration `env:"EXPORT_TTL" envDefault:"60s"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	WarmLocales   []string      `env:"WARM_LOCALES" envSeparator:","`
	RedisURL      string        `env:"REDIS_URL"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"catalog:export:"`

	SnowflakeNode int64 `env:"SNOWFLAKE_NODE" envDefault:"1"`
}

// Load reads CATALOG_* environment variables and fills in derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CATALOG_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "catalog.db")
	}
	cfg.DBPath = filepath.Clean(cfg.DBPath)
	cfg.DataDir = filepath.Clean(cfg.DataDir)
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.ExportTTL <= 0 {
		cfg.ExportTTL = DefaultExportTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if cfg.SnowflakeNode < 0 || cfg.SnowflakeNode > 1023 {
		return Config{}, fmt.Errorf("snowflake node %d out of range 0-1023", cfg.SnowflakeNode)
	}

	locales := cfg.WarmLocales[:0]
	for _, l := range cfg.WarmLocales {
		if l = strings.TrimSpace(l); l != "" {
			locales = append(locales, l)
		}
	}
	cfg.WarmLocales = locales

	return cfg, nil
}
