package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"openexchangerates-service/internal/domain/model"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"

	ResponseStyleCurrent = "current"
	ResponseStyleLegacy  = "legacy"
)

type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Provider ProviderConfig `envconfig:"OXR"`
	Cache    CacheConfig    `envconfig:"CACHE"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	ResponseStyle string `envconfig:"HTTP_RESPONSE_STYLE" default:"current"`
}

type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type ProviderConfig struct {
	AppID   string            `envconfig:"APP_ID" required:"true"`
	Tier    model.AccountTier `envconfig:"TIER" default:"free"`
	Symbols []string          `envconfig:"SYMBOLS"`
	BaseURL string            `envconfig:"BASE_URL" default:"https://openexchangerates.org/api"`
	Timeout time.Duration     `envconfig:"TIMEOUT" default:"10s"`
	// RPS of 0 disables outbound throttling.
	RPS      float64 `envconfig:"RPS" default:"0"`
	Burst    int     `envconfig:"BURST" default:"1"`
	Coalesce bool    `envconfig:"COALESCE" default:"false"`
}

type CacheConfig struct {
	Driver        string        `envconfig:"DRIVER" default:"memory"`
	TTL           time.Duration `envconfig:"TTL" default:"1h"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"10m"`
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	KeyPrefix     string        `envconfig:"KEY_PREFIX" default:"oxr:"`
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (*Config, error) {
	return Load(".env")
}

func Load(files ...string) (*Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	c.ResponseStyle = strings.ToLower(strings.TrimSpace(c.ResponseStyle))
	// An empty OXR_SYMBOLS means no filter.
	if len(c.Provider.Symbols) == 0 {
		c.Provider.Symbols = nil
	}
	for i, symbol := range c.Provider.Symbols {
		c.Provider.Symbols[i] = strings.ToUpper(strings.TrimSpace(symbol))
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.AppID) == "" {
		return errors.New("OXR_APP_ID must not be empty")
	}
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis, CacheDriverNone:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver)
	}
	switch c.ResponseStyle {
	case ResponseStyleCurrent, ResponseStyleLegacy:
	default:
		return fmt.Errorf("unknown HTTP_RESPONSE_STYLE %q", c.ResponseStyle)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.Provider.RPS < 0 {
		return fmt.Errorf("OXR_RPS must not be negative, got %v", c.Provider.RPS)
	}
	if c.Provider.RPS > 0 && c.Provider.Burst < 1 {
		return fmt.Errorf("OXR_BURST must be at least 1 when throttling, got %d", c.Provider.Burst)
	}
	return nil
}
