package directions

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/evswap/core/logger"
	"github.com/kilianp07/evswap/core/planner"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone   = "none"
	ProviderGoogle = "google"
)

// Config selects and configures the route provider.
type Config struct {
	Provider string        `json:"provider"`
	APIKey   string        `json:"api_key"`
	BaseURL  string        `json:"base_url"`
	Timeout  time.Duration `json:"timeout"`
	Cache    CacheConfig   `json:"cache"`
}

// CacheConfig enables the Redis route cache when Addr is set.
type CacheConfig struct {
	Addr     string        `json:"addr"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	TTL      time.Duration `json:"ttl"`
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
}

// Validate checks the provider settings.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderNone:
		return nil
	case ProviderGoogle:
		if c.APIKey == "" {
			return fmt.Errorf("directions: api_key is required for provider %s", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("directions: unknown provider %q", c.Provider)
	}
}

// New builds the configured provider. It returns a nil provider when
// directions are disabled.
func New(c Config, log logger.Logger) (planner.RouteProvider, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Provider == ProviderNone {
		return nil, nil
	}
	g, err := NewGoogleProvider(c.APIKey, c.BaseURL, c.Timeout)
	if err != nil {
		return nil, err
	}
	if c.Cache.Addr == "" {
		return g, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Cache.Addr,
		Password: c.Cache.Password,
		DB:       c.Cache.DB,
	})
	return NewCachedProvider(g, rdb, c.Cache.TTL, log), nil
}
