package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML duration strings like "10s" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Asset identifies one tracked asset across the upstream sources.
type Asset struct {
	Symbol    string `yaml:"symbol"`    // e.g. BTC
	ID        string `yaml:"id"`        // CoinGecko id, e.g. bitcoin
	Subreddit string `yaml:"subreddit"` // headline pool, e.g. Bitcoin
}

// Feed names one market-news feed shared by all assets.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int      `yaml:"port"`
		ReadTimeout     Duration `yaml:"read_timeout"`
		WriteTimeout    Duration `yaml:"write_timeout"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Cache struct {
		Backend string `yaml:"backend"` // memory, redis, layered
		Memory  struct {
			MaxSize         int      `yaml:"max_size"`
			CleanupInterval Duration `yaml:"cleanup_interval"`
		} `yaml:"memory"`
		Redis struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Assets    []Asset `yaml:"assets"`
	CoinGecko struct {
		BaseURL           string   `yaml:"base_url"`
		Timeout           Duration `yaml:"timeout"`
		HistoricalTimeout Duration `yaml:"historical_timeout"`
		MaxRetries        int      `yaml:"max_retries"`
		RateLimit         struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"coingecko"`
	Reddit struct {
		BaseURL   string   `yaml:"base_url"`
		UserAgent string   `yaml:"user_agent"`
		Timeout   Duration `yaml:"timeout"`
		Limit     int      `yaml:"limit"`
	} `yaml:"reddit"`
	Feeds struct {
		Limit   int      `yaml:"limit"`
		Timeout Duration `yaml:"timeout"`
		Sources []Feed   `yaml:"sources"`
	} `yaml:"feeds"`
	Historical struct {
		MaxDays    int `yaml:"max_days"`
		BufferDays int `yaml:"buffer_days"`
	} `yaml:"historical"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		c.CoinGecko.BaseURL = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		c.Reddit.UserAgent = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(10 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.CoinGecko.Timeout == 0 {
		c.CoinGecko.Timeout = Duration(10 * time.Second)
	}
	if c.CoinGecko.HistoricalTimeout == 0 {
		c.CoinGecko.HistoricalTimeout = Duration(30 * time.Second)
	}
	if c.CoinGecko.MaxRetries == 0 {
		c.CoinGecko.MaxRetries = 3
	}
	if c.Reddit.Timeout == 0 {
		c.Reddit.Timeout = Duration(10 * time.Second)
	}
	if c.Reddit.Limit == 0 {
		c.Reddit.Limit = 10
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = Duration(10 * time.Second)
	}
	if c.Feeds.Limit == 0 {
		c.Feeds.Limit = 10
	}
	if c.Historical.MaxDays == 0 {
		c.Historical.MaxDays = 365
	}
	if c.Historical.BufferDays == 0 {
		c.Historical.BufferDays = 5
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("assets cannot be empty")
	}
	for i, a := range c.Assets {
		if a.Symbol == "" || a.ID == "" {
			return fmt.Errorf("assets[%d]: symbol and id are required", i)
		}
	}
	if c.CoinGecko.BaseURL == "" {
		return fmt.Errorf("coingecko.base_url is required")
	}
	if c.Reddit.BaseURL != "" && !strings.HasPrefix(c.Reddit.BaseURL, "http") {
		return fmt.Errorf("reddit.base_url must be an http(s) URL")
	}
	return nil
}
