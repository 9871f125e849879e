package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Forge     ForgeConfig     `mapstructure:"forge"`
	Warmup    WarmupConfig    `mapstructure:"warmup"`
	Sources   SourcesConfig   `mapstructure:"sources"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// HTTPConfig tunes the shared upstream HTTP client.
type HTTPConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Retries     int           `mapstructure:"retries"`
	BackoffStep time.Duration `mapstructure:"backoff_step"`
}

// RateLimitConfig sets the per-source request ceiling.
type RateLimitConfig struct {
	RPS float64 `mapstructure:"rps"`
}

type ForgeConfig struct {
	DefaultSource string `mapstructure:"default_source"`
}

// WarmupConfig schedules background cache refreshes. An empty schedule disables them.
type WarmupConfig struct {
	Schedule string `mapstructure:"schedule"`
}

type SourcesConfig struct {
	Reddit   RedditConfig   `mapstructure:"reddit"`
	MemeAPI  MemeAPIConfig  `mapstructure:"memeapi"`
	MultiAPI MultiAPIConfig `mapstructure:"multiapi"`
}

// CacheConfig holds the cache and dedup parameters shared by every handler.
type CacheConfig struct {
	FreshFor     time.Duration `mapstructure:"fresh_for"`
	MinCached    int           `mapstructure:"min_cached"`
	MaxRecent    int           `mapstructure:"max_recent"`
	DefaultLimit int           `mapstructure:"default_limit"`
}

type RedditConfig struct {
	Enabled    bool        `mapstructure:"enabled"`
	BaseURL    string      `mapstructure:"base_url"`
	Subreddits []string    `mapstructure:"subreddits"`
	PageSize   int         `mapstructure:"page_size"`
	Cache      CacheConfig `mapstructure:"cache"`
}

type MemeAPIConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base_url"`
	Endpoints []string      `mapstructure:"endpoints"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Cache     CacheConfig   `mapstructure:"cache"`
}

type MultiAPIConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	WantURL        string        `mapstructure:"want_url"`
	WantPolls      int           `mapstructure:"want_polls"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	WantTimeout    time.Duration `mapstructure:"want_timeout"`
	MemeAPIBaseURL string        `mapstructure:"memeapi_base_url"`
	Subreddits     []string      `mapstructure:"subreddits"`
	PerSubreddit   int           `mapstructure:"per_subreddit"`
	MemeAPITimeout time.Duration `mapstructure:"memeapi_timeout"`
	Cache          CacheConfig   `mapstructure:"cache"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "GIN_MODE")
	v.BindEnv("rate_limit.rps", "RATE_LIMIT_RPS")
	v.BindEnv("forge.default_source", "MEMEFORGE_DEFAULT_SOURCE")
	v.BindEnv("warmup.schedule", "MEMEFORGE_WARMUP_SCHEDULE")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("http.retries", 3)
	v.SetDefault("http.backoff_step", 3*time.Second)

	v.SetDefault("rate_limit.rps", 1.0)
	v.SetDefault("forge.default_source", "multiapi")
	v.SetDefault("warmup.schedule", "")

	v.SetDefault("sources.reddit.enabled", true)
	v.SetDefault("sources.reddit.base_url", "https://www.reddit.com")
	v.SetDefault("sources.reddit.subreddits", []string{"memes", "dankmemes", "me_irl", "MAAU", "wholesomememes", "yo_elvr"})
	v.SetDefault("sources.reddit.page_size", 50)
	v.SetDefault("sources.reddit.cache.fresh_for", 2*time.Minute)
	v.SetDefault("sources.reddit.cache.min_cached", 20)
	v.SetDefault("sources.reddit.cache.max_recent", 300)
	v.SetDefault("sources.reddit.cache.default_limit", 30)

	v.SetDefault("sources.memeapi.enabled", true)
	v.SetDefault("sources.memeapi.base_url", "https://meme-api.com")
	v.SetDefault("sources.memeapi.endpoints", []string{"/gimme/50", "/gimme/memes/50", "/gimme/dankmemes/50"})
	v.SetDefault("sources.memeapi.timeout", 8*time.Second)
	v.SetDefault("sources.memeapi.cache.fresh_for", 5*time.Minute)
	v.SetDefault("sources.memeapi.cache.min_cached", 10)
	v.SetDefault("sources.memeapi.cache.max_recent", 200)
	v.SetDefault("sources.memeapi.cache.default_limit", 20)

	v.SetDefault("sources.multiapi.enabled", true)
	v.SetDefault("sources.multiapi.want_url", "https://api.want.cat/api/memes")
	v.SetDefault("sources.multiapi.want_polls", 20)
	v.SetDefault("sources.multiapi.poll_interval", 200*time.Millisecond)
	v.SetDefault("sources.multiapi.want_timeout", 8*time.Second)
	v.SetDefault("sources.multiapi.memeapi_base_url", "https://meme-api.com")
	v.SetDefault("sources.multiapi.subreddits", []string{"MAAU", "yo_elvr", "LatinoPeopleTwitter"})
	v.SetDefault("sources.multiapi.per_subreddit", 20)
	v.SetDefault("sources.multiapi.memeapi_timeout", 10*time.Second)
	v.SetDefault("sources.multiapi.cache.fresh_for", 3*time.Minute)
	v.SetDefault("sources.multiapi.cache.min_cached", 10)
	v.SetDefault("sources.multiapi.cache.max_recent", 150)
	v.SetDefault("sources.multiapi.cache.default_limit", 20)
}

// Validate checks that the configuration is usable.
// Returns an error describing the first validation failure, or nil if valid.
func (c *Config) Validate() error {
	if c.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries must not be negative")
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be positive")
	}

	caches := map[string]CacheConfig{
		"reddit":   c.Sources.Reddit.Cache,
		"memeapi":  c.Sources.MemeAPI.Cache,
		"multiapi": c.Sources.MultiAPI.Cache,
	}
	for name, cc := range caches {
		if err := cc.Validate(); err != nil {
			return fmt.Errorf("sources.%s.cache: %w", name, err)
		}
	}

	if !c.SourceEnabled(c.Forge.DefaultSource) {
		return fmt.Errorf("forge.default_source %q is not an enabled source", c.Forge.DefaultSource)
	}
	return nil
}

// Validate checks the cache parameters of one source.
func (c CacheConfig) Validate() error {
	if c.FreshFor <= 0 {
		return fmt.Errorf("fresh_for must be positive")
	}
	if c.MaxRecent <= 0 {
		return fmt.Errorf("max_recent must be positive")
	}
	if c.MinCached < 0 || c.DefaultLimit <= 0 {
		return fmt.Errorf("min_cached must not be negative and default_limit must be positive")
	}
	return nil
}

// SourceEnabled reports whether the built-in source with the given name is enabled.
func (c *Config) SourceEnabled(name string) bool {
	switch name {
	case "reddit":
		return c.Sources.Reddit.Enabled
	case "memeapi":
		return c.Sources.MemeAPI.Enabled
	case "multiapi":
		return c.Sources.MultiAPI.Enabled
	}
	return false
}
