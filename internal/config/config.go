package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/gallery/internal/provider/unsplash"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Unsplash UnsplashConfig `yaml:"unsplash"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	BasePath  string `yaml:"base_path"`
	StaticDir string `yaml:"static_dir"`
	// RequestsPerMinute caps how often one client IP may hit routes that
	// reach the photo API. Zero disables the limit.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// UnsplashConfig holds the photo API settings.
type UnsplashConfig struct {
	AccessKey string `yaml:"access_key"`
	BaseURL   string `yaml:"base_url"`
	// RateLimit paces outbound requests (requests per second). Zero disables pacing.
	RateLimit float64 `yaml:"rate_limit"`
}

// CacheConfig selects and sizes the result cache.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig holds settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"`
	FilePath       string `yaml:"file_path"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxFiles   int    `yaml:"file_max_files"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// Cache backend names.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			BasePath:          "/",
			StaticDir:         "web/static",
			RequestsPerMinute: 60,
		},
		Unsplash: UnsplashConfig{
			BaseURL: unsplash.DefaultBaseURL,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			Size:    256,
			TTL:     5 * time.Minute,
			Redis: RedisConfig{
				Prefix: "gallery:",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("GALLERY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("GALLERY_BASE_PATH"); v != "" {
		c.Server.BasePath = v
	}
	if v := os.Getenv("GALLERY_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("GALLERY_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.RequestsPerMinute = n
		}
	}
	// UNSPLASH_ACCESS_KEY is the name Unsplash uses in its own docs.
	if v := os.Getenv("UNSPLASH_ACCESS_KEY"); v != "" {
		c.Unsplash.AccessKey = v
	}
	if v := os.Getenv("GALLERY_API_KEY"); v != "" {
		c.Unsplash.AccessKey = v
	}
	if v := os.Getenv("GALLERY_UNSPLASH_BASE_URL"); v != "" {
		c.Unsplash.BaseURL = v
	}
	if v := os.Getenv("GALLERY_RATE_LIMIT"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.Unsplash.RateLimit = rps
		}
	}
	if v := os.Getenv("GALLERY_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("GALLERY_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.Size = n
		}
	}
	if v := os.Getenv("GALLERY_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = d
		}
	}
	if v := os.Getenv("GALLERY_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("GALLERY_REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("GALLERY_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Cache.Redis.DB = db
		}
	}
	if v := os.Getenv("GALLERY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GALLERY_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("GALLERY_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	c.Server.BasePath = strings.TrimRight(c.Server.BasePath, "/")
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("base path must start with /: %q", c.Server.BasePath)
	}
	if c.Server.RequestsPerMinute < 0 {
		return fmt.Errorf("invalid requests per minute: %d", c.Server.RequestsPerMinute)
	}

	c.Unsplash.BaseURL = strings.TrimRight(c.Unsplash.BaseURL, "/")
	if c.Unsplash.BaseURL == "" {
		return fmt.Errorf("unsplash base url is required")
	}
	if c.Unsplash.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %v", c.Unsplash.RateLimit)
	}

	switch c.Cache.Backend {
	case CacheMemory:
		if c.Cache.Size < 1 {
			return fmt.Errorf("invalid cache size: %d", c.Cache.Size)
		}
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("invalid cache ttl: %s", c.Cache.TTL)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}
