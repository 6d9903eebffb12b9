package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sydlexius/gallery/internal/provider/unsplash"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "" {
		t.Errorf("BasePath = %q, want empty after trim", cfg.Server.BasePath)
	}
	if cfg.Server.RequestsPerMinute != 60 {
		t.Errorf("RequestsPerMinute = %d, want 60", cfg.Server.RequestsPerMinute)
	}
	if cfg.Unsplash.BaseURL != unsplash.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.Unsplash.BaseURL)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("TTL = %s, want 5m", cfg.Cache.TTL)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "")
	t.Setenv("GALLERY_API_KEY", "")
	path := writeConfig(t, `
server:
  port: 9090
  base_path: /gallery/
unsplash:
  access_key: file-key
  base_url: http://localhost:1234/
cache:
  backend: memory
  size: 10
  ttl: 30s
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/gallery" {
		t.Errorf("BasePath = %q, want /gallery", cfg.Server.BasePath)
	}
	if cfg.Unsplash.AccessKey != "file-key" {
		t.Errorf("AccessKey = %q", cfg.Unsplash.AccessKey)
	}
	if cfg.Unsplash.BaseURL != "http://localhost:1234" {
		t.Errorf("BaseURL = %q", cfg.Unsplash.BaseURL)
	}
	if cfg.Cache.Size != 10 || cfg.Cache.TTL != 30*time.Second {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "unsplash:\n  access_key: file-key\n")
	t.Setenv("UNSPLASH_ACCESS_KEY", "env-key")
	t.Setenv("GALLERY_PORT", "7000")
	t.Setenv("GALLERY_CACHE_TTL", "1m")
	t.Setenv("GALLERY_RATE_LIMIT", "2.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Unsplash.AccessKey != "env-key" {
		t.Errorf("AccessKey = %q, want env-key", cfg.Unsplash.AccessKey)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("TTL = %s, want 1m", cfg.Cache.TTL)
	}
	if cfg.Unsplash.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v, want 2.5", cfg.Unsplash.RateLimit)
	}
}

func TestLoad_GalleryAPIKeyWins(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "a")
	t.Setenv("GALLERY_API_KEY", "b")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Unsplash.AccessKey != "b" {
		t.Errorf("AccessKey = %q, want b", cfg.Unsplash.AccessKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"GALLERY_PORT": "70000"}},
		{"unknown backend", map[string]string{"GALLERY_CACHE_BACKEND": "memcached"}},
		{"redis without addr", map[string]string{"GALLERY_CACHE_BACKEND": "redis"}},
		{"zero cache size", map[string]string{"GALLERY_CACHE_SIZE": "0"}},
		{"negative rate", map[string]string{"GALLERY_RATE_LIMIT": "-1"}},
		{"bad level", map[string]string{"GALLERY_LOG_LEVEL": "verbose"}},
		{"bad format", map[string]string{"GALLERY_LOG_FORMAT": "xml"}},
		{"relative base path", map[string]string{"GALLERY_BASE_PATH": "gallery"}},
		{"negative requests per minute", map[string]string{"GALLERY_REQUESTS_PER_MINUTE": "-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv("GALLERY_CACHE_BACKEND", "redis")
	t.Setenv("GALLERY_REDIS_ADDR", "localhost:6379")
	t.Setenv("GALLERY_REDIS_DB", "3")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 3 {
		t.Errorf("Redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Cache.Redis.Prefix != "gallery:" {
		t.Errorf("Prefix = %q, want default", cfg.Cache.Redis.Prefix)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	got := make(chan *Config, 1)
	w := NewWatcher(path, func(c *Config) {
		select {
		case got <- c:
		default:
		}
	}, logger)
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case cfg := <-got:
		if cfg.Logging.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Logging.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	<-done
}
