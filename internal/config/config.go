// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultAPIURL       = "http://localhost:5000"
	DefaultAddr         = ":8080"
	DefaultDBPath       = "newsdesk.db"
	DefaultChatInterval = 10 * time.Second
	DefaultHTTPTimeout  = 15 * time.Second
	DefaultView         = "austria"
)

// Config holds the settings of one newsdesk process.
type Config struct {
	APIURL       string        // content API base URL
	Addr         string        // listen address of the web host
	DBPath       string        // SQLite file for local state
	DatabaseURL  string        // PostgreSQL connection string; overrides DBPath
	ChatInterval time.Duration // chat polling period
	HTTPTimeout  time.Duration // per-request timeout against the content API
	DefaultView  string        // view selected on startup
}

// Load reads a .env file if present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIURL:       getenv("NEWSDESK_API_URL", DefaultAPIURL),
		Addr:         getenv("NEWSDESK_ADDR", DefaultAddr),
		DBPath:       getenv("NEWSDESK_DB_PATH", DefaultDBPath),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DefaultView:  getenv("NEWSDESK_DEFAULT_VIEW", DefaultView),
		ChatInterval: DefaultChatInterval,
		HTTPTimeout:  DefaultHTTPTimeout,
	}

	var err error
	if cfg.ChatInterval, err = duration("NEWSDESK_CHAT_INTERVAL", DefaultChatInterval); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = duration("NEWSDESK_HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
