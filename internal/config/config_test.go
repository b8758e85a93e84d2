package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"NEWSDESK_API_URL", "NEWSDESK_ADDR", "NEWSDESK_DB_PATH", "DATABASE_URL",
		"NEWSDESK_CHAT_INTERVAL", "NEWSDESK_HTTP_TIMEOUT", "NEWSDESK_DEFAULT_VIEW",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		APIURL:       DefaultAPIURL,
		Addr:         DefaultAddr,
		DBPath:       DefaultDBPath,
		ChatInterval: DefaultChatInterval,
		HTTPTimeout:  DefaultHTTPTimeout,
		DefaultView:  DefaultView,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NEWSDESK_API_URL", "https://api.example")
	t.Setenv("NEWSDESK_CHAT_INTERVAL", "3s")
	t.Setenv("NEWSDESK_HTTP_TIMEOUT", "750ms")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/newsdesk")
	t.Setenv("NEWSDESK_DEFAULT_VIEW", "fundgrube")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://api.example" || cfg.ChatInterval != 3*time.Second ||
		cfg.HTTPTimeout != 750*time.Millisecond || cfg.DatabaseURL == "" || cfg.DefaultView != "fundgrube" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("NEWSDESK_CHAT_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for unparsable interval")
	}
	t.Setenv("NEWSDESK_CHAT_INTERVAL", "-1s")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative interval")
	}
}
