package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SWEEPER_INTERVAL", "ORDER_MAX_AGE", "API_PREFIX", "SESSION_BACKEND", "DISPLAY_TIMEZONE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Sweeper.Interval != 10*time.Minute {
		t.Errorf("Expected sweeper interval 10m, got %v", cfg.Sweeper.Interval)
	}
	if cfg.Sweeper.OrderMaxAge != 4*time.Hour {
		t.Errorf("Expected order max age 4h, got %v", cfg.Sweeper.OrderMaxAge)
	}
	if cfg.Server.Prefix != "/api" {
		t.Errorf("Expected prefix /api, got %q", cfg.Server.Prefix)
	}
	if cfg.Session.Backend != "sqlite" {
		t.Errorf("Expected sqlite session backend, got %q", cfg.Session.Backend)
	}
	if cfg.Display.Timezone != "Asia/Tashkent" {
		t.Errorf("Expected Asia/Tashkent, got %q", cfg.Display.Timezone)
	}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, []string{"*"}) {
		t.Errorf("Expected wildcard origins, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SWEEPER_INTERVAL", "1m")
	t.Setenv("API_PREFIX", "v2/")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sweeper.Interval != time.Minute {
		t.Errorf("Expected 1m, got %v", cfg.Sweeper.Interval)
	}
	if cfg.Server.Prefix != "/v2" {
		t.Errorf("Expected /v2, got %q", cfg.Server.Prefix)
	}
	if cfg.Session.Backend != "redis" {
		t.Errorf("Expected redis, got %q", cfg.Session.Backend)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("Expected %v, got %v", want, cfg.Server.AllowedOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("ORDER_MAX_AGE", "four hours")
	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid duration")
	}

	t.Setenv("ORDER_MAX_AGE", "")
	t.Setenv("SESSION_BACKEND", "memcached")
	if _, err := Load(); err == nil {
		t.Error("Expected error for unknown session backend")
	}
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{
		"/api":  "/api",
		"/api/": "/api",
		"api":   "/api",
		"/":     "",
		"":      "",
	}
	for in, want := range cases {
		if got := normalizePrefix(in); got != want {
			t.Errorf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
