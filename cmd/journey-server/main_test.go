package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey/provider"
	"github.com/theimaginaryfoundation/kingdom-journeys/view"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("journey-server", flag.ContinueOnError)
	cfg, err := parseFlags(fs, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.Model != "gpt-5-mini" {
		t.Fatalf("Model=%q", cfg.Model)
	}
	if cfg.PersonaType != "Luxury" {
		t.Fatalf("PersonaType=%q", cfg.PersonaType)
	}
	if cfg.MaxOutputTokens != provider.DefaultMaxOutputTokens {
		t.Fatalf("MaxOutputTokens=%d", cfg.MaxOutputTokens)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("journey-server", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-addr", "127.0.0.1:9000",
		"-model", "gpt-5",
		"-persona", " Eco ",
		"-max-output-tokens", "2000",
		"-log-level", "DEBUG",
		"-shutdown-timeout", "3s",
		"-api-key", "k",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.Model != "gpt-5" {
		t.Fatalf("Addr=%q Model=%q", cfg.Addr, cfg.Model)
	}
	if cfg.PersonaType != "Eco" {
		t.Fatalf("PersonaType=%q", cfg.PersonaType)
	}
	if cfg.MaxOutputTokens != 2000 || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("MaxOutputTokens=%d ShutdownTimeout=%s", cfg.MaxOutputTokens, cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel=%q", cfg.LogLevel)
	}
	if cfg.APIKey != "k" {
		t.Fatalf("APIKey=%q", cfg.APIKey)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "addr", mutate: func(c *Config) { c.Addr = "" }},
		{name: "model", mutate: func(c *Config) { c.Model = "" }},
		{name: "tokens", mutate: func(c *Config) { c.MaxOutputTokens = 0 }},
		{name: "shutdown", mutate: func(c *Config) { c.ShutdownTimeout = 0 }},
		{name: "level", mutate: func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		cfg := defaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{"PORT": "3000", "API_KEY": "from-env"}
	cfg := applyEnv(defaultConfig(), func(k string) string { return env[k] })
	if cfg.Addr != ":3000" {
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("APIKey=%q", cfg.APIKey)
	}

	base := defaultConfig()
	base.Addr = "0.0.0.0:8080"
	base.APIKey = "flag"
	cfg = applyEnv(base, func(k string) string { return env[k] })
	if cfg.Addr != "0.0.0.0:3000" {
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.APIKey != "flag" {
		t.Fatalf("APIKey=%q", cfg.APIKey)
	}
}

func TestNewCompleter_WithoutKeyAlwaysFails(t *testing.T) {
	t.Parallel()

	c := newCompleter(defaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.Complete(context.Background(), "i", "p")
	if !errors.Is(err, journey.ErrTransport) {
		t.Fatalf("err=%v", err)
	}
}

func TestNewRouter_HealthAndStatic(t *testing.T) {
	t.Parallel()

	r := newRouter(view.NewHandler(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil))))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/health status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/static/app.js status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/ws") {
		t.Fatalf("unexpected app.js body")
	}
}
