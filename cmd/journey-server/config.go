package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey/provider"
)

type Config struct {
	Addr            string
	Model           string
	PersonaType     string
	MaxOutputTokens int64
	LogLevel        string
	APIKey          string

	ShutdownTimeout time.Duration
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("missing -addr")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.MaxOutputTokens <= 0 {
		return errors.New("max-output-tokens must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown-timeout must be > 0")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Model:           "gpt-5-mini",
		PersonaType:     journey.DefaultPersonaType,
		MaxOutputTokens: provider.DefaultMaxOutputTokens,
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

// applyEnv fills what the flags left open from the environment: PORT replaces the
// port of Addr and the API key falls back to OPENAI_API_KEY, then API_KEY.
func applyEnv(cfg Config, getenv func(string) string) Config {
	if port := getenv("PORT"); port != "" {
		host, _, err := net.SplitHostPort(cfg.Addr)
		if err != nil {
			host = ""
		}
		cfg.Addr = net.JoinHostPort(host, port)
	}
	cfg.APIKey = provider.ResolveAPIKey(cfg.APIKey, getenv)
	return cfg
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid -log-level %q", s)
	}
	return lvl, nil
}
