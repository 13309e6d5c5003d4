package main

import (
	"errors"
	"time"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey/provider"
)

type Config struct {
	PersonaType     string
	Model           string
	MaxOutputTokens int64
	OutPath         string
	Pretty          bool
	Overwrite       bool
	APIKey          string
	Timeout         time.Duration
}

func (c Config) Validate() error {
	if c.PersonaType == "" {
		return errors.New("missing -persona")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.MaxOutputTokens <= 0 {
		return errors.New("max-output-tokens must be > 0")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be >= 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		PersonaType:     journey.DefaultPersonaType,
		Model:           "gpt-5-mini",
		MaxOutputTokens: provider.DefaultMaxOutputTokens,
	}
}
