package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey/fileutils"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey/provider"
)

func main() {
	_ = godotenv.Load()

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	apiKey := provider.ResolveAPIKey(cfg.APIKey, os.Getenv)
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	client := provider.NewClient(apiKey)
	gen := journey.NewGenerator(provider.NewOpenAI(&client, cfg.Model, cfg.MaxOutputTokens))

	if err := run(ctx, cfg, gen, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type generator interface {
	Generate(ctx context.Context, personaType string) (journey.Journey, error)
}

func run(ctx context.Context, cfg Config, gen generator, stdout, stderr io.Writer) error {
	fmt.Fprintf(stderr, "progress generating persona=%q model=%s\n", cfg.PersonaType, cfg.Model)
	start := time.Now()

	j, err := gen.Generate(ctx, cfg.PersonaType)
	if err != nil {
		if preview := journey.OutputPreview(err); preview != "" {
			fmt.Fprintf(stderr, "raw output preview=%q\n", preview)
		}
		return fmt.Errorf("generate journey (kind=%s): %w", journey.Kind(err), err)
	}

	if cfg.OutPath != "" {
		if err := fileutils.WriteJSONFileAtomic(cfg.OutPath, j, cfg.Pretty, cfg.Overwrite); err != nil {
			return err
		}
	} else {
		b, err := fileutils.MarshalJSON(j, cfg.Pretty)
		if err != nil {
			return err
		}
		if _, err := stdout.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}

	positive := 0
	for _, s := range j.Stages {
		if journey.TierFor(s.SentimentScore) == journey.TierPositive {
			positive++
		}
	}
	fmt.Fprintf(stderr, "persona=%q travel_style=%s stages=%d positive=%d scores=%v out=%q elapsed=%s\n",
		j.Persona.Name, j.Persona.TravelStyle, len(j.Stages), positive, j.Scores(), cfg.OutPath, time.Since(start).Round(time.Millisecond))
	return nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.PersonaType, "persona", cfg.PersonaType, "Persona type to generate (e.g. Luxury, Adventure, Culinary)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use (e.g. gpt-5-mini)")
	fs.Int64Var(&cfg.MaxOutputTokens, "max-output-tokens", cfg.MaxOutputTokens, "Max output tokens for the generation")
	fs.StringVar(&cfg.OutPath, "out", "", "Optional output file for the journey JSON (default: stdout)")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print journey JSON")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite an existing -out file")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Optional deadline for the generation (0 = none)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY and API_KEY env vars)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.PersonaType = strings.TrimSpace(cfg.PersonaType)
	if cfg.OutPath != "" {
		cfg.OutPath = filepath.Clean(cfg.OutPath)
	}
	return cfg, nil
}
