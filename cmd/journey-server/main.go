package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey/provider"
	"github.com/theimaginaryfoundation/kingdom-journeys/view"
	"github.com/theimaginaryfoundation/kingdom-journeys/web"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	cfg = applyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	logger := newLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	if envErr != nil {
		slog.Info("No .env file found, using environment variables")
	}

	renderer, err := view.NewRenderer(web.Templates())
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	gen := journey.NewGenerator(newCompleter(cfg, logger))
	ctrl := view.NewController(gen, cfg.PersonaType, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrlDone := make(chan struct{})
	go func() {
		defer close(ctrlDone)
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("View controller stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(view.NewHandler(ctrl, renderer, logger)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr, "model", cfg.Model, "persona_type", cfg.PersonaType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	<-ctrlDone

	slog.Info("Server stopped successfully")
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (PORT env var overrides the port)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use (e.g. gpt-5-mini)")
	fs.StringVar(&cfg.PersonaType, "persona", cfg.PersonaType, "Persona type generated on startup")
	fs.Int64Var(&cfg.MaxOutputTokens, "max-output-tokens", cfg.MaxOutputTokens, "Max output tokens per generation")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Grace period for in-flight requests on shutdown")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY and API_KEY env vars)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.PersonaType = strings.TrimSpace(cfg.PersonaType)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// newCompleter returns the OpenAI completer, or one that always fails when no key is
// configured so the page still serves and shows its error state.
func newCompleter(cfg Config, logger *slog.Logger) journey.Completer {
	if cfg.APIKey == "" {
		logger.Warn("No API key configured, every generation will fail", "env", "OPENAI_API_KEY")
		return provider.Unavailable{Reason: "missing OPENAI_API_KEY (or pass -api-key)"}
	}
	client := provider.NewClient(cfg.APIKey)
	return provider.NewOpenAI(&client, cfg.Model, cfg.MaxOutputTokens)
}

func newRouter(h *view.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Handle("/static/*", http.StripPrefix("/static/", web.StaticHandler()))
	h.RegisterRoutes(r)
	return r
}
