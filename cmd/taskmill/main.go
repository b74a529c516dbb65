// Command taskmill extracts actionable tasks from meeting transcripts.
//
// By default it runs an HTTP server exposing the extraction pipeline; with
// -transcript it runs one extraction and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"golang.org/x/sync/errgroup"

	"github.com/taskmill/taskmill/internal/assign"
	"github.com/taskmill/taskmill/internal/config"
	"github.com/taskmill/taskmill/internal/extract"
	"github.com/taskmill/taskmill/internal/extract/llmextract"
	"github.com/taskmill/taskmill/internal/health"
	"github.com/taskmill/taskmill/internal/observe"
	"github.com/taskmill/taskmill/internal/roster"
	"github.com/taskmill/taskmill/internal/server"
	"github.com/taskmill/taskmill/internal/taskstore"
	"github.com/taskmill/taskmill/pkg/provider/llm"
	"github.com/taskmill/taskmill/pkg/provider/llm/anyllm"
	"github.com/taskmill/taskmill/pkg/provider/llm/openai"
)

// shutdownGrace is how long in-flight requests get to finish on SIGTERM.
const shutdownGrace = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	transcriptPath := flag.String("transcript", "", "extract a single transcript file and print JSON instead of serving")
	teamID := flag.String("team", "", "team id whose roster assignees are resolved against (one-shot mode)")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "taskmill: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "taskmill: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel.Slog(),
	}))
	slog.SetDefault(logger)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	setup, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "taskmill"})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = setup.Shutdown(shutdownCtx)
	}()
	metrics := observe.DefaultMetrics()

	// ── Stores ────────────────────────────────────────────────────────────────
	var (
		rosterStore roster.Store
		taskStore   taskstore.Store
		checkers    []health.Checker
	)
	if cfg.Database.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			slog.Error("failed to connect to database", "err", err)
			return 1
		}
		defer pool.Close()

		if rosterStore, err = roster.NewPGStore(ctx, pool); err != nil {
			slog.Error("failed to initialise roster store", "err", err)
			return 1
		}
		if taskStore, err = taskstore.NewPGStore(ctx, pool); err != nil {
			slog.Error("failed to initialise task store", "err", err)
			return 1
		}
		checkers = append(checkers, health.Checker{Name: "database", Check: pool.Ping})
	} else {
		rosterStore = roster.NewMemStore()
		taskStore = taskstore.NewMemStore()
	}

	// ── Extraction pipeline ───────────────────────────────────────────────────
	resolverOpts := []assign.Option{}
	if cfg.Extraction.FuzzyAssignee {
		resolverOpts = append(resolverOpts, assign.WithFuzzyMatching(cfg.Extraction.FuzzyThreshold))
	}
	resolver := assign.New(resolverOpts...)

	svcOpts := []extract.ServiceOption{
		extract.WithRosterStore(rosterStore),
		extract.WithTaskStore(taskStore),
		extract.WithMetrics(metrics),
	}

	services := map[config.Mode]*extract.Service{
		config.ModeHeuristic: extract.NewService(extract.NewHeuristic(), resolver, svcOpts...),
	}

	if cfg.Extraction.Mode != config.ModeHeuristic {
		provider, err := buildProvider(cfg.Provider)
		if err != nil {
			slog.Error("failed to build completion provider", "err", err)
			return 1
		}

		adapterOpts := []llmextract.Option{llmextract.WithLogger(logger)}
		if cfg.Provider.Temperature > 0 {
			adapterOpts = append(adapterOpts, llmextract.WithTemperature(cfg.Provider.Temperature))
		}
		if cfg.Provider.MaxTokens > 0 {
			adapterOpts = append(adapterOpts, llmextract.WithMaxTokens(cfg.Provider.MaxTokens))
		}
		adapter := llmextract.New(provider, adapterOpts...)

		model := extract.NewModel(adapter, metrics)
		services[config.ModeModel] = extract.NewService(model, resolver, svcOpts...)
		services[config.ModeAuto] = extract.NewService(
			extract.NewFallback(model, extract.NewHeuristic(), logger),
			resolver, svcOpts...,
		)
	}

	// ── One-shot mode ─────────────────────────────────────────────────────────
	if *transcriptPath != "" {
		return runOnce(ctx, services[cfg.Extraction.Mode], *transcriptPath, *teamID)
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := server.New(services, cfg.Extraction.Mode, metrics,
		server.WithHealth(health.New(checkers...)),
		server.WithMetricsRegistry(setup.Registry),
		server.WithLogger(logger),
	)

	httpSrv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: srv.Handler(),
	}

	slog.Info("taskmill starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"mode", cfg.Extraction.Mode,
		"log_level", cfg.Server.LogLevel,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "err", err)
		return 1
	}
	slog.Info("taskmill stopped")
	return 0
}

// runOnce extracts a single transcript file and prints the result to stdout.
func runOnce(ctx context.Context, svc *extract.Service, path, teamID string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskmill: read transcript: %v\n", err)
		return 1
	}

	result, err := svc.Extract(ctx, string(data), teamID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskmill: extract: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "taskmill: encode result: %v\n", err)
		return 1
	}
	return 0
}

// buildProvider constructs the configured llm.Provider. The "openai" name
// uses the native client; everything else goes through any-llm.
func buildProvider(cfg config.ProviderConfig) (llm.Provider, error) {
	if cfg.Name == "openai" {
		key := cfg.APIKey()
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		opts := []openai.Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.TimeoutSeconds > 0 {
			opts = append(opts, openai.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
		}
		return openai.New(key, cfg.Model, opts...)
	}

	opts := []anyllmlib.Option{}
	if key := cfg.APIKey(); key != "" {
		opts = append(opts, anyllmlib.WithAPIKey(key))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(cfg.BaseURL))
	}
	return anyllm.New(cfg.Name, cfg.Model, opts...)
}
