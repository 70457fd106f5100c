// Package main implements the entry point for the rubro resolution service:
// canonical cost-line taxonomy resolution and reconciliation totals for
// budgeting data.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/rubro/aggregate"
	"github.com/c360/rubro/config"
	"github.com/c360/rubro/health"
	"github.com/c360/rubro/metric"
	"github.com/c360/rubro/pkg/cache"
	"github.com/c360/rubro/resolver"
	"github.com/c360/rubro/storage/filestore"
	"github.com/c360/rubro/storage/objectstore"
	"github.com/c360/rubro/taxonomy"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "rubro"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	// Normalize mode needs no configuration or taxonomy at all.
	if cliCfg.Normalize != "" {
		fmt.Println(taxonomy.Normalize(cliCfg.Normalize))
		return nil
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		return runValidate(cfg)
	}

	slog.Info("Starting rubro resolution service",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	ctx := context.Background()
	registry := metric.NewMetricsRegistry()

	loaded, natsConn := loadTaxonomy(ctx, cfg, logger, registry.CoreMetrics())
	if natsConn != nil {
		defer natsConn.Close()
	}

	sessionCache, err := cache.NewSimple(
		cache.WithMetrics[*resolver.Resolution](registry, "resolver"))
	if err != nil {
		return err
	}

	res, err := resolver.New(loaded.Index,
		resolver.WithLogger(logger),
		resolver.WithCache(sessionCache),
		resolver.WithMetrics(registry.CoreMetrics()))
	if err != nil {
		return err
	}

	if cliCfg.Serve {
		return runServe(ctx, cfg, cliCfg, loaded, registry)
	}
	return runResolve(cliCfg, res)
}

// runValidate checks that the configuration and the primary dataset parse.
func runValidate(cfg *config.Config) error {
	store, err := filestore.New(cfg.Taxonomy.Dir)
	if err != nil {
		return err
	}
	data, err := store.Get(context.Background(), cfg.Taxonomy.Key)
	if err != nil {
		slog.Warn("Primary dataset unavailable; service would start degraded", "error", err)
		slog.Info("Configuration is valid")
		return nil
	}
	ds, err := taxonomy.ParseDataset(data)
	if err != nil {
		return err
	}
	slog.Info("Configuration is valid", "dataset_version", ds.Version, "entries", ds.Len())
	return nil
}

// loadTaxonomy builds the load chain from configuration and runs it. The
// returned NATS connection is nil when the object-store fallback is disabled
// or unreachable.
func loadTaxonomy(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *metric.Metrics) (*taxonomy.LoadResult, *nats.Conn) {
	opts := []taxonomy.LoaderOption{
		taxonomy.WithLogger(logger),
		taxonomy.WithLoaderMetrics(metrics),
	}

	if primary, err := filestore.New(cfg.Taxonomy.Dir); err == nil {
		opts = append(opts, taxonomy.WithPrimary(primary))
	} else {
		logger.Warn("Primary taxonomy store unavailable", "dir", cfg.Taxonomy.Dir, "error", err)
	}

	var natsConn *nats.Conn
	if cfg.ObjectStoreEnabled() {
		conn, err := nats.Connect(cfg.NATS.URL, nats.Name(appName), nats.Timeout(5*time.Second))
		if err != nil {
			logger.Warn("NATS unavailable; object-store fallback disabled",
				"url", cfg.NATS.URL, "error", err)
		} else if js, jsErr := jetstream.New(conn); jsErr != nil {
			logger.Warn("JetStream unavailable; object-store fallback disabled", "error", jsErr)
			conn.Close()
		} else if fallback, osErr := objectstore.New(ctx, js, cfg.Taxonomy.ObjectStore, logger); osErr != nil {
			logger.Warn("ObjectStore fallback unavailable", "error", osErr)
			conn.Close()
		} else {
			natsConn = conn
			opts = append(opts, taxonomy.WithFallback(fallback))
		}
	}

	loader := taxonomy.NewLoader(cfg.Taxonomy.Key, opts...)
	return loader.Load(ctx), natsConn
}

// runResolve reads cost lines (JSON lines) from the input file or stdin,
// prints one resolution per line, then reconciliation totals.
func runResolve(cliCfg *CLIConfig, res *resolver.Resolver) error {
	var in io.Reader = os.Stdin
	if cliCfg.Input != "" {
		f, err := os.Open(cliCfg.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	type output struct {
		Record     resolver.Record `json:"record"`
		ID         string          `json:"id,omitempty"`
		Category   string          `json:"category,omitempty"`
		IsLabor    bool            `json:"is_labor"`
		Tier       string          `json:"tier,omitempty"`
		Unresolved bool            `json:"unresolved,omitempty"`
	}

	var lines []aggregate.CostLine
	enc := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line aggregate.CostLine
		if err := json.Unmarshal(raw, &line); err != nil {
			slog.Warn("Skipping malformed input line", "error", err)
			continue
		}
		lines = append(lines, line)

		out := output{Record: line.Record}
		if r := res.Resolve(line.Record); r != nil {
			out.ID = r.ID()
			out.Category = r.Category()
			out.IsLabor = r.IsLabor()
			out.Tier = r.Tier.String()
		} else {
			out.Unresolved = true
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	summary := struct {
		ByCategory []aggregate.Total    `json:"by_category"`
		Labor      aggregate.LaborSplit `json:"labor_split"`
	}{
		ByCategory: aggregate.ByCategory(res, lines),
		Labor:      aggregate.SplitLabor(res, lines),
	}
	return enc.Encode(summary)
}

// runServe exposes health and metrics endpoints until interrupted.
func runServe(ctx context.Context, cfg *config.Config, cliCfg *CLIConfig, loaded *taxonomy.LoadResult, registry *metric.MetricsRegistry) error {
	monitor := health.NewMonitor(appName)
	monitor.Register("taxonomy", func() health.Status {
		switch {
		case loaded.Source == taxonomy.SourceEmpty:
			return health.Degraded("taxonomy", "running with empty taxonomy; all lookups unresolved")
		case loaded.Source.Degraded():
			return health.Degraded("taxonomy",
				fmt.Sprintf("running on %s snapshot (version %s)", loaded.Source, loaded.Dataset.Version))
		default:
			return health.Healthy("taxonomy",
				fmt.Sprintf("dataset %s with %d entries", loaded.Dataset.Version, loaded.Dataset.Len()))
		}
	})

	errCh := make(chan error, 2)

	var metricsServer *metric.Server
	if cfg.Metrics.Port > 0 {
		metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		go func() {
			if err := metricsServer.Start(); err != nil {
				errCh <- err
			}
		}()
		slog.Info("Metrics server listening", "address", metricsServer.Address())
	}

	var healthServer *http.Server
	if cfg.Health.Port > 0 {
		mux := http.NewServeMux()
		mux.Handle("/healthz", monitor)
		healthServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
			Handler: mux,
		}
		go func() {
			if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
		slog.Info("Health server listening", "port", cfg.Health.Port)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("Shutting down", "signal", sig.String())
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cliCfg.ShutdownTimeout)
	defer cancel()

	if healthServer != nil {
		_ = healthServer.Shutdown(shutdownCtx)
	}
	if metricsServer != nil {
		_ = metricsServer.Stop()
	}
	return nil
}
