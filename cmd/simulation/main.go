package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/config"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/handlers"
)

func main() {
	simCfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	violations, err := run(ctx, simCfg)
	stop()

	if err != nil {
		log.Printf("❌ simulation failed: %v", err)
		os.Exit(1)
	}

	if violations > 0 {
		os.Exit(2)
	}
}

//nolint:funlen
func run(ctx context.Context, simCfg Config) (int, error) {
	cfg, err := config.Load(simCfg.ConfigPath, simCfg.EnvFile)
	if err != nil {
		return 0, err
	}

	logger := config.NewLogger(os.Stderr, cfg.Log)
	log.Printf("🔧 USING DATABASE ADAPTER: %s", cfg.Database.Adapter)

	obs := handlers.Observability{Logger: logger}
	storeOptions := []postgresengine.Option{postgresengine.WithLogger(logger)}

	if cfg.Observability.Enabled {
		providers, err := config.NewObservabilityProviders(ctx, cfg.Observability)
		if err != nil {
			return 0, err
		}

		defer func() {
			if err := providers.Shutdown(); err != nil {
				log.Printf("⚠️ observability shutdown: %v", err)
			}
		}()

		contextualLogger := config.NewContextualLogger(cfg, logger)
		obs.ContextualLogger = contextualLogger
		obs.Metrics = providers.MetricsCollector
		obs.Tracing = providers.TracingCollector

		storeOptions = append(storeOptions,
			postgresengine.WithContextualLogger(contextualLogger),
			postgresengine.WithMetrics(providers.MetricsCollector),
			postgresengine.WithTracing(providers.TracingCollector),
		)

		log.Printf("Observability enabled: exporting to %s (traces) and %s (metrics)",
			cfg.Observability.TraceEndpoint, cfg.Observability.MetricEndpoint)
	}

	store, closeStore, err := config.OpenStore(ctx, cfg, storeOptions...)
	if err != nil {
		return 0, err
	}
	defer closeStore()

	if err = store.Migrate(ctx); err != nil {
		return 0, err
	}

	if simCfg.Truncate {
		log.Printf("Truncating ledger tables...")

		if err = store.Truncate(ctx); err != nil {
			return 0, err
		}
	}

	h, err := handlers.New(store, obs, cfg.RetryOptions()...)
	if err != nil {
		return 0, err
	}

	if simCfg.CPUProfile != "" {
		f, err := os.Create(simCfg.CPUProfile)
		if err != nil {
			return 0, err
		}
		defer func() { _ = f.Close() }()

		if err = pprof.StartCPUProfile(f); err != nil {
			return 0, err
		}
		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled, writing to %s", simCfg.CPUProfile)
	}

	report, err := NewRentalSimulation(h, store, simCfg).Run(ctx)
	if err != nil {
		return 0, err
	}

	return len(report.Violations), nil
}
