package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/config"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/handlers"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/identity"
)

type app struct {
	cfg      config.Config
	store    postgresengine.Store
	handlers handlers.Handlers
	closers  []func()
}

func openApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg}

	obs := handlers.Observability{Logger: logger}
	storeOptions := []postgresengine.Option{postgresengine.WithLogger(logger)}

	if cfg.Observability.Enabled {
		providers, err := config.NewObservabilityProviders(ctx, cfg.Observability)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, func() {
			if err := providers.Shutdown(); err != nil {
				log.Printf("⚠️ observability shutdown: %v", err)
			}
		})

		contextualLogger := config.NewContextualLogger(cfg, logger)
		obs.ContextualLogger = contextualLogger
		obs.Metrics = providers.MetricsCollector
		obs.Tracing = providers.TracingCollector

		storeOptions = append(storeOptions,
			postgresengine.WithContextualLogger(contextualLogger),
			postgresengine.WithMetrics(providers.MetricsCollector),
			postgresengine.WithTracing(providers.TracingCollector),
		)
	}

	store, closeStore, err := config.OpenStore(ctx, cfg, storeOptions...)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store = store
	a.closers = append(a.closers, closeStore)

	a.handlers, err = handlers.New(store, obs, cfg.RetryOptions()...)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close runs the closers in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}

	a.closers = nil
}

func (a *app) authenticator() (*identity.Authenticator, error) {
	if a.cfg.Auth.JWTSecret == "" {
		return nil, config.ErrMissingJWTSecret
	}

	return identity.NewAuthenticator(
		a.cfg.Auth.JWTSecret,
		a.store,
		identity.WithIssuer(a.cfg.Auth.JWTIssuer),
		identity.WithTTL(a.cfg.Auth.JWTTTL),
	)
}

func (a *app) actor(ctx context.Context, token string) (core.Actor, error) {
	auth, err := a.authenticator()
	if err != nil {
		return core.AnonymousActor(), err
	}

	return auth.Authenticate(ctx, token)
}
