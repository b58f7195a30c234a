// Command alignment-service serves POST /align: it corrects transcript
// segment timestamps against a forced-alignment word stream.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/aligner/alignment"
	"github.com/kbukum/aligner/bootstrap"
	"github.com/kbukum/aligner/config"
	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/forcedalign/replicate"
	"github.com/kbukum/aligner/forcedalign/whisperx"
	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/observability"
	"github.com/kbukum/aligner/provider"
	"github.com/kbukum/aligner/redis"
	"github.com/kbukum/aligner/server"
	"github.com/kbukum/aligner/server/endpoint"
	"github.com/kbukum/aligner/server/middleware"
	"github.com/kbukum/aligner/service"
)

func main() {
	cfg := defaultConfig()
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvAliases(envAliases)); err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), app); err != nil {
		app.Logger.Fatal("alignment service failed", logger.Fields(logger.FieldError, err.Error()))
	}
}

func run(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	log := app.Logger

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(shutdownTelemetry)

	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	p, err := newProvider(app, metrics)
	if err != nil {
		return err
	}

	aligner, err := alignment.New(cfg.Alignment)
	if err != nil {
		return err
	}
	svc := service.New(p, aligner, service.WithLogger(log), service.WithMetrics(metrics))
	handler := service.NewHandler(svc)

	srv := server.New(cfg.Server, log)
	var guards []gin.HandlerFunc
	if cfg.Auth.Enabled {
		validator, err := cfg.Auth.NewValidator()
		if err != nil {
			return fmt.Errorf("auth: %w", err)
		}
		guards = append(guards, middleware.Auth(validator))
	}
	handler.RegisterRoutes(srv.GinEngine(), guards...)

	replicateConfigured := replicateTokenSet(cfg.Provider.Replicate)
	srv.RegisterDefaultEndpoints(endpoint.Config{
		ServiceName: cfg.Name,
		Checker:     app.Components.HealthAll,
		Extras: append(handler.HealthExtras(), func(context.Context) (string, any) {
			return "replicate_configured", replicateConfigured
		}),
		Stats: map[string]endpoint.StatsFunc{"alignment": handler.StatsFunc()},
	})
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	log.Info("alignment service configured", logger.Fields(
		logger.FieldProvider, p.Name(),
		"provider_available", p.IsAvailable(ctx),
		"replicate_configured", replicateConfigured,
		"cache", cfg.Provider.Cache.Enabled,
		"auth", cfg.Auth.Describe(),
		"accept_threshold", cfg.Alignment.AcceptThreshold,
	))
	return app.Run(ctx)
}

// newProvider builds the configured forced-alignment provider with its
// middleware stack and, when enabled, the Redis word stream cache.
func newProvider(app *bootstrap.App[*AppConfig], metrics *observability.Metrics) (forcedalign.Provider, error) {
	cfg := app.Cfg
	log := app.Logger

	registry := forcedalign.NewRegistry()
	registry.RegisterFactory(replicate.ProviderName, replicate.Factory(replicate.WithLogger(log.WithComponent(replicate.ProviderName))))
	registry.RegisterFactory(whisperx.ProviderName, whisperx.Factory(log.WithComponent(whisperx.ProviderName)))

	p, err := registry.Create(cfg.Provider.Name, cfg.Provider.Section())
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", cfg.Provider.Name, err)
	}
	p = forcedalign.Wrap(p, forcedalign.WrapOptions{
		Logger:     log,
		Metrics:    metrics,
		Timeout:    cfg.Provider.Timeout,
		Resilience: provider.ResilienceFromConfig(p.Name(), cfg.Provider.Resilience),
	})

	if !cfg.Provider.Cache.Enabled {
		return p, nil
	}
	rc, err := redis.NewComponent(cfg.Redis, log)
	if err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(rc); err != nil {
		return nil, err
	}
	return forcedalign.NewCachedProvider(p, rc.Client(), cfg.Provider.Cache.TTL,
		forcedalign.WithCacheLogger(log),
		forcedalign.WithCacheMetrics(metrics),
	), nil
}

func replicateTokenSet(raw map[string]any) bool {
	rc, err := replicate.DecodeConfig(raw)
	return err == nil && rc.APIToken != ""
}
