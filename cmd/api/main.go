package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/adbroadcast/website-backend/api"
	"github.com/adbroadcast/website-backend/api/routes"
	"github.com/adbroadcast/website-backend/internal/catalog"
	"github.com/adbroadcast/website-backend/internal/leads"
	"github.com/adbroadcast/website-backend/pkg/config"
	"github.com/adbroadcast/website-backend/pkg/db"
	"github.com/adbroadcast/website-backend/pkg/logger"
	"github.com/adbroadcast/website-backend/pkg/mailer"
	"github.com/adbroadcast/website-backend/pkg/metrics"
	"github.com/adbroadcast/website-backend/pkg/migrate"
	"github.com/adbroadcast/website-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, intake rate limiting disabled")
	}

	var source catalog.Source = catalog.FileSource{Path: cfg.Catalog.Path}
	if cfg.Catalog.URL != "" {
		source = catalog.NewHTTPSource(cfg.Catalog.URL, cfg.Catalog.FetchTimeout)
	}
	store := catalog.NewStore(source, logg)
	store.Load(ctx)

	sender, err := mailer.New(cfg.Mail, logg)
	if err != nil {
		logg.Error(ctx, "failed to configure mailer", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	leadMetrics := metrics.NewLeadMetrics(registry)

	leadService, err := leads.NewService(leads.ServiceParams{
		Repo:     leads.NewRepository(dbClient.DB()),
		Notifier: leads.NewNotifier(sender, cfg.Mail, logg, leadMetrics),
		Metrics:  leadMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create lead service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:      dbClient,
		Redis:   redisClient,
		Catalog: store,
		Leads:   leadService,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	port := os.Getenv("PORT")
	if port != "" {
		cfg.App.Port = port
	}
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     ":" + cfg.App.Port,
		"instance": id,
		"products": len(store.Products()),
	})
	logg.Info(ctx, "starting api server")

	if err := api.Serve(ctx, api.NewServer(cfg, router), logg, cfg.App.ShutdownTimeout); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
