package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convenz-admin/internal/admins"
	"convenz-admin/internal/api"
	"convenz-admin/internal/auth"
	"convenz-admin/internal/bookings"
	"convenz-admin/internal/cache"
	"convenz-admin/internal/config"
	"convenz-admin/internal/customers"
	"convenz-admin/internal/dashboard"
	"convenz-admin/internal/db"
	"convenz-admin/internal/plans"
	"convenz-admin/internal/subscriptions"
	"convenz-admin/internal/validation"
	"convenz-admin/internal/vendors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheStore := connectCache(ctx, cfg, logger)
	defer cacheStore.Close()

	tokens := &auth.Manager{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL(),
		Issuer: "convenz-admin",
	}
	val := validation.New()
	expose := !cfg.IsProduction()

	adminService := admins.NewService(admins.NewRepository(cols.Admins), tokens)
	created, err := adminService.EnsureSuperAdmin(ctx, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		logger.Error("super admin seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		logger.Info("super admin created", slog.String("email", cfg.SeedAdminEmail))
	}

	vendorRepo := vendors.NewRepository(cols.Vendors)
	vendorSeq := db.NewSequence(cols.Counters, vendors.SequenceName)
	highest, err := vendorRepo.HighestSequence(ctx)
	if err != nil {
		logger.Error("vendor sequence scan failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := vendorSeq.EnsureAtLeast(ctx, highest); err != nil {
		logger.Error("vendor sequence init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	planService := plans.NewService(plans.NewRepository(cols.Plans), cacheStore, cfg.CacheTTL(), logger)
	subService := subscriptions.NewService(subscriptions.NewRepository(cols.Subscriptions), planService)
	customerService := customers.NewService(customers.NewRepository(cols.Users), subService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.NewRouter(api.Deps{
		Log:            logger,
		Tokens:         tokens,
		APIKey:         cfg.APIKey,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		Location:       cfg.Timezone,
		Registry:       registry,

		Admins:        admins.NewHandler(adminService, val, logger, expose),
		Vendors:       vendors.NewHandler(vendors.NewService(vendorRepo, vendorSeq), val, logger, expose),
		Customers:     customers.NewHandler(customerService, logger, expose),
		Plans:         plans.NewHandler(planService, val, logger, expose),
		Subscriptions: subscriptions.NewHandler(subService, val, logger, expose),
		Bookings:      bookings.NewHandler(bookings.NewService(bookings.NewRepository(cols.Bookings)), val, logger, expose),
		Dashboard:     dashboard.NewHandler(dashboard.NewService(dashboard.NewMongoSource(cols)), logger, expose),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

// connectCache returns the Redis cache when one is configured and reachable.
// Plans are served from Mongo alone otherwise.
func connectCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		logger.Info("redis disabled")
		return cache.NewNoop()
	}

	var redisCache *cache.RedisCache
	var err error
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
	} else {
		redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	if err != nil {
		logger.Warn("redis config invalid, caching disabled", slog.String("error", err.Error()))
		return cache.NewNoop()
	}
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, caching disabled", slog.String("error", err.Error()))
		_ = redisCache.Close()
		return cache.NewNoop()
	}

	if cfg.RedisURL != "" {
		logger.Info("redis connected (url)")
	} else {
		logger.Info("redis connected", slog.String("addr", cfg.RedisAddr))
	}
	return redisCache
}
