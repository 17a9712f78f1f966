package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"convenz-admin/internal/admins"
	"convenz-admin/internal/auth"
	"convenz-admin/internal/cache"
	"convenz-admin/internal/config"
	"convenz-admin/internal/db"
	"convenz-admin/internal/plans"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	tokens := &auth.Manager{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL(), Issuer: "convenz-admin"}
	adminService := admins.NewService(admins.NewRepository(cols.Admins), tokens)
	created, err := adminService.EnsureSuperAdmin(ctx, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		log.Fatal(err)
	}
	if created {
		logger.Info("super admin created", slog.String("email", cfg.SeedAdminEmail))
	} else {
		logger.Info("super admin already present")
	}

	// Seeding through the plan service also drops cached plan lists of a
	// running API sharing the same Redis.
	var planCache cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" {
		if rc, err := cache.NewRedisFromURL(cfg.RedisURL); err == nil {
			planCache = rc
		}
	} else if cfg.RedisAddr != "" {
		planCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	defer planCache.Close()

	planService := plans.NewService(plans.NewRepository(cols.Plans), planCache, cfg.CacheTTL(), logger)
	inserted, err := planService.Seed(ctx, plans.Defaults)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("seed complete", slog.Int("plans_inserted", inserted), slog.Int("plans_total", len(plans.Defaults)))
}
