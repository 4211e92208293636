package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/internal/infra/config"
	"github.com/yanqian/mealweek/internal/infra/poolstore"
	"github.com/yanqian/mealweek/internal/infra/recipes/edamam"
)

func provideMealPlanConfig(cfg *config.Config) mealplan.Config {
	return mealplan.Config{
		CacheTTL:           cfg.Cache.TTL,
		MaxMealsPerDay:     cfg.Planner.MaxMealsPerDay,
		DefaultMealsPerDay: cfg.Planner.DefaultMealsPerDay,
	}
}

func provideRetryConfig(cfg *config.Config) edamam.RetryConfig {
	return edamam.RetryConfig{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
		BackoffFactor: cfg.Retry.BackoffFactor,
	}
}

func provideEdamamConfig(cfg *config.Config, logger *slog.Logger) edamam.Config {
	if !cfg.HasCredentials() {
		logger.Warn("edamam credentials not set, recipe searches will be rejected upstream")
	}
	return edamam.Config{
		BaseURL:    cfg.Edamam.BaseURL,
		AppID:      cfg.Edamam.AppID,
		AppKey:     cfg.Edamam.AppKey,
		UserID:     cfg.Edamam.UserID,
		MaxResults: cfg.Edamam.MaxResults,
		ImageSize:  cfg.Edamam.ImageSize,
		Random:     cfg.Edamam.Random,
		Timeout:    cfg.Edamam.Timeout,
	}
}

// providePoolStore opens the configured cache backend, falling back to
// process memory when it cannot be reached.
func providePoolStore(cfg *config.Config, logger *slog.Logger) (mealplan.Store, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, closeFn, err := poolstore.Open(ctx, cfg.Cache)
	if err != nil {
		logger.Error("pool store unavailable, using memory pool store", "backend", cfg.Cache.Backend, "error", err)
		return poolstore.NewMemoryStore(), func() {}
	}
	logger.Info("pool store enabled", "backend", cfg.Cache.Backend)
	return store, closeFn
}
