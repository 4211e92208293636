package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/internal/infra/config"
	"github.com/yanqian/mealweek/internal/infra/poolstore"
	"github.com/yanqian/mealweek/internal/infra/recipes/edamam"
	"github.com/yanqian/mealweek/pkg/logger"
)

var (
	generateProfile  profileFlags
	generateGoal     string
	generateHealth   string
	generateCuisines []string
	generateExcluded []string
	generateTime     string
	generateCalories string
	generateFormat   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a weekly meal plan",
	Long: `Generate a seven day meal plan for the given profile.

Examples:
  mealplan generate --age 30 --weight 70 --height-cm 175 --sex male --activity moderate
  mealplan generate --age 41 --weight 150 --weight-unit lb --height-ft 5 --height-in 6 \
      --sex female --meals 4 --goal Low-Carb --cuisine italian --cuisine mexican --exclude peanut`,
	RunE: runGenerate,
}

func init() {
	generateProfile.register(generateCmd)
	flags := generateCmd.Flags()
	flags.StringVar(&generateGoal, "goal", "", "Dietary goal (Balanced, Low-Carb, Low-Fat)")
	flags.StringVar(&generateHealth, "health", "", "Health constraint (vegan, vegetarian, alcohol-free, peanut-free)")
	flags.StringSliceVar(&generateCuisines, "cuisine", nil, "Cuisine type, repeatable up to 5 (or \"any\")")
	flags.StringSliceVar(&generateExcluded, "exclude", nil, "Ingredient to exclude, repeatable")
	flags.StringVar(&generateTime, "time", "", "Total time window in minutes, e.g. 1-30 or 60+")
	flags.StringVar(&generateCalories, "calories", "", "Explicit kcal range for every query, e.g. 300-600")
	flags.StringVar(&generateFormat, "format", "table", "Output format (table, json)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewText()

	calorieRange, err := parseCalorieRange(generateCalories)
	if err != nil {
		return err
	}
	cuisines, err := mealplan.NewCuisineSelection(generateCuisines...)
	if err != nil {
		return err
	}
	planCfg := mealplan.Config{
		CacheTTL:           cfg.Cache.TTL,
		MaxMealsPerDay:     cfg.Planner.MaxMealsPerDay,
		DefaultMealsPerDay: cfg.Planner.DefaultMealsPerDay,
	}
	req, err := mealplan.Request{
		Profile:      generateProfile.input(),
		MealsPerDay:  generateProfile.meals,
		Goal:         generateGoal,
		Health:       generateHealth,
		Cuisines:     cuisines.Values(),
		Excluded:     generateExcluded,
		TimeWindow:   generateTime,
		CalorieRange: calorieRange,
	}.Normalize(planCfg)
	if err != nil {
		return err
	}
	if !cfg.HasCredentials() {
		return errors.New("recipe search credentials missing: set EDAMAM_APP_ID and EDAMAM_APP_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, closeStore, err := poolstore.Open(openCtx, cfg.Cache)
	cancel()
	if err != nil {
		log.Warn("pool store unavailable, caching in memory", "backend", cfg.Cache.Backend, "error", err)
		store, closeStore = poolstore.NewMemoryStore(), func() {}
	}
	defer closeStore()

	client := edamam.NewClient(edamam.Config{
		BaseURL:    cfg.Edamam.BaseURL,
		AppID:      cfg.Edamam.AppID,
		AppKey:     cfg.Edamam.AppKey,
		UserID:     cfg.Edamam.UserID,
		MaxResults: cfg.Edamam.MaxResults,
		ImageSize:  cfg.Edamam.ImageSize,
		Random:     cfg.Edamam.Random,
		Timeout:    cfg.Edamam.Timeout,
	}, edamam.RetryConfig{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
		BackoffFactor: cfg.Retry.BackoffFactor,
	}, nil, log)
	svc := mealplan.NewService(planCfg, client, store, nil, log)

	progress := mealplan.ObserverFunc(func(event mealplan.RetryEvent) {
		fmt.Fprintln(os.Stderr, event.Message())
	})
	plan, err := svc.GeneratePlan(ctx, req, progress)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if generateFormat == "json" {
		return writePlanJSON(out, plan)
	}
	return writePlanTable(out, plan)
}
