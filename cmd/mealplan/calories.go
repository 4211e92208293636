package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/internal/domain/nutrition"
	"github.com/yanqian/mealweek/internal/infra/config"
)

var caloriesProfile profileFlags

var caloriesCmd = &cobra.Command{
	Use:   "calories",
	Short: "Estimate daily and per-meal calorie targets",
	RunE:  runCalories,
}

func init() {
	caloriesProfile.register(caloriesCmd)
	rootCmd.AddCommand(caloriesCmd)
}

func runCalories(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	profile, err := caloriesProfile.input().ToProfile()
	if err != nil {
		return err
	}
	meals := caloriesProfile.meals
	if meals == 0 {
		meals = cfg.Planner.DefaultMealsPerDay
	}
	if meals < 1 || meals > cfg.Planner.MaxMealsPerDay {
		return fmt.Errorf("meals must be between 1 and %d", cfg.Planner.MaxMealsPerDay)
	}
	target, err := mealplan.PlanSlots(meals, nutrition.DailyCalories(profile))
	if err != nil {
		return err
	}
	return writeTargets(cmd.OutOrStdout(), int(math.Round(nutrition.BMR(profile))), target)
}
