package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/internal/domain/nutrition"
)

// profileFlags are shared by every command that needs a calorie profile.
type profileFlags struct {
	age        float64
	weight     float64
	weightUnit string
	heightCm   float64
	heightFt   float64
	heightIn   float64
	sex        string
	activity   string
	multiplier float64
	meals      int
}

func (f *profileFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64Var(&f.age, "age", 0, "Age in years")
	flags.Float64Var(&f.weight, "weight", 0, "Body weight")
	flags.StringVar(&f.weightUnit, "weight-unit", "kg", "Weight unit (kg, lb)")
	flags.Float64Var(&f.heightCm, "height-cm", 0, "Height in centimetres")
	flags.Float64Var(&f.heightFt, "height-ft", 0, "Height in feet (with --height-in)")
	flags.Float64Var(&f.heightIn, "height-in", 0, "Additional inches of height")
	flags.StringVar(&f.sex, "sex", "", "Sex for the BMR formula (male, female)")
	flags.StringVar(&f.activity, "activity", "moderate", "Activity level (sedentary, light, moderate, active, very_active)")
	flags.Float64Var(&f.multiplier, "activity-multiplier", 0, "Explicit activity multiplier, overrides --activity")
	flags.IntVar(&f.meals, "meals", 0, "Meals per day (defaults to planner.defaultMealsPerDay)")
}

func (f *profileFlags) input() nutrition.ProfileInput {
	return nutrition.ProfileInput{
		AgeYears:           f.age,
		Weight:             f.weight,
		WeightUnit:         f.weightUnit,
		HeightCm:           f.heightCm,
		HeightFeet:         f.heightFt,
		HeightInches:       f.heightIn,
		Sex:                f.sex,
		Activity:           f.activity,
		ActivityMultiplier: f.multiplier,
	}
}

// parseCalorieRange accepts "min-max".
func parseCalorieRange(v string) (*mealplan.CalorieRange, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(v, "-")
	if !ok {
		return nil, fmt.Errorf("calorie range %q must look like min-max", v)
	}
	minKcal, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, fmt.Errorf("calorie range minimum: %w", err)
	}
	maxKcal, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, fmt.Errorf("calorie range maximum: %w", err)
	}
	return &mealplan.CalorieRange{Min: minKcal, Max: maxKcal}, nil
}
