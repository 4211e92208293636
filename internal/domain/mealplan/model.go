package mealplan

import (
	"time"

	"github.com/yanqian/mealweek/internal/domain/nutrition"
)

// DaysPerWeek is the number of day columns in every plan grid.
const DaysPerWeek = 7

// Weekdays labels the grid columns.
var Weekdays = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Pool sources reported per slot.
const (
	SourceCache    = "cache"
	SourceUpstream = "upstream"
)

// Config holds runtime knobs for plan generation.
type Config struct {
	CacheTTL           time.Duration
	MaxMealsPerDay     int
	DefaultMealsPerDay int
}

// CalorieRange is an explicit kcal window for a recipe query.
type CalorieRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Filters constrains every recipe query of a plan. Zero values mean
// "no constraint", never "match empty".
type Filters struct {
	// Diet is the provider diet tag (balanced, low-carb, low-fat).
	Diet string `json:"diet,omitempty"`
	// Health is the provider health tag (vegan, vegetarian, ...).
	Health string `json:"health,omitempty"`
	// Cuisines holds at most MaxCuisines concrete cuisine types; empty means any.
	Cuisines []string `json:"cuisines,omitempty"`
	// Excluded ingredients are sent as one exclusion term each.
	Excluded []string `json:"excluded,omitempty"`
	// TimeWindow bounds total preparation minutes, e.g. "1-30" or "60+".
	TimeWindow string `json:"timeWindow,omitempty"`
	// CalorieRange replaces the per-slot calorie window when set.
	CalorieRange *CalorieRange `json:"calorieRange,omitempty"`
}

// Recipe is one search hit. Recipes are shared read-only between pools,
// the cache and plan grids.
type Recipe struct {
	Label            string             `json:"label"`
	ImageURL         string             `json:"imageUrl"`
	SourceURL        string             `json:"sourceUrl"`
	Servings         float64            `json:"servings"`
	KcalTotal        float64            `json:"kcalTotal"`
	NutrientsTotal   map[string]float64 `json:"nutrientsTotal,omitempty"`
	IngredientLines  []string           `json:"ingredientLines,omitempty"`
	DietLabels       []string           `json:"dietLabels,omitempty"`
	HealthLabels     []string           `json:"healthLabels,omitempty"`
	TotalTimeMinutes *float64           `json:"totalTimeMinutes,omitempty"`
}

// RecipePool is the ordered result of one upstream search.
type RecipePool []*Recipe

// CacheEntry is the unit persisted by a Store.
type CacheEntry struct {
	Key        string     `json:"key"`
	RecordedAt time.Time  `json:"recordedAt"`
	Pool       RecipePool `json:"pool"`
}

// SlotSpec names one meal of the day and its share of daily energy.
type SlotSpec struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// SlotTarget is a SlotSpec with its kcal target resolved.
type SlotTarget struct {
	SlotSpec
	Kcal int `json:"kcal"`
}

// CalorieTarget is derived from a profile and never stored on its own.
type CalorieTarget struct {
	DailyKcal int          `json:"dailyKcal"`
	Slots     []SlotTarget `json:"slots"`
}

// Request is the plan payload accepted from API and CLI consumers.
type Request struct {
	Profile      nutrition.ProfileInput `json:"profile"`
	MealsPerDay  int                    `json:"mealsPerDay"`
	Goal         string                 `json:"goal"`
	Health       string                 `json:"health"`
	Cuisines     []string               `json:"cuisines"`
	Excluded     []string               `json:"excluded"`
	TimeWindow   string                 `json:"timeWindow"`
	CalorieRange *CalorieRange          `json:"calorieRange"`
}

// PlanRequest is a validated Request.
type PlanRequest struct {
	Profile     nutrition.Profile
	Filters     Filters
	MealsPerDay int
}

// PlanGrid is indexed [slot][day]; a nil cell means the slot had no pool.
type PlanGrid [][]*Recipe

// SlotResult reports how one slot's pool was acquired.
type SlotResult struct {
	SlotTarget
	SearchTerm string `json:"searchTerm"`
	PoolSize   int    `json:"poolSize"`
	Relaxed    bool   `json:"relaxed"`
	Source     string `json:"source,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Plan is the outcome of one successful generation.
type Plan struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generatedAt"`
	DailyKcal   int          `json:"dailyKcal"`
	Filters     Filters      `json:"filters"`
	Slots       []SlotResult `json:"slots"`
	Grid        PlanGrid     `json:"-"`
}
