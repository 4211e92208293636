package mealplan

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultSearchText is used when a query carries no search text.
	DefaultSearchText = "meal"
	// GenericSearchTerm is the relaxation term and the term for unknown slots.
	GenericSearchTerm = "recipe"

	calorieWindowHalfWidth = 120
	calorieWindowFloor     = 100
)

// ResponseFields is the fixed projection requested from the provider.
var ResponseFields = []string{
	"label", "image", "url", "yield", "ingredientLines", "calories",
	"totalNutrients", "dietLabels", "healthLabels", "totalTime",
}

// QueryInput is everything that shapes one recipe search.
type QueryInput struct {
	SearchText string
	// SlotKcal is the per-slot target; nil leaves calories unconstrained.
	SlotKcal *int
	Filters  Filters
}

// CalorieWindow returns [max(100, target-120), target+120].
func CalorieWindow(target int) CalorieRange {
	lower := target - calorieWindowHalfWidth
	if lower < calorieWindowFloor {
		lower = calorieWindowFloor
	}
	return CalorieRange{Min: lower, Max: target + calorieWindowHalfWidth}
}

func (r CalorieRange) String() string {
	return strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max)
}

// EffectiveCalories resolves the calorie constraint of a query. An explicit
// range in the filters wins over the per-slot window.
func (in QueryInput) EffectiveCalories() (CalorieRange, bool) {
	if in.Filters.CalorieRange != nil {
		return *in.Filters.CalorieRange, true
	}
	if in.SlotKcal != nil {
		return CalorieWindow(*in.SlotKcal), true
	}
	return CalorieRange{}, false
}

// BuildQuery turns a query input into provider search parameters. Account
// credentials and paging are added by the transport.
func BuildQuery(in QueryInput) url.Values {
	params := url.Values{}
	text := strings.TrimSpace(in.SearchText)
	if text == "" {
		text = DefaultSearchText
	}
	params.Set("q", text)

	if window, ok := in.EffectiveCalories(); ok {
		params.Set("calories", window.String())
	}
	for _, field := range ResponseFields {
		params.Add("field", field)
	}

	f := in.Filters
	if f.Diet != "" {
		params.Set("diet", f.Diet)
	}
	if f.Health != "" {
		params.Set("health", f.Health)
	}
	for _, cuisine := range f.Cuisines {
		if cuisine == "" || cuisine == AnyCuisine {
			continue
		}
		params.Add("cuisineType", cuisine)
	}
	for _, ingredient := range f.Excluded {
		if ingredient == "" {
			continue
		}
		params.Add("excluded", ingredient)
	}
	if f.TimeWindow != "" {
		params.Set("time", f.TimeWindow)
	}
	return params
}

// SearchTerm returns the search text for a slot: the slot name for known
// slots, GenericSearchTerm otherwise.
func SearchTerm(slot string) string {
	if _, ok := slotWeights[slot]; ok {
		return slot
	}
	return GenericSearchTerm
}
