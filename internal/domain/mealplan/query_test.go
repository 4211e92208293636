package mealplan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalorieWindow(t *testing.T) {
	cases := []struct {
		target int
		want   CalorieRange
	}{
		{target: 0, want: CalorieRange{Min: 100, Max: 120}},
		{target: 150, want: CalorieRange{Min: 100, Max: 270}},
		{target: 220, want: CalorieRange{Min: 100, Max: 340}},
		{target: 221, want: CalorieRange{Min: 101, Max: 341}},
		{target: 904, want: CalorieRange{Min: 784, Max: 1024}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CalorieWindow(tc.target), "target %d", tc.target)
	}
}

func TestCalorieWindowLowerBoundProperty(t *testing.T) {
	for target := 0; target <= 3000; target += 7 {
		w := CalorieWindow(target)
		require.GreaterOrEqual(t, w.Min, 100)
		require.Equal(t, target+120, w.Max)
		if target-120 > 100 {
			require.Equal(t, target-120, w.Min)
		}
	}
}

func TestBuildQueryFullFilters(t *testing.T) {
	kcal := 700
	params := BuildQuery(QueryInput{
		SearchText: "lunch",
		SlotKcal:   &kcal,
		Filters: Filters{
			Diet:       "low-carb",
			Health:     "vegan",
			Cuisines:   []string{"italian", "mexican"},
			Excluded:   []string{"peanuts", "shrimp"},
			TimeWindow: "1-30",
		},
	})

	require.Equal(t, "lunch", params.Get("q"))
	require.Equal(t, "580-820", params.Get("calories"))
	require.Equal(t, ResponseFields, params["field"])
	require.Equal(t, "low-carb", params.Get("diet"))
	require.Equal(t, "vegan", params.Get("health"))
	require.Equal(t, []string{"italian", "mexican"}, params["cuisineType"])
	require.Equal(t, []string{"peanuts", "shrimp"}, params["excluded"])
	require.Equal(t, "1-30", params.Get("time"))
}

func TestBuildQueryOmitsAbsentFilters(t *testing.T) {
	params := BuildQuery(QueryInput{SearchText: "  "})

	require.Equal(t, DefaultSearchText, params.Get("q"))
	for _, key := range []string{"calories", "diet", "health", "cuisineType", "excluded", "time"} {
		_, present := params[key]
		require.False(t, present, "unexpected %s parameter", key)
	}
	require.Len(t, params["field"], len(ResponseFields))
}

func TestBuildQueryExplicitRangeWins(t *testing.T) {
	kcal := 900
	params := BuildQuery(QueryInput{
		SearchText: "dinner",
		SlotKcal:   &kcal,
		Filters:    Filters{CalorieRange: &CalorieRange{Min: 300, Max: 500}},
	})
	require.Equal(t, []string{"300-500"}, params["calories"])
}

func TestBuildQuerySkipsAnyCuisine(t *testing.T) {
	params := BuildQuery(QueryInput{SearchText: "snack", Filters: Filters{Cuisines: []string{AnyCuisine}}})
	_, present := params["cuisineType"]
	require.False(t, present)
}

func TestSearchTerm(t *testing.T) {
	require.Equal(t, "breakfast", SearchTerm(SlotBreakfast))
	require.Equal(t, "snack", SearchTerm(SlotSnack))
	require.Equal(t, GenericSearchTerm, SearchTerm("brunch"))
}
