package mealplan

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yanqian/mealweek/internal/domain/nutrition"
	apperrors "github.com/yanqian/mealweek/pkg/errors"
)

var timeWindowPattern = regexp.MustCompile(`^\d+(-\d+|\+)?$`)

// Normalize validates the filters and returns a canonical copy: tags are
// lower-cased, set-valued fields are de-duplicated and sorted.
func (f Filters) Normalize() (Filters, error) {
	sel, err := NewCuisineSelection(f.Cuisines...)
	if err != nil {
		return Filters{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid cuisine selection", err)
	}

	out := Filters{
		Diet:       normalizeTag(f.Diet),
		Health:     normalizeTag(f.Health),
		Cuisines:   sel.Values(),
		Excluded:   normalizeSet(f.Excluded),
		TimeWindow: strings.ReplaceAll(strings.TrimSpace(f.TimeWindow), " ", ""),
	}
	if out.TimeWindow != "" && !timeWindowPattern.MatchString(out.TimeWindow) {
		return Filters{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("time window %q must look like 30, 10-30 or 60+", f.TimeWindow), nil)
	}
	if f.CalorieRange != nil {
		r := *f.CalorieRange
		if r.Min < 0 || r.Max <= 0 || r.Min > r.Max {
			return Filters{}, apperrors.Wrap(apperrors.CodeInvalidInput, "calorie range must satisfy 0 <= min <= max and max > 0", nil)
		}
		out.CalorieRange = &r
	}
	return out, nil
}

// canonical sorts set-valued fields without validating; used for cache keys.
func (f Filters) canonical() Filters {
	out := f
	out.Diet = normalizeTag(f.Diet)
	out.Health = normalizeTag(f.Health)
	out.Cuisines = normalizeSet(f.Cuisines)
	if len(out.Cuisines) == 1 && out.Cuisines[0] == AnyCuisine {
		out.Cuisines = nil
	}
	out.Excluded = normalizeSet(f.Excluded)
	out.TimeWindow = strings.ReplaceAll(strings.TrimSpace(f.TimeWindow), " ", "")
	return out
}

// Normalize converts a Request into a PlanRequest, applying the
// dietary goal and health mappings and the default meal count.
func (r Request) Normalize(cfg Config) (PlanRequest, error) {
	profile, err := r.Profile.ToProfile()
	if err != nil {
		return PlanRequest{}, err
	}

	meals := r.MealsPerDay
	if meals == 0 {
		meals = cfg.DefaultMealsPerDay
	}
	if meals < 1 || (cfg.MaxMealsPerDay > 0 && meals > cfg.MaxMealsPerDay) {
		return PlanRequest{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("mealsPerDay must be between 1 and %d", cfg.MaxMealsPerDay), nil)
	}

	filters, err := Filters{
		Diet:         nutrition.DietTag(r.Goal),
		Health:       nutrition.HealthTag(r.Health),
		Cuisines:     r.Cuisines,
		Excluded:     r.Excluded,
		TimeWindow:   r.TimeWindow,
		CalorieRange: r.CalorieRange,
	}.Normalize()
	if err != nil {
		return PlanRequest{}, err
	}

	return PlanRequest{Profile: profile, Filters: filters, MealsPerDay: meals}, nil
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		clean := normalizeTag(v)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
