package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/yanqian/mealweek/pkg/errors"
)

const (
	poundsPerKg = 2.2046226218
	cmPerInch   = 2.54
)

// Validate rejects profiles that cannot produce a meaningful estimate.
func (p Profile) Validate() error {
	var problems []string
	if !positive(p.AgeYears) {
		problems = append(problems, "age must be positive")
	}
	if !positive(p.WeightKg) {
		problems = append(problems, "weight must be positive")
	}
	if !positive(p.HeightCm) {
		problems = append(problems, "height must be positive")
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		problems = append(problems, "sex must be male or female")
	}
	if !positive(p.ActivityMultiplier) {
		problems = append(problems, "activity multiplier must be positive")
	}
	if len(problems) > 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid profile", errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

// BMR returns the Harris-Benedict basal metabolic rate in kcal/day.
func BMR(p Profile) float64 {
	if p.Sex == SexMale {
		return 88.362 + 13.397*p.WeightKg + 4.799*p.HeightCm - 5.677*p.AgeYears
	}
	return 447.593 + 9.247*p.WeightKg + 3.098*p.HeightCm - 4.330*p.AgeYears
}

// DailyCalories scales BMR by the activity multiplier, rounded to whole kcal
// and never negative.
func DailyCalories(p Profile) int {
	kcal := int(math.Round(BMR(p) * p.ActivityMultiplier))
	if kcal < 0 {
		return 0
	}
	return kcal
}

// ToProfile normalizes units and resolves the activity level.
func (in ProfileInput) ToProfile() (Profile, error) {
	weight := in.Weight
	switch strings.ToLower(strings.TrimSpace(in.WeightUnit)) {
	case "", "kg":
	case "lb", "lbs":
		weight = PoundsToKg(weight)
	default:
		return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unsupported weight unit %q", in.WeightUnit), nil)
	}

	height := in.HeightCm
	if height <= 0 && (in.HeightFeet > 0 || in.HeightInches > 0) {
		height = FeetInchesToCm(in.HeightFeet, in.HeightInches)
	}

	activity := in.ActivityMultiplier
	if activity <= 0 {
		preset, ok := ActivityMultiplier(in.Activity)
		if !ok {
			return Profile{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown activity level %q", in.Activity), nil)
		}
		activity = preset
	}

	p := Profile{
		AgeYears:           in.AgeYears,
		WeightKg:           weight,
		HeightCm:           height,
		Sex:                Sex(strings.ToLower(strings.TrimSpace(in.Sex))),
		ActivityMultiplier: activity,
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// ActivityMultiplier resolves a named activity preset.
func ActivityMultiplier(level string) (float64, bool) {
	m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]
	return m, ok
}

// DietTag maps a dietary goal label (e.g. "Low-Carb") to the provider tag.
// Unknown goals mean no constraint and map to "".
func DietTag(goal string) string {
	return dietTags[strings.ToLower(strings.TrimSpace(goal))]
}

// HealthTag maps a health specification label to the provider tag.
func HealthTag(spec string) string {
	return healthTags[strings.ToLower(strings.TrimSpace(spec))]
}

func PoundsToKg(lb float64) float64 { return lb / poundsPerKg }

func KgToPounds(kg float64) float64 { return kg * poundsPerKg }

func FeetInchesToCm(feet, inches float64) float64 {
	return (feet*12 + inches) * cmPerInch
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
