package mealplan

import (
	"fmt"
	"math"

	apperrors "github.com/yanqian/mealweek/pkg/errors"
)

const (
	SlotBreakfast = "breakfast"
	SlotSnack     = "snack"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"

	defaultSlotWeight = 0.25
	minSlotKcal       = 120
)

var slotWeights = map[string]float64{
	SlotBreakfast: 0.30,
	SlotSnack:     0.10,
	SlotLunch:     0.37,
	SlotDinner:    0.23,
}

// SlotNames lays out the meals of one day.
func SlotNames(count int) []string {
	switch count {
	case 3:
		return []string{SlotBreakfast, SlotLunch, SlotDinner}
	case 4:
		return []string{SlotBreakfast, SlotSnack, SlotLunch, SlotDinner}
	case 5:
		return []string{SlotBreakfast, SlotSnack, SlotLunch, SlotSnack, SlotDinner}
	}
	if count < 1 {
		return nil
	}
	names := make([]string, count)
	for i := range names {
		names[i] = SlotLunch
	}
	names[0] = SlotBreakfast
	if count > 1 {
		names[count-1] = SlotDinner
	}
	return names
}

// SlotWeight returns the fixed weight for a slot name.
func SlotWeight(name string) float64 {
	if w, ok := slotWeights[name]; ok {
		return w
	}
	return defaultSlotWeight
}

// Slots returns the day's slot specs with weights renormalized to sum to 1.
func Slots(count int) []SlotSpec {
	names := SlotNames(count)
	if len(names) == 0 {
		return nil
	}
	var total float64
	for _, name := range names {
		total += SlotWeight(name)
	}
	specs := make([]SlotSpec, len(names))
	for i, name := range names {
		specs[i] = SlotSpec{Name: name, Weight: SlotWeight(name) / total}
	}
	return specs
}

// PlanSlots resolves per-slot kcal targets: round(daily x weight), floored
// at 120 kcal.
func PlanSlots(count, dailyKcal int) (CalorieTarget, error) {
	if count < 1 {
		return CalorieTarget{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("meal count must be at least 1, got %d", count), nil)
	}
	if dailyKcal < 0 {
		dailyKcal = 0
	}
	specs := Slots(count)
	targets := make([]SlotTarget, len(specs))
	for i, spec := range specs {
		kcal := int(math.Round(float64(dailyKcal) * spec.Weight))
		if kcal < minSlotKcal {
			kcal = minSlotKcal
		}
		targets[i] = SlotTarget{SlotSpec: spec, Kcal: kcal}
	}
	return CalorieTarget{DailyKcal: dailyKcal, Slots: targets}, nil
}
