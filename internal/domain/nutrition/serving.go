package nutrition

import "math"

// KcalPerServing divides total recipe energy by its yield.
func KcalPerServing(totalKcal, servings float64) int {
	return int(math.Round(safe(totalKcal) / servingsOrOne(servings)))
}

// GramsPerServing divides a total nutrient quantity by the yield.
// Missing or non-finite quantities report zero.
func GramsPerServing(quantity, servings float64) int {
	q := safe(quantity)
	if q == 0 {
		return 0
	}
	return int(math.Round(q / servingsOrOne(servings)))
}

func servingsOrOne(s float64) float64 {
	if math.IsNaN(s) || s < 1 {
		return 1
	}
	return s
}

func safe(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
