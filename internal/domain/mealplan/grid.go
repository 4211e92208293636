package mealplan

// TileWeek lays each slot pool across the week, reusing recipes
// cyclically: cell (r, c) is pools[r][c mod len(pools[r])]. Empty pools
// yield a row of nil cells.
func TileWeek(pools []RecipePool) PlanGrid {
	grid := make(PlanGrid, len(pools))
	for r, pool := range pools {
		row := make([]*Recipe, DaysPerWeek)
		if len(pool) > 0 {
			for c := range row {
				row[c] = pool[c%len(pool)]
			}
		}
		grid[r] = row
	}
	return grid
}

// Cell returns the recipe at (slot, day) or nil when out of range or empty.
func (g PlanGrid) Cell(slot, day int) *Recipe {
	if slot < 0 || slot >= len(g) || day < 0 || day >= len(g[slot]) {
		return nil
	}
	return g[slot][day]
}

// IsEmpty reports whether no cell holds a recipe.
func (g PlanGrid) IsEmpty() bool {
	for _, row := range g {
		for _, cell := range row {
			if cell != nil {
				return false
			}
		}
	}
	return true
}
