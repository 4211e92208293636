package mealplan

import "github.com/yanqian/mealweek/internal/domain/nutrition"

// IngredientPreview is the number of ingredient lines shown per card.
const IngredientPreview = 6

// RecipeCard is the per-serving presentation of a planned recipe.
type RecipeCard struct {
	Label            string         `json:"label"`
	ImageURL         string         `json:"imageUrl,omitempty"`
	SourceURL        string         `json:"sourceUrl,omitempty"`
	Servings         float64        `json:"servings"`
	KcalPerServing   int            `json:"kcalPerServing"`
	MacrosPerServing map[string]int `json:"macrosPerServing"`
	Ingredients      []string       `json:"ingredients,omitempty"`
	MoreIngredients  int            `json:"moreIngredients,omitempty"`
	TotalTimeMinutes *float64       `json:"totalTimeMinutes,omitempty"`
}

// NewRecipeCard derives the card for r; nil in, nil out.
func NewRecipeCard(r *Recipe) *RecipeCard {
	if r == nil {
		return nil
	}
	macros := make(map[string]int, len(nutrition.MacroCodes))
	for _, code := range nutrition.MacroCodes {
		macros[code] = nutrition.GramsPerServing(r.NutrientsTotal[code], r.Servings)
	}
	card := &RecipeCard{
		Label:            r.Label,
		ImageURL:         r.ImageURL,
		SourceURL:        r.SourceURL,
		Servings:         r.Servings,
		KcalPerServing:   nutrition.KcalPerServing(r.KcalTotal, r.Servings),
		MacrosPerServing: macros,
		TotalTimeMinutes: r.TotalTimeMinutes,
	}
	lines := r.IngredientLines
	if len(lines) > IngredientPreview {
		card.MoreIngredients = len(lines) - IngredientPreview
		lines = lines[:IngredientPreview]
	}
	card.Ingredients = lines
	return card
}

// PlanRow is one slot of the plan laid out Monday to Sunday.
type PlanRow struct {
	Slot       string        `json:"slot"`
	TargetKcal int           `json:"targetKcal"`
	Days       []*RecipeCard `json:"days"`
}

// Rows renders the grid as cards, one row per slot.
func (p Plan) Rows() []PlanRow {
	rows := make([]PlanRow, len(p.Grid))
	for r := range p.Grid {
		row := PlanRow{Days: make([]*RecipeCard, DaysPerWeek)}
		if r < len(p.Slots) {
			row.Slot = p.Slots[r].Name
			row.TargetKcal = p.Slots[r].Kcal
		}
		for c := 0; c < DaysPerWeek; c++ {
			row.Days[c] = NewRecipeCard(p.Grid.Cell(r, c))
		}
		rows[r] = row
	}
	return rows
}
