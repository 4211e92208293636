package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

const labelWidth = 24

func writePlanTable(w io.Writer, plan mealplan.Plan) error {
	fmt.Fprintf(w, "Weekly plan %s (%d kcal/day)\n\n", plan.ID, plan.DailyKcal)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Slot\t%s\n", strings.Join(mealplan.Weekdays[:], "\t"))
	for _, row := range plan.Rows() {
		cells := make([]string, len(row.Days))
		for i, card := range row.Days {
			cells[i] = cardCell(card)
		}
		fmt.Fprintf(tw, "%s (%d)\t%s\n", row.Slot, row.TargetKcal, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, slot := range plan.Slots {
		switch {
		case slot.Error != "":
			fmt.Fprintf(w, "%s: search failed (%s)\n", slot.Name, slot.Error)
		case slot.PoolSize == 0:
			fmt.Fprintf(w, "%s: no recipes matched\n", slot.Name)
		case slot.Relaxed:
			fmt.Fprintf(w, "%s: %d recipes (relaxed to %q)\n", slot.Name, slot.PoolSize, slot.SearchTerm)
		default:
			fmt.Fprintf(w, "%s: %d recipes from %s\n", slot.Name, slot.PoolSize, slot.Source)
		}
	}
	return nil
}

func cardCell(card *mealplan.RecipeCard) string {
	if card == nil {
		return "-"
	}
	label := card.Label
	if r := []rune(label); len(r) > labelWidth {
		label = string(r[:labelWidth-1]) + "…"
	}
	return fmt.Sprintf("%s (%d)", label, card.KcalPerServing)
}

func writePlanJSON(w io.Writer, plan mealplan.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		mealplan.Plan
		Weekdays []string           `json:"weekdays"`
		Rows     []mealplan.PlanRow `json:"rows"`
	}{plan, mealplan.Weekdays[:], plan.Rows()})
}

func writeTargets(w io.Writer, bmr int, target mealplan.CalorieTarget) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "BMR\t%d kcal\n", bmr)
	fmt.Fprintf(tw, "Daily target\t%d kcal\n", target.DailyKcal)
	for _, slot := range target.Slots {
		fmt.Fprintf(tw, "%s\t%d kcal\t%.0f%%\n", slot.Name, slot.Kcal, slot.Weight*100)
	}
	return tw.Flush()
}
