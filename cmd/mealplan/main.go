package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "Plan a week of meals from a calorie profile",
	Long: `mealplan estimates daily calorie needs from a personal profile and
assembles a seven day meal plan from Edamam recipe searches.

Credentials are read from the same configuration as the server
(CONFIG_PATH, configs/config.yaml, EDAMAM_APP_ID, EDAMAM_APP_KEY).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
