package cmd

import (
	"fmt"
	"os"

	"github.com/arcanaland/bbcards/internal/validator"
	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a card directory for authoring mistakes",
	Long: `Validate checks a card directory before rendering it. It reports missing
deck files, card sizes that do not fit the paper and a malformed deck.toml
as errors, and flags cards whose markup or pick count will not print the
way they read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckPath := "."
		if len(args) > 0 {
			deckPath = args[0]
		}

		// Check if path exists
		if _, err := os.Stat(deckPath); os.IsNotExist(err) {
			return fmt.Errorf("card directory not found: %s", deckPath)
		}

		c, err := renderConfig(cmd)
		if err != nil {
			return err
		}
		g, err := c.Geometry()
		if err != nil {
			return err
		}

		// Create validator and run validation
		v := validator.NewValidator(deckPath, c.Files(), g)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if results.Valid() {
			colorize.Green("✅ '%s' is ready to render.", deckPath)
		} else {
			colorize.Red("❌ '%s' has %d errors:", deckPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println()
			colorize.Yellow("Warnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if !results.Valid() {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	addLayoutFlags(validateCmd)
}
