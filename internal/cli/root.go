package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "surveyetl",
	Short: "Load survey CSV exports into a PostgreSQL star schema",
	Long: `surveyetl loads the CSV exports of numbered surveys into a PostgreSQL
star schema: one answers_fact table plus reference dimensions.

Each load replaces the survey's fact rows. Rows are written in batches that
are committed as they complete, so a failed load keeps the batches already
written and reports which row stopped it.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or mapping file
  11 - Database connection failed
  13 - Database statement or commit failed
  14 - No column mapping registered for the survey
  15 - CSV source missing, unreadable or malformed
  16 - A CSV row lacks a mapped column`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for surveyetl")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", "",
		"Path to the project file (default: ./surveyetl.yaml when present)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// getConfigFlag returns the --config value, or "" when unset.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return ""
	}
	return path
}
