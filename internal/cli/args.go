package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// RequireSurveyNumber validates that exactly one positive survey number is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireSurveyNumber(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <survey_number>

Usage: %s

Example:
  %s 1523

Use 'surveyetl surveys' to see registered surveys.`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	if _, err := parseSurveyNumber(args[0]); err != nil {
		return err
	}
	return nil
}

func parseSurveyNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid argument %q: survey number must be a positive integer", arg)
	}
	return n, nil
}
