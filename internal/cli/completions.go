package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/internal/mapping"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// completeSurveyNumbers provides shell completion for registered survey numbers.
// It reads --mapping or $SURVEY_MAPPING when given, else the built-in mappings.
func completeSurveyNumbers(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	registry := mapping.Default()
	path, _ := cmd.Flags().GetString("mapping")
	if path == "" {
		path = os.Getenv(envMappingFile)
	}
	if path != "" {
		r, err := mapping.Load(filesystem.NewOSFileSystem(), path)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		registry = r
	}

	var matches []string
	for _, n := range registry.Surveys() {
		s := strconv.Itoa(n)
		if strings.HasPrefix(s, toComplete) {
			matches = append(matches, s)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeSSLModes provides shell completion for SSL mode flag values.
func completeSSLModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, mode := range sslModes {
		if strings.HasPrefix(mode, toComplete) {
			matches = append(matches, mode)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
