package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/internal/logging"
	"github.com/vvka-141/surveyetl/internal/mapping"
	"github.com/vvka-141/surveyetl/internal/ui"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

var surveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "List registered surveys and their CSV files",
	Long: `Surveys lists every survey of the mapping file in registration order,
with the CSV file a load would read and whether that file exists.
No database connection is made.

Examples:
  surveyetl surveys --csv-dir ./data
  surveyetl surveys --mapping ./surveys.yaml`,
	Args: cobra.NoArgs,
	RunE: runSurveys,
}

var surveysFlags dataFlags

func init() {
	rootCmd.AddCommand(surveysCmd)

	surveysCmd.Flags().StringVar(&surveysFlags.csvDir, "csv-dir", "",
		"Directory holding one CSV per survey (default: $CSV_DIR, surveyetl.yaml or current directory)")
	surveysCmd.Flags().StringVar(&surveysFlags.csvPattern, "csv-pattern", "",
		"File name pattern inside --csv-dir (default \"%d.csv\")")
	addMappingFlag(surveysCmd, &surveysFlags)
}

func runSurveys(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	projectCfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	loadCfg, err := buildLoadConfig(surveysFlags, projectCfg)
	if err != nil {
		return err
	}
	loadCfg.CSVPath = ""
	if loadCfg.CSVDir == "" {
		loadCfg.CSVDir = "."
	}

	fs := filesystem.NewOSFileSystem()
	registry, source, err := loadRegistry(fs, surveysFlags, projectCfg)
	if err != nil {
		return err
	}
	logger.Verbose("Survey mappings: %s", source)

	statuses := surveyStatuses(fs, registry, loadCfg)
	fmt.Fprintln(cmd.OutOrStdout(), ui.SurveyTable(statuses))
	return nil
}

// surveyStatuses resolves each registered survey's CSV path and checks that it exists.
func surveyStatuses(fs filesystem.FileSystemProvider, registry *mapping.Registry, cfg surveyetl.LoadConfig) []ui.SurveyStatus {
	numbers := registry.Surveys()
	out := make([]ui.SurveyStatus, 0, len(numbers))
	for _, n := range numbers {
		m, err := registry.Lookup(n)
		if err != nil {
			continue
		}
		path := cfg.SourcePath(n, m.File)
		info, err := fs.Stat(path)
		out = append(out, ui.SurveyStatus{
			Number: n,
			Year:   m.Year,
			Fields: len(m.Columns),
			Source: path,
			Found:  err == nil && !info.IsDir(),
		})
	}
	return out
}
