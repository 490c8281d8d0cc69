package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/internal/loader"
	"github.com/vvka-141/surveyetl/internal/logging"
	"github.com/vvka-141/surveyetl/internal/schema"
	"github.com/vvka-141/surveyetl/internal/store"
	"github.com/vvka-141/surveyetl/internal/ui"
)

var loadCmd = &cobra.Command{
	Use:   "load <survey_number>",
	Short: "Replace a survey's fact rows with its CSV export",
	Long: `Load purges the fact rows of one survey and reloads them from its CSV file.

The load command:
1. Resolves the survey's column mapping (or reads canonical headers with --fixed-columns)
2. Opens the CSV: --csv, else the mapping's file, else <csv-dir>/<survey_number>.csv
3. Checks that setup has created the current schema
4. Deletes the survey's existing rows
5. Streams the file, committing every --batch-size rows

Nothing is written when the mapping or the file is missing. A failure during
streaming keeps the batches already committed.

Examples:
  # Load survey 1523 from ./data/1523.csv
  surveyetl load 1523 -d surveys --csv-dir ./data

  # Load from an explicit file
  surveyetl load 1523 -d surveys --csv ./exports/2022.csv

  # CSV headers already use canonical field names
  surveyetl load 1600 -d surveys --csv ./1600.csv --fixed-columns`,
	Args:              RequireSurveyNumber,
	ValidArgsFunction: completeSurveyNumbers,
	RunE:              runLoad,
}

var loadAllCmd = &cobra.Command{
	Use:   "load-all",
	Short: "Load every registered survey in registration order",
	Long: `Load-all runs load for each survey of the mapping file in registration order.
The first failure stops the run; surveys loaded before it stay loaded.

Examples:
  surveyetl load-all -d surveys --csv-dir ./data
  surveyetl load-all -d surveys --csv-dir ./data --mapping ./surveys.yaml`,
	Args: cobra.NoArgs,
	RunE: runLoadAll,
}

type loadFlagValues struct {
	conn connectionFlags
	data dataFlags
}

var (
	loadFlags    loadFlagValues
	loadAllFlags loadFlagValues
)

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(loadAllCmd)

	addConnectionFlags(loadCmd, &loadFlags.conn)
	addDataFlags(loadCmd, &loadFlags.data)
	loadCmd.Flags().StringVar(&loadFlags.data.csvPath, "csv", "",
		"CSV file to load (overrides --csv-dir, $CSV_PATH and surveyetl.yaml)")
	loadCmd.Flags().BoolVar(&loadFlags.data.fixedColumns, "fixed-columns", false,
		"Treat CSV headers as canonical field names instead of using the survey mapping")

	addConnectionFlags(loadAllCmd, &loadAllFlags.conn)
	addDataFlags(loadAllCmd, &loadAllFlags.data)
}

// loadRun is everything a load command needs once flags are resolved.
type loadRun struct {
	ctx     context.Context
	svc     *loader.Service
	logger  *logging.ConsoleLogger
	cleanup func()
}

// prepareLoad resolves configuration and builds the loader. Configuration
// problems are reported before any connection is made.
func prepareLoad(cmd *cobra.Command, flags loadFlagValues, singleFile bool) (*loadRun, error) {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(cmd)
	if err != nil {
		return nil, err
	}
	connConfig, err := resolveConnectionFromFlags(flags.conn, projectCfg)
	if err != nil {
		return nil, err
	}

	data := flags.data
	loadCfg, err := buildLoadConfig(data, projectCfg)
	if err != nil {
		return nil, err
	}
	if !singleFile {
		// One file cannot hold every survey.
		loadCfg.CSVPath = ""
		if loadCfg.CSVDir == "" {
			loadCfg.CSVDir = "."
		}
	}

	fs := filesystem.NewOSFileSystem()
	registry, source, err := loadRegistry(fs, data, projectCfg)
	if err != nil {
		return nil, err
	}
	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, data.timeout)
	if err != nil {
		return nil, err
	}

	logConnectionVerbose(logger, connConfig)
	logger.Verbose("Survey mappings: %s (%d surveys)", source, registry.Len())

	ctx, cancel := commandContext(timeout, logger)
	pool, closePool, err := connect(ctx, connConfig, logger)
	if err != nil {
		cancel()
		return nil, err
	}
	cleanup := func() {
		closePool()
		cancel()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	err = schema.RequireCurrent(ctx, sqlDB)
	sqlDB.Close()
	if err != nil {
		cleanup()
		return nil, err
	}

	svc, err := loader.NewService(registry, loadCfg, fs, store.NewProvider(pool, logger), logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &loadRun{ctx: ctx, svc: svc, logger: logger, cleanup: cleanup}, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	surveyNumber, err := parseSurveyNumber(args[0])
	if err != nil {
		return err
	}

	run, err := prepareLoad(cmd, loadFlags, true)
	if err != nil {
		return err
	}
	defer run.cleanup()

	result, err := run.svc.Load(run.ctx, surveyNumber)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.LoadFailure(surveyNumber, err))
		return fmt.Errorf("load failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.LoadSummary(*result))
	return nil
}

func runLoadAll(cmd *cobra.Command, args []string) error {
	run, err := prepareLoad(cmd, loadAllFlags, false)
	if err != nil {
		return err
	}
	defer run.cleanup()

	results, err := run.svc.LoadAll(run.ctx)
	for _, r := range results {
		fmt.Fprintln(cmd.OutOrStdout(), ui.LoadSummary(r))
	}
	if err != nil {
		return fmt.Errorf("load-all stopped after %d survey(s): %w", len(results), err)
	}
	run.logger.Info("Loaded %d survey(s)", len(results))
	return nil
}
