package cli

import (
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/vvka-141/surveyetl/internal/db/manager"
	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/internal/logging"
	"github.com/vvka-141/surveyetl/internal/schema"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the schema and seed the dimension tables",
	Long: `Setup prepares the target database for loads.

The setup command:
1. Optionally creates the target database (with --create-database)
2. Creates the fact, dimension and load log tables when absent
3. Upserts the reference rows of every dimension table, including one
   survey row per registered survey

Running setup again is safe: existing tables are kept and reference rows
are updated in place.

Examples:
  # Prepare an existing database
  surveyetl setup -d surveys

  # Create the database first
  surveyetl setup --connection postgresql://etl@localhost/surveys --create-database

  # Tables only
  surveyetl setup -d surveys --skip-seed`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

type setupFlagValues struct {
	conn           connectionFlags
	data           dataFlags
	skipSeed       bool
	createDatabase bool
}

var setupFlags setupFlagValues

func init() {
	rootCmd.AddCommand(setupCmd)

	addConnectionFlags(setupCmd, &setupFlags.conn)
	addMappingFlag(setupCmd, &setupFlags.data)
	addTimeoutFlag(setupCmd, &setupFlags.data.timeout)

	setupCmd.Flags().BoolVar(&setupFlags.skipSeed, "skip-seed", false,
		"Create tables without seeding dimension rows")
	setupCmd.Flags().BoolVar(&setupFlags.createDatabase, "create-database", false,
		"Create the target database when it does not exist\n"+
			"Connects to the \"postgres\" maintenance database to do so")
}

func runSetup(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	connConfig, err := resolveConnectionFromFlags(setupFlags.conn, projectCfg)
	if err != nil {
		return err
	}
	registry, source, err := loadRegistry(filesystem.NewOSFileSystem(), setupFlags.data, projectCfg)
	if err != nil {
		return err
	}
	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, setupFlags.data.timeout)
	if err != nil {
		return err
	}
	logConnectionVerbose(logger, connConfig)
	logger.Verbose("Survey mappings: %s (%d surveys)", source, registry.Len())

	ctx, cancel := commandContext(timeout, logger)
	defer cancel()

	if setupFlags.createDatabase {
		maintenance := *connConfig
		maintenance.Database = surveyetl.DefaultManagementDB
		mpool, closeMaintenance, err := connect(ctx, &maintenance, logger)
		if err != nil {
			return err
		}
		created, err := manager.New().EnsureExists(ctx, mpool, connConfig.Database)
		closeMaintenance()
		if err != nil {
			return err
		}
		if created {
			logger.Info("Created database %q", connConfig.Database)
		}
	}

	pool, closePool, err := connect(ctx, connConfig, logger)
	if err != nil {
		return err
	}
	defer closePool()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	if err := schema.Migrate(ctx, sqlDB, logger); err != nil {
		return err
	}
	if version, err := schema.Version(ctx, sqlDB); err == nil {
		logger.Verbose("Schema at version %d", version)
	}

	if setupFlags.skipSeed {
		logger.Info("Schema ready; seeding skipped")
		return nil
	}

	dims, err := schema.Dimensions()
	if err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}
	dims = append(dims, schema.SurveyDimension(registry))

	counts, err := schema.Seed(ctx, pool, dims)
	if err != nil {
		return err
	}
	total := 0
	for table, n := range counts {
		logger.Verbose("Seeded %s: %d rows", table, n)
		total += n
	}
	logger.Info("Schema ready; %d reference rows in %d tables", total, len(counts))
	return nil
}
