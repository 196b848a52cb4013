package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vitebski/mysql-duplicate-checker/internal/analyzer"
	"github.com/vitebski/mysql-duplicate-checker/internal/checks"
	"github.com/vitebski/mysql-duplicate-checker/internal/config"
	"github.com/vitebski/mysql-duplicate-checker/internal/connector"
	"github.com/vitebski/mysql-duplicate-checker/internal/dataset"
	"github.com/vitebski/mysql-duplicate-checker/internal/generator"
	"github.com/vitebski/mysql-duplicate-checker/internal/populator"
	"github.com/vitebski/mysql-duplicate-checker/internal/source"
	"github.com/vitebski/mysql-duplicate-checker/internal/utils"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
)

// errChecksFailed signals that a report was printed but a check could not run
var errChecksFailed = errors.New("one or more checks failed to run")

// connectionFlags holds MySQL connection parameters
type connectionFlags struct {
	host     string
	user     string
	password string
	database string
	port     string
}

func (f *connectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.host, "host", "H", "", "MySQL host (default: localhost)")
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "MySQL user (default: root)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "MySQL password")
	cmd.Flags().StringVarP(&f.database, "database", "d", "", "MySQL database name")
	cmd.Flags().StringVarP(&f.port, "port", "P", "", "MySQL port (default: 3306)")
}

// connect resolves missing parameters from the environment and opens the database
func (f *connectionFlags) connect(logger *logrus.Logger) (*connector.DatabaseConnector, error) {
	db := connector.NewDatabaseConnector(f.host, f.user, f.password, f.database, f.port, logger)
	if !utils.ValidateConnectionParams(db.Host, db.User, db.Password, db.Database, db.Port, logger) {
		return nil, fmt.Errorf("invalid connection parameters")
	}
	if err := db.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// checkFlags holds the options shared by the check subcommands
type checkFlags struct {
	columns       []string
	ignoreColumns []string
	index         string
	categorical   []string
	nToShow       int
	maxRatio      float64
	noDisplay     bool
}

func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "Only compare these columns")
	cmd.Flags().StringSliceVar(&f.ignoreColumns, "ignore-columns", nil, "Compare every column except these")
	cmd.Flags().StringVar(&f.index, "index", "", "Column to use as row index")
	cmd.Flags().StringSliceVar(&f.categorical, "categorical", nil, "Columns to treat as categorical")
	cmd.Flags().IntVar(&f.nToShow, "n-to-show", checks.DefaultNToShow, "Number of duplicate groups to display (env: DUPCHECK_N_TO_SHOW)")
	cmd.Flags().Float64Var(&f.maxRatio, "max-ratio", checks.DefaultMaxRatio, "Maximum accepted duplicate ratio (env: DUPCHECK_MAX_RATIO)")
	cmd.Flags().BoolVar(&f.noDisplay, "no-display", false, "Only compute the ratio, skip the duplicate groups")
}

// options returns the check configuration and threshold. Flags left at
// their defaults fall back to the environment.
func (f *checkFlags) options(cmd *cobra.Command) (checks.Config, float64) {
	nToShow := f.nToShow
	if !cmd.Flags().Changed("n-to-show") {
		nToShow = utils.GetEnvInt("DUPCHECK_N_TO_SHOW", nToShow)
	}
	maxRatio := f.maxRatio
	if !cmd.Flags().Changed("max-ratio") {
		maxRatio = utils.GetEnvFloat("DUPCHECK_MAX_RATIO", maxRatio)
	}
	return checks.Config{
		Columns:       f.columns,
		IgnoreColumns: f.ignoreColumns,
		NToShow:       nToShow,
	}, maxRatio
}

// runCheck runs the duplicate check with its ratio condition over ds
func runCheck(name string, src models.CheckSource, ds *dataset.Dataset, cfg checks.Config, maxRatio float64, withDisplay bool, logger *logrus.Logger) utils.CheckReport {
	report := utils.CheckReport{Name: name, Source: src.Describe()}

	check := checks.NewDataDuplicates(cfg, logger).AddConditionRatioLessOrEqual(maxRatio)
	for _, cond := range check.Conditions() {
		logger.Debugf("Check %s: condition %q", name, cond.Name)
	}
	result, err := check.Run(ds, withDisplay)
	if err != nil {
		logger.Errorf("Check %s failed: %v", name, err)
		report.Err = err
		return report
	}

	report.Rows = ds.Len()
	report.Result = result
	report.Conditions = check.ConditionsDecision(result)
	for _, cond := range report.Conditions {
		if !cond.IsPass {
			logger.Warnf("Check %s: %s (%s)", name, cond.Details, cond.Name)
		}
	}
	return report
}

// loadTable reads one table through the schema analyzer
func loadTable(db *connector.DatabaseConnector, src models.CheckSource, logger *logrus.Logger) (*dataset.Dataset, error) {
	schemaAnalyzer := analyzer.NewSchemaAnalyzer(db, db.DatabaseName(), logger)
	info, err := schemaAnalyzer.AnalyzeTable(src.Table)
	if err != nil {
		return nil, err
	}
	return source.ReadTable(db, info, source.TableOptions{
		Index:       src.Index,
		Categorical: src.Categorical,
		Limit:       src.Limit,
	}, logger)
}

func main() {
	var (
		envFile  string
		logLevel string
		logger   *logrus.Logger
	)

	rootCmd := &cobra.Command{
		Use:   "duplicate-checker",
		Short: "Measure duplicate rows in CSV files and MySQL tables",
		Long: `Duplicate Checker

Reports the fraction of rows that repeat an earlier row, shows the largest
groups of identical rows, and warns when the fraction exceeds a threshold.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = utils.SetupLogging(logLevel)
			utils.LoadEnvironmentVariables(envFile, cmd.Annotations["mysql"] == "true", logger)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "Path to .env file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run the duplicate check on a single source",
	}

	var (
		csvFlags   checkFlags
		nullValues []string
	)
	checkCSVCmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Check a CSV file with a header row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := models.CheckSource{
				CSV:         args[0],
				Index:       csvFlags.index,
				Categorical: csvFlags.categorical,
				NullValues:  nullValues,
			}
			ds, err := source.ReadCSV(src.CSV, source.CSVOptions{
				Index:       src.Index,
				Categorical: src.Categorical,
				NullValues:  src.NullValues,
			}, logger)
			if err != nil {
				return err
			}

			cfg, maxRatio := csvFlags.options(cmd)
			report := runCheck(src.CSV, src, ds, cfg, maxRatio, !csvFlags.noDisplay, logger)
			utils.PrintCheckReport(os.Stdout, report)
			return report.Err
		},
	}
	csvFlags.register(checkCSVCmd)
	checkCSVCmd.Flags().StringSliceVar(&nullValues, "null-values", nil, "Cell values read as null besides the empty string")

	var (
		tableFlags checkFlags
		tableConn  connectionFlags
		limit      int
	)
	checkTableCmd := &cobra.Command{
		Use:         "table <name>",
		Short:       "Check a MySQL table",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"mysql": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := tableConn.connect(logger)
			if err != nil {
				return err
			}
			defer db.Disconnect()

			src := models.CheckSource{
				Table:       args[0],
				Index:       tableFlags.index,
				Categorical: tableFlags.categorical,
				Limit:       limit,
			}
			ds, err := loadTable(db, src, logger)
			if err != nil {
				return err
			}

			cfg, maxRatio := tableFlags.options(cmd)
			report := runCheck(src.Table, src, ds, cfg, maxRatio, !tableFlags.noDisplay, logger)
			utils.PrintCheckReport(os.Stdout, report)
			return report.Err
		},
	}
	tableFlags.register(checkTableCmd)
	tableConn.register(checkTableCmd)
	checkTableCmd.Flags().IntVar(&limit, "limit", 0, "Read at most this many rows (0 reads the whole table)")
	checkTableCmd.Flags().Lookup("index").Usage = `Column to use as row index (default: single-column primary key, "-" for none)`

	checkCmd.AddCommand(checkCSVCmd, checkTableCmd)

	var (
		runConn   connectionFlags
		runNoShow bool
	)
	runCmd := &cobra.Command{
		Use:   "run <checks.yaml>",
		Short: "Run every check declared in a checks file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if cfg.UsesMySQL() {
				utils.CheckMySQLEnvironment(logger)
			}

			defaultNToShow := utils.GetEnvInt("DUPCHECK_N_TO_SHOW", checks.DefaultNToShow)
			defaultMaxRatio := utils.GetEnvFloat("DUPCHECK_MAX_RATIO", checks.DefaultMaxRatio)

			var db *connector.DatabaseConnector
			defer func() {
				if db != nil {
					db.Disconnect()
				}
			}()

			reports := make([]utils.CheckReport, 0, len(cfg.Checks))
			for _, check := range cfg.Checks {
				src := check.Source.CheckSource()
				logger.Infof("Running check %s on %s", check.Name, src.Describe())

				var ds *dataset.Dataset
				if src.Table != "" {
					if db == nil {
						db, err = runConn.connect(logger)
						if err != nil {
							return err
						}
					}
					ds, err = loadTable(db, src, logger)
				} else {
					ds, err = source.ReadCSV(src.CSV, source.CSVOptions{
						Index:       src.Index,
						Categorical: src.Categorical,
						NullValues:  src.NullValues,
					}, logger)
				}

				var report utils.CheckReport
				if err != nil {
					logger.Errorf("Failed to load %s: %v", src.Describe(), err)
					report = utils.CheckReport{Name: check.Name, Source: src.Describe(), Err: err}
				} else {
					report = runCheck(check.Name, src, ds, check.Options(defaultNToShow), check.Threshold(defaultMaxRatio), !runNoShow, logger)
				}
				utils.PrintCheckReport(os.Stdout, report)
				reports = append(reports, report)
			}

			utils.PrintSummary(os.Stdout, reports)
			for _, report := range reports {
				if report.Err != nil {
					return errChecksFailed
				}
			}
			return nil
		},
	}
	runConn.register(runCmd)
	runCmd.Flags().BoolVar(&runNoShow, "no-display", false, "Only compute the ratios, skip the duplicate groups")

	var (
		genConn        connectionFlags
		rows           int
		duplicateRatio float64
		seed           int64
		output         string
		table          string
		truncate       bool
		batchSize      int
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate rows with a controlled share of duplicates",
		Long: `Generate synthetic rows where exactly round(rows * duplicate-ratio) rows
repeat an earlier row. Rows are written to a CSV file (--output) or inserted
into an existing MySQL table (--table).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (output == "") == (table == "") {
				return fmt.Errorf("exactly one of --output and --table is required")
			}
			if table != "" {
				utils.CheckMySQLEnvironment(logger)
			}
			dataGenerator := generator.NewDataGenerator(seed, logger)

			if output != "" {
				columns := generator.DefaultColumns()
				generated, duplicates, err := dataGenerator.GenerateRows(columns, rows, duplicateRatio)
				if err != nil {
					return err
				}
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := generator.WriteCSV(file, columns, generated); err != nil {
					file.Close()
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				logger.Infof("Wrote %d rows (%d duplicates) to %s", len(generated), duplicates, output)
				return nil
			}

			db, err := genConn.connect(logger)
			if err != nil {
				return err
			}
			defer db.Disconnect()

			tablePopulator := populator.NewTablePopulator(
				db,
				analyzer.NewSchemaAnalyzer(db, db.DatabaseName(), logger),
				dataGenerator,
				logger,
			)
			tablePopulator.Truncate = truncate
			if batchSize > 0 {
				tablePopulator.BatchSize = batchSize
			}

			result, err := tablePopulator.PopulateTable(table, rows, duplicateRatio)
			utils.PrintPopulationResult(os.Stdout, result)
			return err
		},
	}
	genConn.register(generateCmd)
	generateCmd.Flags().IntVarP(&rows, "rows", "r", 1000, "Number of rows to generate")
	generateCmd.Flags().Float64Var(&duplicateRatio, "duplicate-ratio", 0.1, "Share of rows that repeat an earlier row, in [0, 1)")
	generateCmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	generateCmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write")
	generateCmd.Flags().StringVarP(&table, "table", "t", "", "Existing MySQL table to populate")
	generateCmd.Flags().BoolVar(&truncate, "truncate", false, "Delete existing rows before inserting")
	generateCmd.Flags().IntVar(&batchSize, "batch-size", populator.DefaultBatchSize, "Rows per INSERT transaction")

	rootCmd.AddCommand(checkCmd, runCmd, generateCmd)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
