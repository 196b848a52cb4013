package utils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/internal/checks"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
)

// CheckReport collects everything printed for one check
type CheckReport struct {
	Name       string
	Source     string
	Rows       int
	Result     checks.CheckResult
	Conditions []checks.ConditionResult
	Err        error
}

// Passed reports whether the check ran and every condition passed
func (r CheckReport) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, cond := range r.Conditions {
		if !cond.IsPass {
			return false
		}
	}
	return true
}

// SetupLogging configures the logging system
func SetupLogging(logLevel string) *logrus.Logger {
	logger := logrus.New()

	// Get log level from environment variable or parameter
	levelStr := logLevel
	if levelStr == "" {
		levelStr = os.Getenv("DUPCHECK_LOG_LEVEL")
		if levelStr == "" {
			levelStr = "info"
		}
	}

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	// Logs go to stderr so reports on stdout stay clean
	logger.SetOutput(os.Stderr)

	logger.Debugf("Logging configured with level: %s", level)
	return logger
}

// LoadEnvironmentVariables loads environment variables from .env file. With
// requireMySQL set it also reports missing MySQL connection variables.
func LoadEnvironmentVariables(envFile string, requireMySQL bool, logger *logrus.Logger) bool {
	// Check if a sample .env file exists but not the actual .env file
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		sampleEnvFile := envFile + ".sample"
		if _, err := os.Stat(sampleEnvFile); err == nil {
			logger.Infof("No %s file found, but %s exists. Consider copying %s to %s and updating it.",
				envFile, sampleEnvFile, sampleEnvFile, envFile)
		}
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logger.Warningf("Error loading %s file: %v", envFile, err)
		} else {
			logger.Debugf("Loaded environment variables from %s", envFile)
		}
	} else {
		logger.Debugf("No %s file found, using existing environment variables", envFile)
	}

	if !requireMySQL {
		return true
	}

	return CheckMySQLEnvironment(logger)
}

// CheckMySQLEnvironment warns about missing MySQL connection variables
func CheckMySQLEnvironment(logger *logrus.Logger) bool {
	requiredVars := []string{"MYSQL_HOST", "MYSQL_USER", "MYSQL_DATABASE"}
	var missingVars []string
	for _, v := range requiredVars {
		if os.Getenv(v) == "" {
			missingVars = append(missingVars, v)
		}
	}

	if len(missingVars) > 0 {
		logger.Warningf("Missing MySQL environment variables: %s", strings.Join(missingVars, ", "))
		logger.Info("These can be provided via command line arguments, environment variables, or a .env file")
		return false
	}

	if logger.Level == logrus.DebugLevel {
		for _, env := range os.Environ() {
			if strings.HasPrefix(env, "MYSQL_") {
				parts := strings.SplitN(env, "=", 2)
				if len(parts) == 2 {
					// Mask password
					if parts[0] == "MYSQL_PASSWORD" {
						logger.Debugf("%s=********", parts[0])
					} else {
						logger.Debugf("%s=%s", parts[0], parts[1])
					}
				}
			}
		}
	}

	return true
}

// GetEnvInt gets an integer value from environment variable
func GetEnvInt(varName string, defaultValue int) int {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// GetEnvFloat gets a float value from environment variable
func GetEnvFloat(varName string, defaultValue float64) float64 {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatValue
}

// ValidateConnectionParams validates database connection parameters
func ValidateConnectionParams(host, user, password, database, port string, logger *logrus.Logger) bool {
	if host == "" {
		logger.Error("Database host is required")
		return false
	}

	if user == "" {
		logger.Error("Database user is required")
		return false
	}

	if password == "" { // Empty password is allowed
		logger.Warning("Database password is empty")
	}

	if database == "" {
		logger.Error("Database name is required")
		return false
	}

	if _, err := strconv.Atoi(port); err != nil {
		logger.Errorf("Invalid port number: %s", port)
		return false
	}

	return true
}

// PrintCheckReport prints the result of one duplicate check
func PrintCheckReport(w io.Writer, report CheckReport) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintf(w, "DATA DUPLICATES: %s\n", report.Name)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Source: %s\n", report.Source)

	if report.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", report.Err)
		fmt.Fprintln(w, strings.Repeat("=", 80))
		return
	}

	fmt.Fprintf(w, "Rows checked: %d\n", report.Rows)
	fmt.Fprintf(w, "Duplicate ratio: %.2f%%\n", report.Result.Value*100)

	if len(report.Conditions) > 0 {
		fmt.Fprintln(w, "\nConditions:")
		for _, cond := range report.Conditions {
			status := "✅"
			if !cond.IsPass {
				status = "⚠️ "
				if cond.Category != checks.CategoryWarn {
					status = "❌"
				}
			}
			fmt.Fprintf(w, "  %s %s: %s\n", status, cond.Name, cond.Details)
		}
	}

	if len(report.Result.Display) > 0 {
		fmt.Fprintf(w, "\nTop %d duplicate groups:\n", len(report.Result.Display))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		group := report.Result.Display[0]
		fmt.Fprintf(tw, "  Instances\tCount\t%s\n", strings.Join(group.Columns, "\t"))
		for _, group := range report.Result.Display {
			values := make([]string, len(group.Values))
			for i, v := range group.Values {
				values[i] = v.String()
			}
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", instances(group), group.Count, strings.Join(values, "\t"))
		}
		tw.Flush()
	}

	fmt.Fprintln(w, strings.Repeat("=", 80))
}

// instances lists the index labels of a group, or row positions without an index
func instances(group checks.DuplicateGroup) string {
	const maxShown = 10

	var labels []string
	if len(group.IndexLabels) > 0 {
		for _, v := range group.IndexLabels {
			labels = append(labels, v.String())
		}
	} else {
		for _, row := range group.Rows {
			labels = append(labels, strconv.Itoa(row))
		}
	}
	if len(labels) > maxShown {
		return strings.Join(labels[:maxShown], ", ") + fmt.Sprintf(", ... (+%d)", len(labels)-maxShown)
	}
	return strings.Join(labels, ", ")
}

// PrintSummary prints a summary of all checks in a run
func PrintSummary(w io.Writer, reports []CheckReport) {
	var passed, warned, failed int
	for _, report := range reports {
		switch {
		case report.Err != nil:
			failed++
		case report.Passed():
			passed++
		default:
			warned++
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(w, "DUPLICATE CHECK SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Total checks: %d\n", len(reports))
	fmt.Fprintf(w, "Passed: %d\n", passed)
	fmt.Fprintf(w, "Warnings: %d\n", warned)
	fmt.Fprintf(w, "Errors: %d\n", failed)

	if warned+failed > 0 {
		fmt.Fprintln(w, "\nNeeds attention:")
		for _, report := range reports {
			if report.Err != nil {
				fmt.Fprintf(w, "  - %s: %v\n", report.Name, report.Err)
			} else if !report.Passed() {
				fmt.Fprintf(w, "  - %s: %.2f%% duplicate data\n", report.Name, report.Result.Value*100)
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 50))
}

// PrintPopulationResult prints what the generate command inserted
func PrintPopulationResult(w io.Writer, result models.PopulationResult) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(w, "TABLE POPULATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Table: %s\n", result.Table)
	fmt.Fprintf(w, "Rows inserted: %d\n", result.InsertedRows)
	fmt.Fprintf(w, "Duplicate rows: %d\n", result.DuplicateRows)
	if len(result.SkippedColumns) > 0 {
		fmt.Fprintf(w, "Skipped columns: %s\n", strings.Join(result.SkippedColumns, ", "))
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
}
