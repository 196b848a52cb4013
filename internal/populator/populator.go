package populator

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/internal/analyzer"
	"github.com/vitebski/mysql-duplicate-checker/internal/connector"
	"github.com/vitebski/mysql-duplicate-checker/internal/generator"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
)

// DefaultBatchSize is the number of rows sent per INSERT transaction
const DefaultBatchSize = 500

// Executor runs write statements against the database
type Executor interface {
	ExecuteStatement(query string, params ...interface{}) (int64, error)
	ExecuteMany(query string, paramsList [][]interface{}) (int64, error)
}

// TablePopulator fills an existing table with generated rows, a share of
// which are duplicates in every insertable column
type TablePopulator struct {
	DB             Executor
	SchemaAnalyzer *analyzer.SchemaAnalyzer
	DataGenerator  *generator.DataGenerator
	BatchSize      int
	Truncate       bool
	Logger         *logrus.Logger
}

// NewTablePopulator creates a new table populator
func NewTablePopulator(
	db Executor,
	schemaAnalyzer *analyzer.SchemaAnalyzer,
	dataGenerator *generator.DataGenerator,
	logger *logrus.Logger,
) *TablePopulator {
	return &TablePopulator{
		DB:             db,
		SchemaAnalyzer: schemaAnalyzer,
		DataGenerator:  dataGenerator,
		BatchSize:      DefaultBatchSize,
		Logger:         logger,
	}
}

// PopulateTable inserts numRecords generated rows into table
func (tp *TablePopulator) PopulateTable(table string, numRecords int, duplicateRatio float64) (models.PopulationResult, error) {
	result := models.PopulationResult{Table: table}
	tp.Logger.Infof("Populating table: %s", table)

	info, err := tp.SchemaAnalyzer.AnalyzeTable(table)
	if err != nil {
		return result, fmt.Errorf("failed to analyze table %s: %w", table, err)
	}

	var columnNames []string
	var placeholders []string
	var columnObjects []models.Column

	for _, column := range info.Columns {
		// Skip auto-increment columns
		if column.IsAutoIncrement() {
			result.SkippedColumns = append(result.SkippedColumns, column.Name)
			continue
		}

		columnNames = append(columnNames, connector.QuoteIdentifier(column.Name))
		placeholders = append(placeholders, "?")
		columnObjects = append(columnObjects, column)
	}

	if len(columnNames) == 0 {
		return result, fmt.Errorf("no insertable columns found for table: %s", table)
	}

	rows, duplicates, err := tp.DataGenerator.GenerateRows(columnObjects, numRecords, duplicateRatio)
	if err != nil {
		return result, fmt.Errorf("failed to generate rows for table %s: %w", table, err)
	}
	result.DuplicateRows = duplicates

	if tp.Truncate {
		if _, err := tp.DB.ExecuteStatement("DELETE FROM " + connector.QuoteIdentifier(table)); err != nil {
			return result, fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		tp.Logger.Infof("Cleared existing rows from %s", table)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		connector.QuoteIdentifier(table),
		strings.Join(columnNames, ", "),
		strings.Join(placeholders, ", "),
	)

	batchSize := tp.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		affected, err := tp.DB.ExecuteMany(insertSQL, rows[start:end])
		if err != nil {
			return result, fmt.Errorf("failed to insert rows %d-%d into %s: %w", start, end, table, err)
		}
		result.InsertedRows += affected
		tp.Logger.Debugf("Inserted rows %d-%d into %s", start, end, table)
	}

	tp.Logger.Infof("Inserted %d rows into %s (%d duplicates)", result.InsertedRows, table, duplicates)
	return result, nil
}
