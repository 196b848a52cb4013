package analyzer

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
)

// Querier runs a query and returns rows keyed by column name
type Querier interface {
	ExecuteQuery(query string, params ...interface{}) ([]map[string]interface{}, error)
}

// SchemaAnalyzer reads table definitions from information_schema
type SchemaAnalyzer struct {
	DB       Querier
	Database string
	Tables   []string
	Logger   *logrus.Logger
}

// NewSchemaAnalyzer creates a new schema analyzer
func NewSchemaAnalyzer(db Querier, database string, logger *logrus.Logger) *SchemaAnalyzer {
	return &SchemaAnalyzer{
		DB:       db,
		Database: database,
		Logger:   logger,
	}
}

// ListTables loads the base tables of the database
func (sa *SchemaAnalyzer) ListTables() ([]string, error) {
	tablesQuery := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	tablesResult, err := sa.DB.ExecuteQuery(tablesQuery, sa.Database)
	if err != nil {
		sa.Logger.Errorf("Error getting tables: %v", err)
		return nil, err
	}

	sa.Tables = sa.Tables[:0]
	for _, row := range tablesResult {
		sa.Tables = append(sa.Tables, stringField(row, "table_name"))
	}
	return sa.Tables, nil
}

// AnalyzeTable loads the column definitions of a table
func (sa *SchemaAnalyzer) AnalyzeTable(table string) (models.TableInfo, error) {
	columnsQuery := `
		SELECT
			column_name,
			data_type,
			column_type,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			is_nullable,
			column_key,
			extra,
			column_comment
		FROM information_schema.columns
		WHERE table_schema = ?
		AND table_name = ?
		ORDER BY ordinal_position
	`
	columnsResult, err := sa.DB.ExecuteQuery(columnsQuery, sa.Database, table)
	if err != nil {
		sa.Logger.Errorf("Failed to retrieve columns for table %s: %v", table, err)
		return models.TableInfo{}, err
	}
	if len(columnsResult) == 0 {
		return models.TableInfo{}, fmt.Errorf("table %s not found in database %s", table, sa.Database)
	}

	info := models.TableInfo{Name: table}
	for _, row := range columnsResult {
		column := models.Column{
			Name:             stringField(row, "column_name"),
			DataType:         stringField(row, "data_type"),
			ColumnType:       stringField(row, "column_type"),
			CharMaxLength:    int64Field(row, "character_maximum_length"),
			NumericPrecision: int64Field(row, "numeric_precision"),
			NumericScale:     int64Field(row, "numeric_scale"),
			IsNullable:       stringField(row, "is_nullable") == "YES",
			ColumnKey:        stringField(row, "column_key"),
			Extra:            stringField(row, "extra"),
			ColumnComment:    stringField(row, "column_comment"),
		}
		if column.ColumnKey == "PRI" {
			info.PrimaryKey = append(info.PrimaryKey, column.Name)
		}
		info.Columns = append(info.Columns, column)
	}

	sa.Logger.Debugf("Table %s has %d columns, primary key %v", table, len(info.Columns), info.PrimaryKey)
	return info, nil
}

// IndexColumn returns the single-column primary key of a table, which is
// used as the dataset index, or "" for composite or missing keys
func IndexColumn(info models.TableInfo) string {
	if len(info.PrimaryKey) == 1 {
		return info.PrimaryKey[0]
	}
	return ""
}

// CategoricalColumns returns the enum and set columns of a table
func CategoricalColumns(info models.TableInfo) []string {
	var names []string
	for _, col := range info.Columns {
		if col.IsCategorical() {
			names = append(names, col.Name)
		}
	}
	return names
}

func stringField(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func int64Field(row map[string]interface{}, key string) *int64 {
	if row[key] == nil {
		return nil
	}
	val, err := strconv.ParseInt(fmt.Sprintf("%v", row[key]), 10, 64)
	if err != nil {
		return nil
	}
	return &val
}
