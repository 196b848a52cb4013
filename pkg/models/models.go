package models

import "strings"

// Column represents a database column with its properties
type Column struct {
	Name             string
	DataType         string
	ColumnType       string
	CharMaxLength    *int64
	NumericPrecision *int64
	NumericScale     *int64
	IsNullable       bool
	ColumnKey        string
	Extra            string
	ColumnComment    string
}

// IsAutoIncrement reports whether MySQL assigns the column value itself
func (c Column) IsAutoIncrement() bool {
	return strings.Contains(strings.ToLower(c.Extra), "auto_increment")
}

// IsCategorical reports whether the column holds a closed set of values
func (c Column) IsCategorical() bool {
	switch strings.ToLower(c.DataType) {
	case "enum", "set":
		return true
	}
	return false
}

// TableInfo represents information about a table
type TableInfo struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

// ColumnNames returns the column names in ordinal order
func (t TableInfo) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// CheckSource describes where a dataset under check is read from
type CheckSource struct {
	CSV         string
	Table       string
	Index       string
	Categorical []string
	NullValues  []string
	Limit       int
}

// Describe returns a short human readable label for the source
func (s CheckSource) Describe() string {
	if s.Table != "" {
		return "table " + s.Table
	}
	return "file " + s.CSV
}

// PopulationResult represents the result of a table population
type PopulationResult struct {
	Table          string
	InsertedRows   int64
	DuplicateRows  int
	SkippedColumns []string
}
