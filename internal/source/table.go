package source

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/internal/analyzer"
	"github.com/vitebski/mysql-duplicate-checker/internal/connector"
	"github.com/vitebski/mysql-duplicate-checker/internal/dataset"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
)

// RowQuerier runs a query and returns ordered columns and rows
type RowQuerier interface {
	QueryRows(query string, params ...interface{}) ([]string, [][]interface{}, error)
}

// TableOptions controls how a MySQL table becomes a dataset
type TableOptions struct {
	// Index overrides the primary key as dataset index. "-" disables the index.
	Index string
	// Categorical columns are added to the table's enum and set columns
	Categorical []string
	// Limit caps the number of rows read; zero reads the whole table
	Limit int
}

// SelectQuery builds the SELECT statement used to read a table
func SelectQuery(info models.TableInfo, limit int) string {
	quoted := make([]string, len(info.Columns))
	for i, col := range info.Columns {
		quoted[i] = connector.QuoteIdentifier(col.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), connector.QuoteIdentifier(info.Name))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return query
}

// ReadTable loads the rows of a table described by info
func ReadTable(db RowQuerier, info models.TableInfo, opts TableOptions, logger *logrus.Logger) (*dataset.Dataset, error) {
	if len(info.Columns) == 0 {
		return nil, fmt.Errorf("table %s has no columns", info.Name)
	}

	names, rows, err := db.QueryRows(SelectQuery(info, opts.Limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", info.Name, err)
	}

	values := make([][]dataset.Value, len(names))
	for _, row := range rows {
		for i, v := range row {
			values[i] = append(values[i], dataset.ValueOf(v))
		}
	}
	columns := make([]*dataset.Column, len(names))
	for i, name := range names {
		columns[i] = dataset.NewColumn(name, values[i])
	}

	index := opts.Index
	switch index {
	case "":
		index = analyzer.IndexColumn(info)
	case "-":
		index = ""
	}
	categorical := without(append(analyzer.CategoricalColumns(info), opts.Categorical...), index)

	ds, err := build(columns, index, categorical)
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded %d rows from table %s (index: %q)", ds.Len(), info.Name, ds.IndexName())
	return ds, nil
}

func without(names []string, drop string) []string {
	out := names[:0:0]
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == drop || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
