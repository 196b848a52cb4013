package checks

import (
	"fmt"
	"strings"

	"github.com/vitebski/mysql-duplicate-checker/internal/dataset"
)

type selectMode uint8

const (
	selectAll selectMode = iota
	selectInclude
	selectExclude
)

// ColumnSelector decides which columns take part in a comparison. The zero
// value selects every data column.
type ColumnSelector struct {
	mode  selectMode
	names []string
}

// AllColumns selects every data column
func AllColumns() ColumnSelector {
	return ColumnSelector{mode: selectAll}
}

// IncludeColumns selects only the named columns
func IncludeColumns(names ...string) ColumnSelector {
	return ColumnSelector{mode: selectInclude, names: names}
}

// ExcludeColumns selects every data column except the named ones
func ExcludeColumns(names ...string) ColumnSelector {
	return ColumnSelector{mode: selectExclude, names: names}
}

// NewColumnSelector builds a selector from an inclusion and an exclusion
// list, at most one of which may be non-empty
func NewColumnSelector(include, exclude []string) (ColumnSelector, error) {
	switch {
	case len(include) > 0 && len(exclude) > 0:
		return ColumnSelector{}, &ConfigurationError{
			Msg: "columns and ignore_columns cannot be used together",
		}
	case len(include) > 0:
		return IncludeColumns(include...), nil
	case len(exclude) > 0:
		return ExcludeColumns(exclude...), nil
	}
	return AllColumns(), nil
}

func (s ColumnSelector) String() string {
	switch s.mode {
	case selectInclude:
		return "columns=" + strings.Join(s.names, ",")
	case selectExclude:
		return "ignore_columns=" + strings.Join(s.names, ",")
	}
	return "all columns"
}

// Resolve returns the effective columns of ds in dataset order. The index
// column only takes part when it is named explicitly in an inclusion list.
func (s ColumnSelector) Resolve(ds *dataset.Dataset) ([]*dataset.Column, error) {
	dataNames := ds.ColumnNames()
	indexName := ds.IndexName()

	var selected []string
	switch s.mode {
	case selectInclude:
		want := make(map[string]bool, len(s.names))
		var missing []string
		for _, name := range s.names {
			if _, ok := ds.Column(name); !ok {
				missing = append(missing, name)
			}
			want[name] = true
		}
		if len(missing) > 0 {
			return nil, &ConfigurationError{
				Msg: fmt.Sprintf("columns not found in dataset: %s", strings.Join(missing, ", ")),
			}
		}
		if indexName != "" && want[indexName] {
			selected = append(selected, indexName)
		}
		for _, name := range dataNames {
			if want[name] {
				selected = append(selected, name)
			}
		}
	case selectExclude:
		skip := make(map[string]bool, len(s.names))
		var missing []string
		for _, name := range s.names {
			if _, ok := ds.Column(name); !ok {
				missing = append(missing, name)
			}
			skip[name] = true
		}
		if len(missing) > 0 {
			return nil, &ConfigurationError{
				Msg: fmt.Sprintf("ignore_columns not found in dataset: %s", strings.Join(missing, ", ")),
			}
		}
		for _, name := range dataNames {
			if !skip[name] {
				selected = append(selected, name)
			}
		}
	default:
		selected = dataNames
	}

	if len(selected) == 0 {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("no columns left to compare with %s", s)}
	}

	cols := make([]*dataset.Column, len(selected))
	for i, name := range selected {
		cols[i], _ = ds.Column(name)
	}
	return cols, nil
}
