package dataset

import (
	"fmt"
)

// Dataset is an ordered collection of equal-length columns with an optional
// index column held apart from the data columns
type Dataset struct {
	columns []*Column
	byName  map[string]int
	index   *Column
	rows    int
}

// Option configures dataset construction
type Option func(*builder)

type builder struct {
	indexName string
}

// WithIndex moves the named column out of the data columns and makes it the
// dataset index
func WithIndex(name string) Option {
	return func(b *builder) {
		b.indexName = name
	}
}

// New builds a dataset from columns. It fails with a *ValidationError when
// the dataset has no rows, when column lengths differ, or when names clash.
func New(columns []*Column, opts ...Option) (*Dataset, error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	if len(columns) == 0 {
		return nil, emptyDatasetError()
	}

	rows := columns[0].Len()
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col == nil {
			return nil, &ValidationError{Msg: "dataset column cannot be nil"}
		}
		if seen[col.Name] {
			return nil, &ValidationError{Msg: fmt.Sprintf("duplicate column name: %q", col.Name)}
		}
		seen[col.Name] = true
		if col.Len() != rows {
			return nil, &ValidationError{
				Msg: fmt.Sprintf("column %q has %d values, expected %d", col.Name, col.Len(), rows),
			}
		}
	}
	if rows == 0 {
		return nil, emptyDatasetError()
	}

	ds := &Dataset{
		byName: make(map[string]int, len(columns)),
		rows:   rows,
	}
	for _, col := range columns {
		if b.indexName != "" && col.Name == b.indexName {
			ds.index = col
			continue
		}
		ds.byName[col.Name] = len(ds.columns)
		ds.columns = append(ds.columns, col)
	}
	if b.indexName != "" && ds.index == nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("index column %q not found", b.indexName)}
	}

	return ds, nil
}

// Validate checks that ds is usable by a check
func Validate(ds *Dataset) error {
	if ds == nil || ds.rows == 0 {
		return emptyDatasetError()
	}
	return nil
}

// Len returns the number of rows
func (ds *Dataset) Len() int {
	return ds.rows
}

// ColumnNames returns the data column names in order, excluding the index
func (ds *Dataset) ColumnNames() []string {
	names := make([]string, len(ds.columns))
	for i, col := range ds.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a data column or the index column by name
func (ds *Dataset) Column(name string) (*Column, bool) {
	if i, ok := ds.byName[name]; ok {
		return ds.columns[i], true
	}
	if ds.index != nil && ds.index.Name == name {
		return ds.index, true
	}
	return nil, false
}

// Index returns the index column, or nil
func (ds *Dataset) Index() *Column {
	return ds.index
}

// IndexName returns the index column name, or "" when there is none
func (ds *Dataset) IndexName() string {
	if ds.index == nil {
		return ""
	}
	return ds.index.Name
}

// Row returns the data column values of row i
func (ds *Dataset) Row(i int) []Value {
	row := make([]Value, len(ds.columns))
	for j, col := range ds.columns {
		row[j] = col.At(i)
	}
	return row
}

// AsCategorical returns a copy of the dataset whose named data columns are
// dictionary encoded. With no names, every data column is converted.
func (ds *Dataset) AsCategorical(names ...string) (*Dataset, error) {
	convert := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := ds.byName[name]; !ok {
			return nil, &ValidationError{Msg: fmt.Sprintf("column %q not found", name)}
		}
		convert[name] = true
	}

	out := &Dataset{
		columns: make([]*Column, len(ds.columns)),
		byName:  ds.byName,
		index:   ds.index,
		rows:    ds.rows,
	}
	for i, col := range ds.columns {
		if len(names) == 0 || convert[col.Name] {
			out.columns[i] = col.AsCategorical()
		} else {
			out.columns[i] = col
		}
	}
	return out, nil
}
