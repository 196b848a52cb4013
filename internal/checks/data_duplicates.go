package checks

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/internal/dataset"
)

// DefaultNToShow is the number of duplicate groups shown by DefaultConfig
const DefaultNToShow = 5

// Config holds the DataDuplicates options. Columns and IgnoreColumns are
// mutually exclusive.
type Config struct {
	Columns       []string
	IgnoreColumns []string
	// NToShow caps the displayed groups; zero shows none
	NToShow int
}

// DefaultConfig compares every column and shows up to DefaultNToShow groups
func DefaultConfig() Config {
	return Config{NToShow: DefaultNToShow}
}

// CheckResult is the outcome of a single run
type CheckResult struct {
	// Value is the fraction of rows that repeat an earlier row
	Value   float64
	Display []DuplicateGroup
}

// DuplicateGroup is one set of rows sharing the same values in the compared columns
type DuplicateGroup struct {
	Count       int
	Rows        []int
	IndexLabels []dataset.Value
	Columns     []string
	Values      []dataset.Value
}

// DataDuplicates measures the ratio of duplicate rows in a dataset
type DataDuplicates struct {
	Config     Config
	Logger     *logrus.Logger
	conditions []Condition
}

// NewDataDuplicates creates a new duplicate data check
func NewDataDuplicates(config Config, logger *logrus.Logger) *DataDuplicates {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DataDuplicates{
		Config: config,
		Logger: logger,
	}
}

// Name returns the display name of the check
func (dd *DataDuplicates) Name() string {
	return "Data Duplicates"
}

// Run computes the duplicate ratio of ds. With withDisplay set, it also
// collects up to NToShow of the largest duplicate groups.
func (dd *DataDuplicates) Run(ds *dataset.Dataset, withDisplay bool) (CheckResult, error) {
	selector, err := NewColumnSelector(dd.Config.Columns, dd.Config.IgnoreColumns)
	if err != nil {
		return CheckResult{}, err
	}
	if dd.Config.NToShow < 0 {
		return CheckResult{}, &ConfigurationError{
			Msg: fmt.Sprintf("n_to_show must be non-negative, got %d", dd.Config.NToShow),
		}
	}
	if err := dataset.Validate(ds); err != nil {
		return CheckResult{}, err
	}

	columns, err := selector.Resolve(ds)
	if err != nil {
		return CheckResult{}, err
	}

	part := partitionRows(ds.Len(), columns)
	total := ds.Len()
	value := float64(total-len(part.sizes)) / float64(total)

	dd.Logger.Debugf("Found %d distinct rows out of %d using %s", len(part.sizes), total, selector)

	result := CheckResult{
		Value:   value,
		Display: []DuplicateGroup{},
	}
	if withDisplay {
		result.Display = dd.buildDisplay(ds, columns, part)
	}
	return result, nil
}

type partition struct {
	// groupOf maps each row to its group id; ids follow first occurrence
	groupOf []int32
	sizes   []int
	first   []int
}

func partitionRows(rows int, columns []*dataset.Column) partition {
	p := partition{groupOf: make([]int32, rows)}
	seen := make(map[string]int32, rows)

	var key []byte
	for i := 0; i < rows; i++ {
		key = key[:0]
		for _, col := range columns {
			key = col.At(i).AppendKey(key)
		}
		id, ok := seen[string(key)]
		if !ok {
			id = int32(len(p.sizes))
			seen[string(key)] = id
			p.sizes = append(p.sizes, 0)
			p.first = append(p.first, i)
		}
		p.sizes[id]++
		p.groupOf[i] = id
	}
	return p
}

func (dd *DataDuplicates) buildDisplay(ds *dataset.Dataset, columns []*dataset.Column, p partition) []DuplicateGroup {
	var ids []int32
	for id, size := range p.sizes {
		if size > 1 {
			ids = append(ids, int32(id))
		}
	}
	// Ids already follow first occurrence, so a stable sort on size keeps ties in order
	sort.SliceStable(ids, func(i, j int) bool {
		return p.sizes[ids[i]] > p.sizes[ids[j]]
	})
	if len(ids) > dd.Config.NToShow {
		ids = ids[:dd.Config.NToShow]
	}
	if len(ids) == 0 {
		return []DuplicateGroup{}
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}

	slot := make(map[int32]int, len(ids))
	groups := make([]DuplicateGroup, len(ids))
	for i, id := range ids {
		slot[id] = i
		first := p.first[id]
		values := make([]dataset.Value, len(columns))
		for j, col := range columns {
			values[j] = col.At(first)
		}
		groups[i] = DuplicateGroup{
			Count:   p.sizes[id],
			Rows:    make([]int, 0, p.sizes[id]),
			Columns: names,
			Values:  values,
		}
	}

	index := ds.Index()
	for row, id := range p.groupOf {
		i, ok := slot[id]
		if !ok {
			continue
		}
		groups[i].Rows = append(groups[i].Rows, row)
		if index != nil {
			groups[i].IndexLabels = append(groups[i].IndexLabels, index.At(row))
		}
	}
	return groups
}
