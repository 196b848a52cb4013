package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/internal/dataset"
)

// CSVOptions controls how a CSV file becomes a dataset
type CSVOptions struct {
	// Index names a column to hold apart as the dataset index
	Index string
	// Categorical lists columns to dictionary encode
	Categorical []string
	// NullValues are cell contents read as null in addition to the empty string
	NullValues []string
	Delimiter  rune
}

// ReadCSV loads a CSV file with a header row. Cells are kept as strings.
func ReadCSV(path string, opts CSVOptions, logger *logrus.Logger) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := DecodeCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Infof("Loaded %d rows and %d columns from %s", ds.Len(), len(ds.ColumnNames()), path)
	return ds, nil
}

// DecodeCSV reads CSV data with a header row from r
func DecodeCSV(r io.Reader, opts CSVOptions) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &dataset.ValidationError{Msg: dataset.ErrEmptyDataset.Error(), Err: dataset.ErrEmptyDataset}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	nulls := make(map[string]bool, len(opts.NullValues)+1)
	nulls[""] = true
	for _, v := range opts.NullValues {
		nulls[v] = true
	}

	values := make([][]dataset.Value, len(headers))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		for i, cell := range record {
			if nulls[cell] {
				values[i] = append(values[i], dataset.NullValue())
			} else {
				values[i] = append(values[i], dataset.StringValue(cell))
			}
		}
	}

	columns := make([]*dataset.Column, len(headers))
	for i, header := range headers {
		columns[i] = dataset.NewColumn(header, values[i])
	}
	return build(columns, opts.Index, without(opts.Categorical, opts.Index))
}

func build(columns []*dataset.Column, index string, categorical []string) (*dataset.Dataset, error) {
	var opts []dataset.Option
	if index != "" {
		opts = append(opts, dataset.WithIndex(index))
	}
	ds, err := dataset.New(columns, opts...)
	if err != nil {
		return nil, err
	}
	if len(categorical) == 0 {
		return ds, nil
	}
	return ds.AsCategorical(categorical...)
}
