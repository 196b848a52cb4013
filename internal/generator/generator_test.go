package generator

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/internal/checks"
	"github.com/vitebski/mysql-duplicate-checker/internal/source"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func TestGenerateRowsIsDeterministic(t *testing.T) {
	rows1, _, err := NewDataGenerator(42, newTestLogger()).GenerateRows(DefaultColumns(), 50, 0.2)
	if err != nil {
		t.Fatalf("GenerateRows() failed: %v", err)
	}
	rows2, _, err := NewDataGenerator(42, newTestLogger()).GenerateRows(DefaultColumns(), 50, 0.2)
	if err != nil {
		t.Fatalf("GenerateRows() failed: %v", err)
	}
	if !reflect.DeepEqual(rows1, rows2) {
		t.Error("Expected the same seed to generate the same rows")
	}
}

func TestGenerateDatasetDuplicateRatio(t *testing.T) {
	tests := []struct {
		rows  int
		ratio float64
		want  float64
	}{
		{200, 0, 0},
		{200, 0.25, 0.25},
		{10, 0.4, 0.4},
		{3, 0.5, 2.0 / 3}, // round(1.5) = 2 duplicates
	}

	for _, tt := range tests {
		ds, err := NewDataGenerator(7, newTestLogger()).GenerateDataset(DefaultColumns(), tt.rows, tt.ratio)
		if err != nil {
			t.Fatalf("GenerateDataset(%d, %v) failed: %v", tt.rows, tt.ratio, err)
		}
		if ds.Len() != tt.rows {
			t.Errorf("Expected %d rows, got %d", tt.rows, ds.Len())
		}

		result, err := checks.NewDataDuplicates(checks.DefaultConfig(), newTestLogger()).Run(ds, false)
		if err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
		if diff := result.Value - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("rows=%d ratio=%v: expected duplicate ratio %v, got %v", tt.rows, tt.ratio, tt.want, result.Value)
		}
	}
}

func TestGenerateRowsRejectsBadInput(t *testing.T) {
	dg := NewDataGenerator(1, newTestLogger())
	if _, _, err := dg.GenerateRows(DefaultColumns(), 0, 0.1); err == nil {
		t.Error("Expected an error for zero rows")
	}
	if _, _, err := dg.GenerateRows(DefaultColumns(), 10, 1); err == nil {
		t.Error("Expected an error for a ratio of 1")
	}
	if _, _, err := dg.GenerateRows(DefaultColumns(), 10, -0.1); err == nil {
		t.Error("Expected an error for a negative ratio")
	}

	// A single boolean column cannot hold more than two distinct rows
	flag := []models.Column{{Name: "flag", DataType: "bool"}}
	if _, _, err := dg.GenerateRows(flag, 10, 0); err == nil {
		t.Error("Expected an error when distinct rows cannot be produced")
	}
}

func TestGenerateEnum(t *testing.T) {
	dg := NewDataGenerator(3, newTestLogger())
	column := models.Column{Name: "plan", DataType: "enum", ColumnType: "enum('free','pro','it''s')"}
	allowed := map[interface{}]bool{"free": true, "pro": true, "it's": true}
	for i := 0; i < 50; i++ {
		if v := dg.GenerateValue(column); !allowed[v] {
			t.Fatalf("Unexpected enum value %v", v)
		}
	}
}

func TestGenerateValueSkipsAutoIncrement(t *testing.T) {
	dg := NewDataGenerator(3, newTestLogger())
	if v := dg.GenerateValue(models.Column{Name: "id", DataType: "int", Extra: "auto_increment"}); v != nil {
		t.Errorf("Expected nil for auto_increment column, got %v", v)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	columns := DefaultColumns()
	rows, _, err := NewDataGenerator(11, newTestLogger()).GenerateRows(columns, 100, 0.1)
	if err != nil {
		t.Fatalf("GenerateRows() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, columns, rows); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "full_name,email,city,age,plan,balance\n") {
		t.Errorf("Unexpected header in %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	ds, err := source.DecodeCSV(&buf, source.CSVOptions{Categorical: []string{"plan"}})
	if err != nil {
		t.Fatalf("DecodeCSV() failed: %v", err)
	}
	result, err := checks.NewDataDuplicates(checks.DefaultConfig(), newTestLogger()).Run(ds, true)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if diff := result.Value - 0.1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected duplicate ratio 0.1 after round trip, got %v", result.Value)
	}
}
