package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/jaswdr/faker"
	"github.com/sirupsen/logrus"
	"github.com/vitebski/mysql-duplicate-checker/internal/dataset"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
)

var enumValuesPattern = regexp.MustCompile(`'((?:[^']|'')*)'`)

// DataGenerator generates fake rows with a controlled share of duplicates
type DataGenerator struct {
	Faker  faker.Faker
	Rand   *rand.Rand
	Logger *logrus.Logger
}

// NewDataGenerator creates a new data generator. The same seed always
// produces the same rows.
func NewDataGenerator(seed int64, logger *logrus.Logger) *DataGenerator {
	return &DataGenerator{
		Faker:  faker.NewWithSeed(rand.NewSource(seed)),
		Rand:   rand.New(rand.NewSource(seed)),
		Logger: logger,
	}
}

// DefaultColumns is the column layout used when generating standalone files
func DefaultColumns() []models.Column {
	maxName := int64(100)
	return []models.Column{
		{Name: "full_name", DataType: "varchar", CharMaxLength: &maxName},
		{Name: "email", DataType: "varchar", CharMaxLength: &maxName},
		{Name: "city", DataType: "varchar", CharMaxLength: &maxName, IsNullable: true},
		{Name: "age", DataType: "int"},
		{Name: "plan", DataType: "enum", ColumnType: "enum('free','pro','team')"},
		{Name: "balance", DataType: "decimal"},
	}
}

// GenerateValue generates data for a column based on its name and type
func (dg *DataGenerator) GenerateValue(column models.Column) interface{} {
	if column.IsAutoIncrement() {
		return nil // Let MySQL handle auto_increment
	}
	if column.IsNullable && dg.Rand.Float64() < 0.1 {
		return nil
	}

	columnName := strings.ToLower(column.Name)
	dataType := strings.ToLower(column.DataType)

	if dataType == "varchar" || dataType == "char" || dataType == "text" {
		switch {
		case strings.Contains(columnName, "email"):
			return dg.Faker.Internet().Email()
		case strings.Contains(columnName, "first"):
			return dg.Faker.Person().FirstName()
		case strings.Contains(columnName, "last"):
			return dg.Faker.Person().LastName()
		case strings.Contains(columnName, "company"):
			return dg.Faker.Company().Name()
		case strings.Contains(columnName, "name"):
			return dg.Faker.Person().Name()
		case strings.Contains(columnName, "phone"):
			return dg.Faker.Phone().Number()
		case strings.Contains(columnName, "city"):
			return dg.Faker.Address().City()
		case strings.Contains(columnName, "country"):
			return dg.Faker.Address().Country()
		case strings.Contains(columnName, "url"):
			return dg.Faker.Internet().URL()
		case strings.Contains(columnName, "uuid"):
			return dg.Faker.UUID().V4()
		}
	}

	switch dataType {
	case "varchar", "char", "text", "tinytext", "mediumtext", "longtext":
		return dg.generateString(column)
	case "int", "tinyint", "smallint", "mediumint", "bigint":
		return dg.generateInteger(column)
	case "float", "double", "decimal":
		return math.Round(dg.Rand.Float64()*100000) / 100
	case "date":
		return dg.generateTime().Format("2006-01-02")
	case "datetime", "timestamp":
		return dg.generateTime()
	case "enum":
		return dg.generateEnum(column)
	case "boolean", "bool":
		return dg.Rand.Intn(2) == 1
	default:
		dg.Logger.Warningf("No specific generator for type %s, using default string", dataType)
		return dg.Faker.Lorem().Word()
	}
}

// generateString generates a string value that fits the column length
func (dg *DataGenerator) generateString(column models.Column) string {
	var maxLength int64 = 255
	if column.CharMaxLength != nil {
		maxLength = *column.CharMaxLength
	}

	var s string
	switch {
	case maxLength <= 5:
		s = dg.Faker.RandomStringWithLength(int(maxLength))
	case maxLength <= 20:
		s = dg.Faker.Lorem().Word()
	default:
		s = dg.Faker.Lorem().Sentence(4)
	}
	if int64(len(s)) > maxLength {
		s = s[:maxLength]
	}
	return s
}

// generateInteger generates an integer value based on column constraints
func (dg *DataGenerator) generateInteger(column models.Column) int {
	if strings.Contains(strings.ToLower(column.ColumnType), "tinyint(1)") {
		return dg.Rand.Intn(2)
	}
	if strings.Contains(strings.ToLower(column.Name), "age") {
		return 18 + dg.Rand.Intn(70)
	}
	if strings.ToLower(column.DataType) == "tinyint" {
		return dg.Rand.Intn(128)
	}
	return dg.Rand.Intn(100000)
}

func (dg *DataGenerator) generateTime() time.Time {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(dg.Rand.Int63n(5*365*24)) * time.Hour)
}

// generateEnum picks one of the values listed in an enum column type
func (dg *DataGenerator) generateEnum(column models.Column) interface{} {
	matches := enumValuesPattern.FindAllStringSubmatch(column.ColumnType, -1)
	if len(matches) == 0 {
		dg.Logger.Warningf("Could not parse enum values for column %s", column.Name)
		return nil
	}
	return strings.ReplaceAll(matches[dg.Rand.Intn(len(matches))][1], "''", "'")
}

// GenerateRows generates n rows, round(n*duplicateRatio) of which repeat an
// earlier row. The other rows are pairwise distinct.
func (dg *DataGenerator) GenerateRows(columns []models.Column, n int, duplicateRatio float64) ([][]interface{}, int, error) {
	if n <= 0 {
		return nil, 0, fmt.Errorf("number of rows must be positive, got %d", n)
	}
	if duplicateRatio < 0 || duplicateRatio >= 1 {
		return nil, 0, fmt.Errorf("duplicate ratio must be in [0, 1), got %v", duplicateRatio)
	}

	duplicates := int(math.Round(float64(n) * duplicateRatio))
	if duplicates >= n {
		duplicates = n - 1
	}
	distinct := n - duplicates

	rows := make([][]interface{}, 0, n)
	seen := make(map[string]bool, distinct)
	var key []byte
	maxAttempts := distinct * 20
	for attempts := 0; len(rows) < distinct; attempts++ {
		if attempts >= maxAttempts {
			return nil, 0, fmt.Errorf("could not generate %d distinct rows after %d attempts", distinct, attempts)
		}

		row := make([]interface{}, len(columns))
		key = key[:0]
		for i, column := range columns {
			row[i] = dg.GenerateValue(column)
			key = dataset.ValueOf(row[i]).AppendKey(key)
		}
		if seen[string(key)] {
			continue
		}
		seen[string(key)] = true
		rows = append(rows, row)
	}

	for i := 0; i < duplicates; i++ {
		src := rows[dg.Rand.Intn(distinct)]
		dup := make([]interface{}, len(src))
		copy(dup, src)
		rows = append(rows, dup)
	}
	dg.Rand.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})

	dg.Logger.Debugf("Generated %d rows (%d duplicates)", len(rows), duplicates)
	return rows, duplicates, nil
}

// GenerateDataset generates rows and wraps them into a dataset
func (dg *DataGenerator) GenerateDataset(columns []models.Column, n int, duplicateRatio float64) (*dataset.Dataset, error) {
	rows, _, err := dg.GenerateRows(columns, n, duplicateRatio)
	if err != nil {
		return nil, err
	}

	cols := make([]*dataset.Column, len(columns))
	for i, column := range columns {
		values := make([]dataset.Value, len(rows))
		for r, row := range rows {
			values[r] = dataset.ValueOf(row[i])
		}
		cols[i] = dataset.NewColumn(column.Name, values)
	}
	return dataset.New(cols)
}

// WriteCSV writes rows with a header line. Nulls are written as empty cells.
func WriteCSV(w io.Writer, columns []models.Column, rows [][]interface{}) error {
	writer := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, column := range columns {
		header[i] = column.Name
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, v := range row {
			value := dataset.ValueOf(v)
			if value.IsNull() {
				record[i] = ""
			} else {
				record[i] = value.String()
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
