package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestNewEmptyDataset(t *testing.T) {
	_, err := New([]*Column{
		NewColumnOf("col1"),
		NewColumnOf("col2"),
		NewColumnOf("col3"),
	})
	if err == nil {
		t.Fatal("Expected an error for an empty dataset")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "empty dataframe") {
		t.Errorf("Expected message to mention the empty dataframe, got %q", err.Error())
	}
	if !errors.Is(err, ErrEmptyDataset) {
		t.Error("Expected error to match ErrEmptyDataset")
	}

	if _, err := New(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset for no columns, got %v", err)
	}
	if err := Validate(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset from Validate(nil), got %v", err)
	}
}

func TestNewRejectsMalformedColumns(t *testing.T) {
	_, err := New([]*Column{NewColumnOf("a", 1, 2), NewColumnOf("b", 1)})
	if err == nil {
		t.Error("Expected an error for mismatched column lengths")
	}

	_, err = New([]*Column{NewColumnOf("a", 1), NewColumnOf("a", 2)})
	if err == nil {
		t.Error("Expected an error for duplicate column names")
	}

	_, err = New([]*Column{NewColumnOf("a", 1)}, WithIndex("missing"))
	if err == nil {
		t.Error("Expected an error for a missing index column")
	}
}

func TestWithIndex(t *testing.T) {
	ds, err := New([]*Column{
		NewColumnOf("col1", 1, 2),
		NewColumnOf("col2", 3, 4),
		NewColumnOf("col3", 5, 6),
	}, WithIndex("col3"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	names := ds.ColumnNames()
	if len(names) != 2 || names[0] != "col1" || names[1] != "col2" {
		t.Errorf("Expected data columns [col1 col2], got %v", names)
	}
	if ds.IndexName() != "col3" {
		t.Errorf("Expected index col3, got %q", ds.IndexName())
	}
	if _, ok := ds.Column("col3"); !ok {
		t.Error("Expected the index column to be reachable by name")
	}
	if ds.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", ds.Len())
	}
}

func TestCategoricalColumnPreservesValues(t *testing.T) {
	plain := NewColumnOf("c", "x", nil, "y", "x", 1.5, nil)
	cat := plain.AsCategorical()

	if !cat.IsCategorical() {
		t.Fatal("Expected a categorical column")
	}
	if len(cat.Categories()) != 3 {
		t.Errorf("Expected 3 categories, got %d", len(cat.Categories()))
	}
	for i := 0; i < plain.Len(); i++ {
		if !plain.At(i).Equal(cat.At(i)) {
			t.Errorf("Row %d: plain %v != categorical %v", i, plain.At(i), cat.At(i))
		}
	}
}

func TestValueOf(t *testing.T) {
	if !ValueOf(int64(3)).Equal(ValueOf(3.0)) {
		t.Error("Expected int64(3) to equal 3.0")
	}
	if !ValueOf(math.NaN()).IsNull() {
		t.Error("Expected NaN to be null")
	}
	if !ValueOf([]byte("abc")).Equal(StringValue("abc")) {
		t.Error("Expected []byte to convert to a string value")
	}
	if !ValueOf(math.Copysign(0, -1)).Equal(ValueOf(0)) {
		t.Error("Expected -0 to equal 0")
	}
	if ValueOf("1").Equal(ValueOf(1)) {
		t.Error("Expected string and number values to differ")
	}
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if ValueOf(ts).String() != "2024-01-02T03:04:05Z" {
		t.Errorf("Unexpected time encoding %q", ValueOf(ts).String())
	}
}

func TestAppendKeyDistinguishesBoundaries(t *testing.T) {
	// ("ab", "c") and ("a", "bc") must not collide
	k1 := StringValue("c").AppendKey(StringValue("ab").AppendKey(nil))
	k2 := StringValue("bc").AppendKey(StringValue("a").AppendKey(nil))
	if string(k1) == string(k2) {
		t.Error("Expected different keys for different tuples")
	}

	n1 := NullValue().AppendKey(nil)
	n2 := ValueOf(math.NaN()).AppendKey(nil)
	if string(n1) != string(n2) {
		t.Error("Expected all nulls to share a key")
	}
}

func TestValueLiteralsAreNormalized(t *testing.T) {
	nan := Value{Kind: Number, Num: math.NaN()}
	if !nan.IsNull() {
		t.Error("Expected a NaN literal to be null")
	}
	if string(nan.AppendKey(nil)) != string(NullValue().AppendKey(nil)) {
		t.Error("Expected a NaN literal to share the null key")
	}
	if !ValueOf(nan).Equal(NullValue()) || ValueOf(nan).Kind != Null {
		t.Errorf("Expected ValueOf to turn a NaN literal into null, got %#v", ValueOf(nan))
	}

	negZero := Value{Kind: Number, Num: math.Copysign(0, -1)}
	if string(negZero.AppendKey(nil)) != string(NumberValue(0).AppendKey(nil)) {
		t.Error("Expected -0 and 0 to share a key")
	}
	if math.Signbit(ValueOf(negZero).Num) {
		t.Error("Expected ValueOf to fold -0")
	}
}

func TestAsCategoricalDataset(t *testing.T) {
	ds, err := New([]*Column{NewColumnOf("a", 1, 2), NewColumnOf("b", "x", "y")})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	cat, err := ds.AsCategorical("b")
	if err != nil {
		t.Fatalf("AsCategorical() failed: %v", err)
	}
	a, _ := cat.Column("a")
	b, _ := cat.Column("b")
	if a.IsCategorical() {
		t.Error("Expected column a to stay plain")
	}
	if !b.IsCategorical() {
		t.Error("Expected column b to be categorical")
	}

	if _, err := ds.AsCategorical("nope"); err == nil {
		t.Error("Expected an error for an unknown column")
	}
}
