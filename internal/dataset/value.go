package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the logical type of a cell value
type Kind uint8

const (
	Null Kind = iota
	Number
	String
)

// Value is a single logical cell value. Two Values are equal when their kinds
// and payloads are equal; all nulls are equal to each other.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// NullValue returns the null Value
func NullValue() Value {
	return Value{Kind: Null}
}

// NumberValue returns a numeric Value. NaN is treated as null.
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{Kind: Null}
	}
	if f == 0 {
		f = 0 // folds -0
	}
	return Value{Kind: Number, Num: f}
}

// StringValue returns a string Value
func StringValue(s string) Value {
	return Value{Kind: String, Str: s}
}

// ValueOf converts a Go or database/sql driver value into a Value
func ValueOf(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return NullValue()
	case Value:
		return val.normalize()
	case float64:
		return NumberValue(val)
	case float32:
		return NumberValue(float64(val))
	case int:
		return NumberValue(float64(val))
	case int8:
		return NumberValue(float64(val))
	case int16:
		return NumberValue(float64(val))
	case int32:
		return NumberValue(float64(val))
	case int64:
		return NumberValue(float64(val))
	case uint:
		return NumberValue(float64(val))
	case uint8:
		return NumberValue(float64(val))
	case uint16:
		return NumberValue(float64(val))
	case uint32:
		return NumberValue(float64(val))
	case uint64:
		return NumberValue(float64(val))
	case bool:
		if val {
			return NumberValue(1)
		}
		return NumberValue(0)
	case string:
		return StringValue(val)
	case []byte:
		return StringValue(string(val))
	case time.Time:
		return StringValue(val.UTC().Format(time.RFC3339Nano))
	case *string:
		if val == nil {
			return NullValue()
		}
		return StringValue(*val)
	case *float64:
		if val == nil {
			return NullValue()
		}
		return NumberValue(*val)
	case *int64:
		if val == nil {
			return NullValue()
		}
		return NumberValue(float64(*val))
	default:
		return StringValue(fmt.Sprintf("%v", val))
	}
}

// normalize applies the NumberValue rules to a Value built as a literal
func (v Value) normalize() Value {
	if v.Kind == Number {
		return NumberValue(v.Num)
	}
	return v
}

// IsNull reports whether v is null
func (v Value) IsNull() bool {
	return v.Kind == Null || (v.Kind == Number && math.IsNaN(v.Num))
}

// Equal reports logical equality
func (v Value) Equal(o Value) bool {
	v, o = v.normalize(), o.normalize()
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Number:
		return v.Num == o.Num
	case String:
		return v.Str == o.Str
	}
	return true
}

func (v Value) String() string {
	switch v.Kind {
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case String:
		return v.Str
	}
	return "NULL"
}

// AppendKey appends a self-delimiting binary encoding of v to b. Values that
// are Equal always encode identically.
func (v Value) AppendKey(b []byte) []byte {
	v = v.normalize()
	b = append(b, byte(v.Kind))
	switch v.Kind {
	case Number:
		bits := math.Float64bits(v.Num)
		b = append(b,
			byte(bits>>56), byte(bits>>48), byte(bits>>40), byte(bits>>32),
			byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
	case String:
		n := uint64(len(v.Str))
		for n >= 0x80 {
			b = append(b, byte(n)|0x80)
			n >>= 7
		}
		b = append(b, byte(n))
		b = append(b, v.Str...)
	}
	return b
}
