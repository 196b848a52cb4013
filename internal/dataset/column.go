package dataset

// Column is a named sequence of values, stored either plainly or as a
// dictionary of categories plus per-row codes
type Column struct {
	Name string

	values     []Value
	categories []Value
	codes      []int32
}

// NewColumn creates a plain column
func NewColumn(name string, values []Value) *Column {
	return &Column{Name: name, values: values}
}

// NewColumnOf creates a plain column from arbitrary Go values
func NewColumnOf(name string, values ...interface{}) *Column {
	vals := make([]Value, len(values))
	for i, v := range values {
		vals[i] = ValueOf(v)
	}
	return NewColumn(name, vals)
}

// NewCategoricalColumn creates a dictionary-encoded column. Nulls are stored
// with code -1 and never enter the dictionary.
func NewCategoricalColumn(name string, values []Value) *Column {
	col := &Column{
		Name:  name,
		codes: make([]int32, len(values)),
	}
	lookup := make(map[string]int32)
	var key []byte
	for i, v := range values {
		if v.IsNull() {
			col.codes[i] = -1
			continue
		}
		key = v.AppendKey(key[:0])
		code, ok := lookup[string(key)]
		if !ok {
			code = int32(len(col.categories))
			col.categories = append(col.categories, v)
			lookup[string(key)] = code
		}
		col.codes[i] = code
	}
	return col
}

// IsCategorical reports whether the column is dictionary encoded
func (c *Column) IsCategorical() bool {
	return c.codes != nil
}

// Len returns the number of values in the column
func (c *Column) Len() int {
	if c.codes != nil {
		return len(c.codes)
	}
	return len(c.values)
}

// At returns the logical value at row i
func (c *Column) At(i int) Value {
	if c.codes != nil {
		code := c.codes[i]
		if code < 0 {
			return NullValue()
		}
		return c.categories[code]
	}
	return c.values[i]
}

// Categories returns the dictionary of a categorical column, nil otherwise
func (c *Column) Categories() []Value {
	return c.categories
}

// Values materialises the logical values of the column
func (c *Column) Values() []Value {
	if c.codes == nil {
		out := make([]Value, len(c.values))
		copy(out, c.values)
		return out
	}
	out := make([]Value, len(c.codes))
	for i := range c.codes {
		out[i] = c.At(i)
	}
	return out
}

// AsCategorical returns a dictionary-encoded copy of the column
func (c *Column) AsCategorical() *Column {
	if c.IsCategorical() {
		return c
	}
	return NewCategoricalColumn(c.Name, c.values)
}
