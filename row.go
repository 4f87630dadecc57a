package psr

// Row is one materialized record: an ordered sequence of values plus a
// shared, read-only view of the parent Result's column names. Rows stay
// valid after the producing database is closed.
type Row struct {
	values  []Value
	columns []string
}

// ColumnCount reports the number of values in the row.
func (r Row) ColumnCount() int { return len(r.values) }

// Value returns the value at index i. It panics when i is out of range,
// like slice indexing.
func (r Row) Value(i int) Value { return r.values[i] }

// Any returns the ambient Go representation of the value at index i.
func (r Row) Any(i int) any { return r.values[i].Any() }

// GetInt returns the integer at index i. A cell of another kind, a NULL
// cell or an out-of-range index reports false rather than failing;
// wrong-kind probing is an expected query pattern.
func (r Row) GetInt(i int) (int64, bool) {
	if i < 0 || i >= len(r.values) {
		return 0, false
	}
	return r.values[i].Int()
}

// GetFloat returns the real at index i, absent on kind mismatch.
func (r Row) GetFloat(i int) (float64, bool) {
	if i < 0 || i >= len(r.values) {
		return 0, false
	}
	return r.values[i].Float()
}

// GetString returns the text at index i, absent on kind mismatch.
func (r Row) GetString(i int) (string, bool) {
	if i < 0 || i >= len(r.values) {
		return "", false
	}
	return r.values[i].Text()
}

// GetBytes returns the blob at index i, absent on kind mismatch.
func (r Row) GetBytes(i int) ([]byte, bool) {
	if i < 0 || i >= len(r.values) {
		return nil, false
	}
	return r.values[i].Bytes()
}

// IsNull reports whether the cell at index i is NULL. Out-of-range
// indexes report true.
func (r Row) IsNull(i int) bool {
	if i < 0 || i >= len(r.values) {
		return true
	}
	return r.values[i].IsNull()
}

// Column returns the value under the named column. Column names are not
// necessarily unique (joins may repeat a name); the first match wins.
func (r Row) Column(name string) (Value, bool) {
	for i, col := range r.columns {
		if col == name && i < len(r.values) {
			return r.values[i], true
		}
	}
	return Value{}, false
}
