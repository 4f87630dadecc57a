package psr

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind identifies which of the engine's five storage classes a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "REAL"
	case KindText:
		return "TEXT"
	case KindBlob:
		return "BLOB"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one cell as produced by the engine: exactly one of NULL,
// INTEGER, REAL, TEXT or BLOB. The engine types cells at runtime, not
// columns, so the kind is resolved per cell regardless of the declared
// schema type. Values are immutable once constructed; the zero Value is
// Null.
type Value struct {
	kind Kind
	n    int64
	f    float64
	s    string
	b    []byte
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// Int returns an INTEGER value.
func Int(v int64) Value { return Value{kind: KindInteger, n: v} }

// Float returns a REAL value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a TEXT value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Blob returns a BLOB value. The byte slice is not copied.
func Blob(v []byte) Value { return Value{kind: KindBlob, b: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the stored integer. Probing a Value of another kind is not
// an error; it reports false.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.n, true
}

// Float returns the stored real. An INTEGER value is not widened.
func (v Value) Float() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// Text returns the stored text.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// Bytes returns the stored blob.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBlob {
		return nil, false
	}
	return v.b, true
}

// Any maps the value onto its ambient Go representation: nil, int64,
// float64, string or []byte. No coercion happens across kinds.
func (v Value) Any() any {
	switch v.kind {
	case KindInteger:
		return v.n
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.b
	}
	return nil
}

// Equal reports structural equality. Values of different kinds are never
// equal, even when numerically equivalent.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.n == w.n
	case KindFloat:
		return v.f == w.f
	case KindText:
		return v.s == w.s
	case KindBlob:
		return bytes.Equal(v.b, w.b)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBlob:
		return fmt.Sprintf("x'%x'", v.b)
	}
	return "NULL"
}
