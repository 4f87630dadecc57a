package psr

import (
	"fmt"
	"math"

	"github.com/raphasampaio/psr-database/internal/engine"
)

// toValue maps an ambient Go value onto one of the engine's storage
// classes. It accepts nil, Value itself, booleans, every integer and
// float width, strings and byte slices; anything else has no engine
// representation.
func toValue(arg any) (Value, error) {
	switch v := arg.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		if v {
			return Int(1), nil
		}
		return Int(0), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Value{}, fmt.Errorf("value %d overflows INTEGER", v)
		}
		return Int(int64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return Value{}, fmt.Errorf("value %d overflows INTEGER", v)
		}
		return Int(int64(v)), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Blob(v), nil
	}
	return Value{}, fmt.Errorf("cannot bind value of type %T", arg)
}

// bindArgs binds args to the statement's placeholders, positionally and
// left to right. The count must match the placeholder count exactly.
func bindArgs(stmt *engine.Stmt, args []any) error {
	want := stmt.BindParameterCount()
	if len(args) != want {
		return &BindError{Msg: fmt.Sprintf("statement expects %d parameters, got %d", want, len(args))}
	}
	for i, arg := range args {
		v, err := toValue(arg)
		if err != nil {
			return &BindError{Index: i + 1, Msg: err.Error()}
		}
		if err := bindValue(stmt, i+1, v); err != nil {
			return &BindError{Index: i + 1, Msg: err.Error()}
		}
	}
	return nil
}

func bindValue(stmt *engine.Stmt, idx int, v Value) error {
	switch v.kind {
	case KindInteger:
		return stmt.BindInt64(idx, v.n)
	case KindFloat:
		return stmt.BindFloat64(idx, v.f)
	case KindText:
		return stmt.BindText(idx, v.s)
	case KindBlob:
		return stmt.BindBlob(idx, v.b)
	}
	return stmt.BindNull(idx)
}
