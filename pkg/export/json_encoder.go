package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// JSONEncoder writes JSON Lines: one object per row, keyed by column
// name. Duplicate column names collapse to the last occurrence, which is
// inherent to the object representation.
type JSONEncoder struct {
	w       *bufio.Writer
	columns []string
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: bufio.NewWriter(w)}
}

// WriteHeader captures the column names for use as object keys; JSON
// Lines has no header row of its own.
func (e *JSONEncoder) WriteHeader(columns []string) error {
	e.columns = columns
	return nil
}

func (e *JSONEncoder) WriteRow(values []any) error {
	obj := make(map[string]any, len(values))
	for i, v := range values {
		name := "column_" + strconv.Itoa(i)
		if i < len(e.columns) {
			name = e.columns[i]
		}
		obj[name] = v
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(data); err != nil {
		return err
	}
	return e.w.WriteByte('\n')
}

func (e *JSONEncoder) Flush() error {
	return e.w.Flush()
}
