package export

import (
	"io"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// CBOREncoder buffers the whole result and writes it on Flush as one
// CBOR array of maps, blobs as byte strings. Suited to results that are
// already fully materialized in memory, which is what the access layer
// produces.
type CBOREncoder struct {
	w       io.Writer
	columns []string
	rows    []map[string]any
}

func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) WriteHeader(columns []string) error {
	e.columns = columns
	return nil
}

func (e *CBOREncoder) WriteRow(values []any) error {
	obj := make(map[string]any, len(values))
	for i, v := range values {
		name := "column_" + strconv.Itoa(i)
		if i < len(e.columns) {
			name = e.columns[i]
		}
		obj[name] = v
	}
	e.rows = append(e.rows, obj)
	return nil
}

func (e *CBOREncoder) Flush() error {
	data, err := cbor.Marshal(e.rows)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
