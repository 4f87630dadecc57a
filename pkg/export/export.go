// Package export renders a materialized query result into an output
// format. Encoders share one small interface so the caller can swap
// formats without touching the walk over the result.
package export

import (
	psr "github.com/raphasampaio/psr-database"
)

// RowEncoder is a sink for one result: a header of column names followed
// by zero or more rows, each in column order with values in the ambient
// representation (nil, int64, float64, string, []byte).
type RowEncoder interface {
	// WriteHeader receives the column names. Called exactly once,
	// before any row.
	WriteHeader(columns []string) error

	// WriteRow receives one row. The slice length matches the header.
	WriteRow(values []any) error

	// Flush pushes any buffered output to the underlying writer.
	Flush() error
}

// Write drives enc over every row of res and flushes it.
func Write(enc RowEncoder, res *psr.Result) error {
	if err := enc.WriteHeader(res.Columns()); err != nil {
		return err
	}
	for _, row := range res.Rows() {
		values := make([]any, row.ColumnCount())
		for i := range values {
			values[i] = row.Any(i)
		}
		if err := enc.WriteRow(values); err != nil {
			return err
		}
	}
	return enc.Flush()
}
