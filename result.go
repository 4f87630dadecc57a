package psr

// Result is the fully materialized outcome of one Execute call: the
// column names in statement order and every row the cursor produced.
// It is a detached snapshot with no reference back to the connection,
// so it stays readable after the database is closed, and it is safe to
// share across goroutines.
type Result struct {
	columns []string
	rows    []Row
}

// RowCount reports the number of materialized rows.
func (r *Result) RowCount() int { return len(r.rows) }

// ColumnCount reports the number of result columns. Statements that
// produce no result set (DDL, plain DML) have zero columns.
func (r *Result) ColumnCount() int { return len(r.columns) }

// Columns returns the column names in statement order. Names are not
// necessarily unique.
func (r *Result) Columns() []string { return r.columns }

// Empty reports whether the result holds no rows.
func (r *Result) Empty() bool { return len(r.rows) == 0 }

// Row returns the row at index i. It panics when i is out of range, like
// slice indexing.
func (r *Result) Row(i int) Row { return r.rows[i] }

// Rows returns the materialized rows for iteration. Ranging over the
// returned slice is restartable; the same rows come back every time.
func (r *Result) Rows() []Row { return r.rows }
