package psr

import (
	"fmt"
)

// ConnectionError reports that the engine could not open or create the
// target database.
type ConnectionError struct {
	Path string
	Msg  string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open %s: %s", e.Path, e.Msg)
}

// QueryError reports a prepare or execution failure. Msg carries the
// engine's own diagnostic text.
type QueryError struct {
	SQL string
	Msg string
}

func (e *QueryError) Error() string {
	return e.Msg
}

// BindError reports a parameter the statement cannot accept: a count
// mismatch against the placeholder count, or a value of a type the
// engine has no representation for.
type BindError struct {
	Index int // 1-based placeholder position, 0 for a count mismatch
	Msg   string
}

func (e *BindError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("bind parameter %d: %s", e.Index, e.Msg)
	}
	return e.Msg
}

// StateError reports a transaction operation issued in the wrong state,
// such as a second Begin or a Commit without a transaction.
type StateError struct {
	Op  string
	Msg string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// UseAfterCloseError reports an operation on a closed database. Closing
// is terminal; a new handle must be opened.
type UseAfterCloseError struct {
	Op string
}

func (e *UseAfterCloseError) Error() string {
	return fmt.Sprintf("%s: database is closed", e.Op)
}
