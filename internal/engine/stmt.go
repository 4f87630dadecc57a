package engine

import (
	"unsafe"

	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"
)

// Stmt is one prepared statement. Text and blob binds copy into C-side
// memory that stays alive until Finalize.
type Stmt struct {
	c      *Conn
	p      uintptr
	allocs []uintptr
}

// BindParameterCount reports the number of placeholders in the statement.
func (s *Stmt) BindParameterCount() int {
	return int(sqlite3.Xsqlite3_bind_parameter_count(s.c.tls, s.p))
}

// BindNull binds NULL to the 1-based placeholder idx.
func (s *Stmt) BindNull(idx int) error {
	return s.bindResult(sqlite3.Xsqlite3_bind_null(s.c.tls, s.p, int32(idx)))
}

func (s *Stmt) BindInt64(idx int, v int64) error {
	return s.bindResult(sqlite3.Xsqlite3_bind_int64(s.c.tls, s.p, int32(idx), v))
}

func (s *Stmt) BindFloat64(idx int, v float64) error {
	return s.bindResult(sqlite3.Xsqlite3_bind_double(s.c.tls, s.p, int32(idx), v))
}

func (s *Stmt) BindText(idx int, v string) error {
	p, err := libc.CString(v)
	if err != nil {
		return err
	}
	s.allocs = append(s.allocs, p)
	return s.bindResult(sqlite3.Xsqlite3_bind_text(s.c.tls, s.p, int32(idx), p, int32(len(v)), 0))
}

func (s *Stmt) BindBlob(idx int, v []byte) error {
	if len(v) == 0 {
		return s.bindResult(sqlite3.Xsqlite3_bind_zeroblob(s.c.tls, s.p, int32(idx), 0))
	}
	p, err := s.c.malloc(len(v))
	if err != nil {
		return err
	}
	copy((*libc.RawMem)(unsafe.Pointer(p))[:len(v):len(v)], v)
	s.allocs = append(s.allocs, p)
	return s.bindResult(sqlite3.Xsqlite3_bind_blob(s.c.tls, s.p, int32(idx), p, int32(len(v)), 0))
}

// Step advances the cursor. It reports true while a row is available and
// false once the statement has run to completion.
func (s *Stmt) Step() (bool, error) {
	switch rc := sqlite3.Xsqlite3_step(s.c.tls, s.p); rc {
	case sqlite3.SQLITE_ROW:
		return true, nil
	case sqlite3.SQLITE_DONE:
		return false, nil
	default:
		return false, s.c.error(rc)
	}
}

func (s *Stmt) ColumnCount() int {
	return int(sqlite3.Xsqlite3_column_count(s.c.tls, s.p))
}

func (s *Stmt) ColumnName(i int) string {
	return libc.GoString(sqlite3.Xsqlite3_column_name(s.c.tls, s.p, int32(i)))
}

// ColumnType reports the runtime storage class of column i in the current
// row. SQLite types cells, not columns, so this is only meaningful after a
// Step that produced a row.
func (s *Stmt) ColumnType(i int) ColumnType {
	return ColumnType(sqlite3.Xsqlite3_column_type(s.c.tls, s.p, int32(i)))
}

func (s *Stmt) ColumnInt64(i int) int64 {
	return int64(sqlite3.Xsqlite3_column_int64(s.c.tls, s.p, int32(i)))
}

func (s *Stmt) ColumnFloat64(i int) float64 {
	return sqlite3.Xsqlite3_column_double(s.c.tls, s.p, int32(i))
}

func (s *Stmt) ColumnText(i int) string {
	p := sqlite3.Xsqlite3_column_text(s.c.tls, s.p, int32(i))
	n := sqlite3.Xsqlite3_column_bytes(s.c.tls, s.p, int32(i))
	if p == 0 || n <= 0 {
		return ""
	}
	b := make([]byte, n)
	copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
	return string(b)
}

func (s *Stmt) ColumnBlob(i int) []byte {
	p := sqlite3.Xsqlite3_column_blob(s.c.tls, s.p, int32(i))
	n := sqlite3.Xsqlite3_column_bytes(s.c.tls, s.p, int32(i))
	if p == 0 || n <= 0 {
		return []byte{}
	}
	b := make([]byte, n)
	copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
	return b
}

// Finalize releases the statement and any C-side memory held by binds.
// It must run on both success and failure paths.
func (s *Stmt) Finalize() error {
	rc := sqlite3.Xsqlite3_finalize(s.c.tls, s.p)
	for _, p := range s.allocs {
		s.c.free(p)
	}
	s.allocs = nil
	if rc != sqlite3.SQLITE_OK {
		return s.c.error(rc)
	}
	return nil
}

func (s *Stmt) bindResult(rc int32) error {
	if rc != sqlite3.SQLITE_OK {
		return s.c.error(rc)
	}
	return nil
}
