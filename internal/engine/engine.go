// Package engine is a thin, Go-friendly surface over the embedded SQLite
// library (the pure-Go modernc.org translation, no cgo involved).
//
// It exposes exactly the primitives the access layer above needs: open a
// connection, prepare one statement, bind positional parameters, step the
// cursor, read typed columns, finalize, and the per-connection counters.
// Everything returned to callers is copied out of C-side memory, so values
// stay valid after the statement or connection is gone.
package engine

import (
	"fmt"
	"sync"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"
)

// ColumnType is the engine's runtime storage class of one cell.
type ColumnType int32

const (
	TypeInteger ColumnType = sqlite3.SQLITE_INTEGER
	TypeFloat   ColumnType = sqlite3.SQLITE_FLOAT
	TypeText    ColumnType = sqlite3.SQLITE_TEXT
	TypeBlob    ColumnType = sqlite3.SQLITE_BLOB
	TypeNull    ColumnType = sqlite3.SQLITE_NULL
)

// Error carries the engine result code and its diagnostic text.
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("sqlite: result code %d", e.Code)
	}
	return e.Msg
}

var ptrSize = int(unsafe.Sizeof(uintptr(0)))

var initOnce sync.Once

// Conn is one engine connection. It is not safe for concurrent use.
type Conn struct {
	tls *libc.TLS
	db  uintptr
}

// Open opens or creates the database at path. The ":memory:" sentinel
// yields a private in-memory database.
func Open(path string) (*Conn, error) {
	tls := libc.NewTLS()
	initOnce.Do(func() {
		sqlite3.Xsqlite3_initialize(tls)
	})

	c := &Conn{tls: tls}
	name, err := libc.CString(path)
	if err != nil {
		tls.Close()
		return nil, err
	}
	defer c.free(name)

	p, err := c.malloc(ptrSize)
	if err != nil {
		tls.Close()
		return nil, err
	}
	rc := sqlite3.Xsqlite3_open_v2(tls, name, p,
		sqlite3.SQLITE_OPEN_READWRITE|sqlite3.SQLITE_OPEN_CREATE, 0)
	c.db = *(*uintptr)(unsafe.Pointer(p))
	c.free(p)

	if rc != sqlite3.SQLITE_OK {
		// The handle is usually allocated even on failure and holds
		// the diagnostic; read it before releasing.
		err := c.error(rc)
		if c.db != 0 {
			sqlite3.Xsqlite3_close_v2(tls, c.db)
		}
		tls.Close()
		return nil, err
	}
	return c, nil
}

// Prepare compiles the first statement of query. Trailing statements in a
// multi-statement string are ignored.
func (c *Conn) Prepare(query string) (*Stmt, error) {
	zSQL, err := libc.CString(query)
	if err != nil {
		return nil, err
	}
	defer c.free(zSQL)

	pptr, err := c.malloc(ptrSize)
	if err != nil {
		return nil, err
	}
	defer c.free(pptr)

	if rc := sqlite3.Xsqlite3_prepare_v2(c.tls, c.db, zSQL, -1, pptr, 0); rc != sqlite3.SQLITE_OK {
		return nil, c.error(rc)
	}
	p := *(*uintptr)(unsafe.Pointer(pptr))
	if p == 0 {
		// Whitespace or comment-only input compiles to no statement.
		return nil, &Error{Code: sqlite3.SQLITE_MISUSE, Msg: "query contains no statement"}
	}
	return &Stmt{c: c, p: p}, nil
}

// Exec runs a single statement that carries no parameters and whose rows,
// if any, are discarded.
func (c *Conn) Exec(query string) error {
	stmt, err := c.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Finalize()
	for {
		row, err := stmt.Step()
		if err != nil {
			return err
		}
		if !row {
			return nil
		}
	}
}

// LastInsertRowID reports the rowid of the most recent successful INSERT
// on this connection.
func (c *Conn) LastInsertRowID() int64 {
	return int64(sqlite3.Xsqlite3_last_insert_rowid(c.tls, c.db))
}

// Changes reports the number of rows modified by the most recent
// statement on this connection.
func (c *Conn) Changes() int64 {
	return int64(sqlite3.Xsqlite3_changes(c.tls, c.db))
}

// ErrMsg returns the engine's most recent diagnostic text.
func (c *Conn) ErrMsg() string {
	return libc.GoString(sqlite3.Xsqlite3_errmsg(c.tls, c.db))
}

// Close releases the connection. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	if c.db != 0 {
		if rc := sqlite3.Xsqlite3_close_v2(c.tls, c.db); rc != sqlite3.SQLITE_OK {
			err = c.error(rc)
		}
		c.db = 0
	}
	if c.tls != nil {
		c.tls.Close()
		c.tls = nil
	}
	return err
}

func (c *Conn) error(rc int32) error {
	msg := ""
	if c.db != 0 {
		msg = c.ErrMsg()
	} else {
		msg = libc.GoString(sqlite3.Xsqlite3_errstr(c.tls, rc))
	}
	return &Error{Code: int(rc), Msg: msg}
}

func (c *Conn) malloc(n int) (uintptr, error) {
	p := libc.Xmalloc(c.tls, types.Size_t(n))
	if p == 0 {
		return 0, fmt.Errorf("cannot allocate %d bytes", n)
	}
	return p, nil
}

func (c *Conn) free(p uintptr) {
	if p != 0 {
		libc.Xfree(c.tls, p)
	}
}
