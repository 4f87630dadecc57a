package psr

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/raphasampaio/psr-database/internal/engine"
	"github.com/raphasampaio/psr-database/pkg/logger"
)

// Memory is the engine's in-memory target sentinel. Opening it yields a
// private database that disappears with the handle.
const Memory = ":memory:"

// DB owns exactly one engine connection. A handle moves from open to
// closed once; reopening means constructing a new handle. It is not safe
// for concurrent use from multiple goroutines without external locking —
// the engine connection is single-threaded and this layer adds nothing on
// top. Separate handles, including several on the same file, operate
// independently under the engine's own locking.
type DB struct {
	conn   *engine.Conn
	path   string
	open   bool
	inTx   bool
	logger zerolog.Logger
}

type options struct {
	level   zerolog.Level
	logPath string
	logger  *zerolog.Logger
}

// Option configures a handle at Open time.
type Option func(*options)

// WithLogLevel sets the console log level. The default is info.
func WithLogLevel(level zerolog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithLogPath adds a log file sink next to the console sink.
func WithLogPath(path string) Option {
	return func(o *options) { o.logPath = path }
}

// WithLogger replaces the built logger entirely.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// Open opens or creates the database at path, which is either a
// filesystem path or the Memory sentinel. Foreign key enforcement is
// switched on for the connection.
func Open(path string, opts ...Option) (*DB, error) {
	o := options{level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	log, err := buildLogger(path, o)
	if err != nil {
		return nil, &ConnectionError{Path: path, Msg: err.Error()}
	}

	log.Debug().Msg("opening database")
	conn, err := engine.Open(path)
	if err != nil {
		log.Error().Err(err).Msg("open failed")
		return nil, &ConnectionError{Path: path, Msg: err.Error()}
	}
	if err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Error().Err(err).Msg("enabling foreign keys failed")
		conn.Close()
		return nil, &ConnectionError{Path: path, Msg: err.Error()}
	}
	log.Debug().Msg("database open, foreign keys enabled")

	return &DB{conn: conn, path: path, open: true, logger: log}, nil
}

// With opens path, hands the handle to fn and closes it on every exit
// path. Closing twice is safe, so fn may close early itself.
func With(path string, fn func(*DB) error, opts ...Option) error {
	db, err := Open(path, opts...)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func buildLogger(path string, o options) (zerolog.Logger, error) {
	if o.logger != nil {
		return o.logger.With().Str("db", path).Logger(), nil
	}
	build := logger.New().FromBuffer(os.Stderr).WithLevel(o.level)
	if o.logPath != "" {
		build = build.FromPath(o.logPath)
	}
	data, err := build.Make()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return data.Logger.With().Str("db", path).Logger(), nil
}

// IsOpen reports whether the handle still owns a live connection.
func (db *DB) IsOpen() bool { return db.open }

// InTransaction reports whether an explicit transaction is in progress.
func (db *DB) InTransaction() bool { return db.open && db.inTx }

// Path returns the target the handle was opened with.
func (db *DB) Path() string { return db.path }

// LastInsertRowID reports the engine's most recent auto-generated row
// identifier on this connection. Every Execute overwrites it.
func (db *DB) LastInsertRowID() int64 {
	if !db.open {
		return 0
	}
	return db.conn.LastInsertRowID()
}

// Changes reports the rows affected by the most recent write statement
// on this connection. Every Execute overwrites it.
func (db *DB) Changes() int64 {
	if !db.open {
		return 0
	}
	return db.conn.Changes()
}

// ErrorMessage returns the engine's most recent diagnostic text.
func (db *DB) ErrorMessage() string {
	if !db.open {
		return "database is closed"
	}
	return db.conn.ErrMsg()
}

// Execute prepares sql, binds args positionally, steps the cursor to
// completion and returns the fully materialized result. The statement is
// finalized on every path, success or failure. A statement that produces
// no result columns returns an empty Result, not an error. Only the
// first statement of a multi-statement string is executed.
func (db *DB) Execute(sql string, args ...any) (*Result, error) {
	if !db.open {
		return nil, &UseAfterCloseError{Op: "execute"}
	}
	db.logger.Debug().Str("sql", sql).Int("args", len(args)).Msg("execute")

	stmt, err := db.conn.Prepare(sql)
	if err != nil {
		db.logger.Error().Err(err).Msg("prepare failed")
		return nil, &QueryError{SQL: sql, Msg: err.Error()}
	}
	defer db.finalize(stmt)

	if err := bindArgs(stmt, args); err != nil {
		return nil, err
	}

	columns := make([]string, stmt.ColumnCount())
	for i := range columns {
		columns[i] = stmt.ColumnName(i)
	}

	var rows []Row
	for {
		more, err := stmt.Step()
		if err != nil {
			db.logger.Error().Err(err).Msg("step failed")
			return nil, &QueryError{SQL: sql, Msg: err.Error()}
		}
		if !more {
			break
		}
		values := make([]Value, len(columns))
		for i := range values {
			values[i] = columnValue(stmt, i)
		}
		rows = append(rows, Row{values: values, columns: columns})
	}
	return &Result{columns: columns, rows: rows}, nil
}

// Begin starts an explicit transaction. The handle does not model
// savepoints; a second Begin is a StateError.
func (db *DB) Begin() error {
	if !db.open {
		return &UseAfterCloseError{Op: "begin"}
	}
	if db.inTx {
		return &StateError{Op: "begin", Msg: "transaction already in progress"}
	}
	if _, err := db.Execute("BEGIN TRANSACTION"); err != nil {
		return err
	}
	db.inTx = true
	db.logger.Debug().Msg("transaction started")
	return nil
}

// Commit persists the current transaction.
func (db *DB) Commit() error {
	if !db.open {
		return &UseAfterCloseError{Op: "commit"}
	}
	if !db.inTx {
		return &StateError{Op: "commit", Msg: "no transaction in progress"}
	}
	if _, err := db.Execute("COMMIT"); err != nil {
		return err
	}
	db.inTx = false
	db.logger.Debug().Msg("transaction committed")
	return nil
}

// Rollback discards the current transaction.
func (db *DB) Rollback() error {
	if !db.open {
		return &UseAfterCloseError{Op: "rollback"}
	}
	if !db.inTx {
		return &StateError{Op: "rollback", Msg: "no transaction in progress"}
	}
	if _, err := db.Execute("ROLLBACK"); err != nil {
		return err
	}
	db.inTx = false
	db.logger.Debug().Msg("transaction rolled back")
	return nil
}

// Close releases the engine connection. An uncommitted transaction is
// rolled back best-effort first. Closing an already-closed handle is a
// no-op; results produced earlier stay readable.
func (db *DB) Close() error {
	if !db.open {
		return nil
	}
	if db.inTx {
		if _, err := db.Execute("ROLLBACK"); err != nil {
			db.logger.Warn().Err(err).Msg("rollback on close failed")
		}
		db.inTx = false
	}
	db.open = false
	if err := db.conn.Close(); err != nil {
		db.logger.Warn().Err(err).Msg("closing connection failed")
	}
	db.logger.Debug().Msg("database closed")
	return nil
}

func (db *DB) finalize(stmt *engine.Stmt) {
	if err := stmt.Finalize(); err != nil {
		// The statement is being discarded either way; never let a
		// finalize diagnostic mask the execution error.
		db.logger.Warn().Err(err).Msg("finalize failed")
	}
}

func columnValue(stmt *engine.Stmt, i int) Value {
	switch stmt.ColumnType(i) {
	case engine.TypeInteger:
		return Int(stmt.ColumnInt64(i))
	case engine.TypeFloat:
		return Float(stmt.ColumnFloat64(i))
	case engine.TypeText:
		return Text(stmt.ColumnText(i))
	case engine.TypeBlob:
		return Blob(stmt.ColumnBlob(i))
	}
	return Null()
}
