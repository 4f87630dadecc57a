// The [psr] package is a thin, value-oriented access layer over an
// embedded SQLite engine.
//
// # Opening a database
//
// [Open] takes a filesystem path or the [Memory] sentinel and returns a
// [DB] that owns one engine connection. Use [With] when the handle's
// lifetime fits a function scope; it guarantees the close on every exit
// path.
//
// # Executing statements
//
// [DB.Execute] is the single entry point for SQL: it prepares the
// statement, binds parameters positionally, steps the cursor to
// completion and hands back a fully materialized [Result]. The Result is
// a detached snapshot — it has no reference to the connection and stays
// readable after the database is closed.
//
// # Values
//
// Every cell is a [Value], a closed sum over the engine's five storage
// classes (NULL, INTEGER, REAL, TEXT, BLOB). The engine types cells at
// runtime, so a Value's kind reflects what is stored, not what the
// schema declares. Typed accessors like [Row.GetInt] report absent on a
// kind mismatch instead of failing; probing with the wrong accessor is
// an expected query pattern.
//
// # Transactions
//
// [DB.Begin], [DB.Commit] and [DB.Rollback] drive one flat transaction;
// misuse (a second Begin, a Commit without a transaction) is a
// [StateError]. Savepoints are not modeled.
//
// # Exporting results
//
// The [github.com/raphasampaio/psr-database/pkg/export] package renders
// a Result as JSON Lines, CSV or CBOR.
package psr
