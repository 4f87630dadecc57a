package psr_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	psr "github.com/raphasampaio/psr-database"
)

func openMemory(t *testing.T) *psr.DB {
	t.Helper()
	db, err := psr.Open(psr.Memory, psr.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return db
}

func setupUsers(t *testing.T) *psr.DB {
	t.Helper()
	db := openMemory(t)
	_, err := db.Execute("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)")
	require.NoError(t, err)
	return db
}

func TestOpen(t *testing.T) {
	t.Run("in-memory", func(t *testing.T) {
		db, err := psr.Open(psr.Memory, psr.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		assert.True(t, db.IsOpen())
		assert.Equal(t, psr.Memory, db.Path())
		require.NoError(t, db.Close())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		db, err := psr.Open(path, psr.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		assert.True(t, db.IsOpen())
		assert.Equal(t, path, db.Path())
		require.NoError(t, db.Close())
		assert.FileExists(t, path)
	})

	t.Run("invalid path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no", "such", "dir", "test.db")
		_, err := psr.Open(path, psr.WithLogger(zerolog.Nop()))
		require.Error(t, err)

		var connErr *psr.ConnectionError
		require.True(t, errors.As(err, &connErr))
		assert.Equal(t, path, connErr.Path)
		assert.NotEmpty(t, connErr.Msg)
	})
}

func TestClose(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		db := openMemory(t)
		require.NoError(t, db.Close())
		assert.False(t, db.IsOpen())
		require.NoError(t, db.Close())
	})

	t.Run("everything else fails after close", func(t *testing.T) {
		db := setupUsers(t)
		require.NoError(t, db.Close())

		var closed *psr.UseAfterCloseError

		_, err := db.Execute("SELECT 1")
		require.True(t, errors.As(err, &closed))

		require.True(t, errors.As(db.Begin(), &closed))
		require.True(t, errors.As(db.Commit(), &closed))
		require.True(t, errors.As(db.Rollback(), &closed))

		_, err = db.CreateElement("users", psr.Field{Name: "name", Value: "Alice"})
		require.True(t, errors.As(err, &closed))

		_, err = db.ElementID("users", "Alice")
		require.True(t, errors.As(err, &closed))

		assert.EqualValues(t, 0, db.LastInsertRowID())
		assert.EqualValues(t, 0, db.Changes())
	})
}

func TestExecute(t *testing.T) {
	t.Run("insert updates rowid and changes", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		_, err := db.Execute("INSERT INTO users (name) VALUES ('Alice')")
		require.NoError(t, err)
		assert.EqualValues(t, 1, db.LastInsertRowID())
		assert.EqualValues(t, 1, db.Changes())
	})

	t.Run("parameterized select", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		_, err := db.Execute("INSERT INTO users (name, age) VALUES (?, ?)", "Alice", 30)
		require.NoError(t, err)
		_, err = db.Execute("INSERT INTO users (name, age) VALUES (?, ?)", "Bob", 25)
		require.NoError(t, err)

		res, err := db.Execute("SELECT * FROM users WHERE age > ?", 26)
		require.NoError(t, err)
		require.Equal(t, 1, res.RowCount())

		name, ok := res.Row(0).GetString(1)
		require.True(t, ok)
		assert.Equal(t, "Alice", name)
	})

	t.Run("select from empty table", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		res, err := db.Execute("SELECT * FROM users")
		require.NoError(t, err)
		assert.Equal(t, 0, res.RowCount())
		assert.True(t, res.Empty())
		assert.Equal(t, 3, res.ColumnCount())
	})

	t.Run("invalid sql", func(t *testing.T) {
		db := openMemory(t)
		defer db.Close()

		_, err := db.Execute("INVALID SQL STATEMENT")
		require.Error(t, err)

		var queryErr *psr.QueryError
		require.True(t, errors.As(err, &queryErr))
		assert.NotEmpty(t, queryErr.Msg)
	})

	t.Run("constraint violation", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		_, err := db.Execute("INSERT INTO users (id, name) VALUES (1, 'Alice')")
		require.NoError(t, err)
		_, err = db.Execute("INSERT INTO users (id, name) VALUES (1, 'Bob')")

		var queryErr *psr.QueryError
		require.True(t, errors.As(err, &queryErr))
	})

	t.Run("parameter count mismatch", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		var bindErr *psr.BindError

		_, err := db.Execute("INSERT INTO users (name, age) VALUES (?, ?)", "Alice")
		require.True(t, errors.As(err, &bindErr))

		_, err = db.Execute("INSERT INTO users (name) VALUES (?)", "Alice", 30)
		require.True(t, errors.As(err, &bindErr))
	})

	t.Run("unrepresentable parameter type", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		_, err := db.Execute("INSERT INTO users (name) VALUES (?)", struct{ X int }{1})
		require.Error(t, err)

		var bindErr *psr.BindError
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, 1, bindErr.Index)
	})

	t.Run("error message reflects last failure", func(t *testing.T) {
		db := openMemory(t)
		defer db.Close()

		_, err := db.Execute("SELECT * FROM missing")
		require.Error(t, err)
		assert.NotEmpty(t, db.ErrorMessage())
	})
}

func TestTransactions(t *testing.T) {
	t.Run("commit persists", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		require.NoError(t, db.Begin())
		assert.True(t, db.InTransaction())
		_, err := db.Execute("INSERT INTO users (name) VALUES ('Alice')")
		require.NoError(t, err)
		require.NoError(t, db.Commit())
		assert.False(t, db.InTransaction())

		res, err := db.Execute("SELECT COUNT(*) FROM users")
		require.NoError(t, err)
		count, _ := res.Row(0).GetInt(0)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rollback restores", func(t *testing.T) {
		db := setupUsers(t)
		defer db.Close()

		require.NoError(t, db.Begin())
		_, err := db.Execute("INSERT INTO users (name) VALUES ('Alice')")
		require.NoError(t, err)
		require.NoError(t, db.Rollback())

		res, err := db.Execute("SELECT COUNT(*) FROM users")
		require.NoError(t, err)
		count, _ := res.Row(0).GetInt(0)
		assert.EqualValues(t, 0, count)
	})

	t.Run("double begin", func(t *testing.T) {
		db := openMemory(t)
		defer db.Close()

		require.NoError(t, db.Begin())
		err := db.Begin()

		var stateErr *psr.StateError
		require.True(t, errors.As(err, &stateErr))
		assert.Equal(t, "begin", stateErr.Op)
	})

	t.Run("commit without begin", func(t *testing.T) {
		db := openMemory(t)
		defer db.Close()

		var stateErr *psr.StateError
		require.True(t, errors.As(db.Commit(), &stateErr))
		require.True(t, errors.As(db.Rollback(), &stateErr))
	})

	t.Run("close mid-transaction rolls back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tx.db")

		db, err := psr.Open(path, psr.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		_, err = db.Execute("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")
		require.NoError(t, err)
		require.NoError(t, db.Begin())
		_, err = db.Execute("INSERT INTO users (name) VALUES ('Alice')")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db, err = psr.Open(path, psr.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		defer db.Close()

		res, err := db.Execute("SELECT COUNT(*) FROM users")
		require.NoError(t, err)
		count, _ := res.Row(0).GetInt(0)
		assert.EqualValues(t, 0, count)
	})
}

func TestWith(t *testing.T) {
	t.Run("closes on normal return", func(t *testing.T) {
		var handle *psr.DB
		err := psr.With(psr.Memory, func(db *psr.DB) error {
			handle = db
			_, err := db.Execute("CREATE TABLE t (v)")
			return err
		}, psr.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		assert.False(t, handle.IsOpen())
	})

	t.Run("closes on error return", func(t *testing.T) {
		var handle *psr.DB
		err := psr.With(psr.Memory, func(db *psr.DB) error {
			handle = db
			_, err := db.Execute("INVALID")
			return err
		}, psr.WithLogger(zerolog.Nop()))
		require.Error(t, err)
		assert.False(t, handle.IsOpen())
	})

	t.Run("early close inside the scope is fine", func(t *testing.T) {
		err := psr.With(psr.Memory, func(db *psr.DB) error {
			return db.Close()
		}, psr.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
	})

	t.Run("open failure propagates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no", "such", "dir", "test.db")
		err := psr.With(path, func(db *psr.DB) error {
			t.Fatal("scope must not run when open fails")
			return nil
		}, psr.WithLogger(zerolog.Nop()))

		var connErr *psr.ConnectionError
		require.True(t, errors.As(err, &connErr))
	})
}

func TestResultOutlivesDatabase(t *testing.T) {
	db := setupUsers(t)
	_, err := db.Execute("INSERT INTO users (name, age) VALUES ('Alice', 30)")
	require.NoError(t, err)

	res, err := db.Execute("SELECT name, age FROM users")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	require.Equal(t, 1, res.RowCount())
	name, ok := res.Row(0).GetString(0)
	require.True(t, ok)
	assert.Equal(t, "Alice", name)
	age, ok := res.Row(0).GetInt(1)
	require.True(t, ok)
	assert.EqualValues(t, 30, age)
}
