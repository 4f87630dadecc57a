package psr

import (
	"fmt"
	"strings"
)

// Field is one named column value for CreateElement. Fields keep their
// caller-supplied order in the generated INSERT.
type Field struct {
	Name  string
	Value any
}

// CreateElement inserts one row into table from the given scalar fields
// and returns the new row identifier. Each value is checked against the
// column's declared type (an integer is accepted where REAL is declared,
// nothing else crosses). A string supplied for a foreign-key column is
// treated as the label of the referenced element and resolved to its id
// before the insert.
func (db *DB) CreateElement(table string, fields ...Field) (int64, error) {
	if !db.open {
		return 0, &UseAfterCloseError{Op: "create element"}
	}
	if table == "" {
		return 0, &QueryError{Msg: "table name cannot be empty"}
	}
	if len(fields) == 0 {
		return 0, &QueryError{Msg: "at least one field is required"}
	}

	info, err := db.tableInfo(table)
	if err != nil {
		return 0, err
	}
	fks, err := db.foreignKeys(table)
	if err != nil {
		return 0, err
	}

	names := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		v, err := toValue(f.Value)
		if err != nil {
			return 0, &BindError{Msg: fmt.Sprintf("field %q: %v", f.Name, err)}
		}
		if fk, ok := fks[f.Name]; ok {
			if label, isText := v.Text(); isText {
				id, err := db.ElementID(fk.targetTable, label)
				if err != nil {
					return 0, err
				}
				v = Int(id)
			}
		} else if err := validateDeclaredType(info, f.Name, v); err != nil {
			return 0, err
		}
		names = append(names, quoteIdent(f.Name))
		args = append(args, v)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), placeholders(len(args)))
	db.logger.Debug().Str("sql", sql).Msg("create element")

	if _, err := db.Execute(sql, args...); err != nil {
		return 0, err
	}
	return db.LastInsertRowID(), nil
}

// ElementID returns the id of the row in collection whose label column
// matches label.
func (db *DB) ElementID(collection, label string) (int64, error) {
	if !db.open {
		return 0, &UseAfterCloseError{Op: "element id"}
	}
	res, err := db.Execute(
		fmt.Sprintf("SELECT id FROM %s WHERE label = ?", quoteIdent(collection)), label)
	if err != nil {
		return 0, err
	}
	if res.Empty() {
		return 0, &QueryError{Msg: fmt.Sprintf("element %q not found in %s", label, collection)}
	}
	id, ok := res.Row(0).GetInt(0)
	if !ok {
		return 0, &QueryError{Msg: fmt.Sprintf("element %q has no integer id", label)}
	}
	return id, nil
}

type foreignKey struct {
	targetTable  string
	targetColumn string
}

// foreignKeys maps the table's foreign-key columns to their targets,
// read from the engine's foreign_key_list pragma.
func (db *DB) foreignKeys(table string) (map[string]foreignKey, error) {
	res, err := db.Execute(fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	fks := make(map[string]foreignKey)
	for _, row := range res.Rows() {
		target, _ := row.GetString(2)
		from, _ := row.GetString(3)
		to, _ := row.GetString(4)
		if from != "" {
			fks[from] = foreignKey{targetTable: target, targetColumn: to}
		}
	}
	return fks, nil
}

// tableInfo maps column names to their declared types, upper-cased, read
// from the engine's table_info pragma.
func (db *DB) tableInfo(table string) (map[string]string, error) {
	res, err := db.Execute(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	info := make(map[string]string, res.RowCount())
	for _, row := range res.Rows() {
		name, _ := row.GetString(1)
		decl, _ := row.GetString(2)
		if name != "" {
			info[name] = strings.ToUpper(decl)
		}
	}
	return info, nil
}

// validateDeclaredType rejects a scalar whose kind contradicts the
// column's declared type. Unknown columns and NULL values pass through;
// the engine has the final say.
func validateDeclaredType(info map[string]string, column string, v Value) error {
	decl, found := info[column]
	if !found || decl == "" || v.IsNull() {
		return nil
	}

	actual := v.Kind().String()
	ok := true
	switch decl {
	case "TEXT":
		ok = v.Kind() == KindText
	case "INTEGER":
		ok = v.Kind() == KindInteger
	case "REAL":
		ok = v.Kind() == KindFloat || v.Kind() == KindInteger
	case "BLOB":
		ok = v.Kind() == KindBlob
	}
	if !ok {
		return &BindError{Msg: fmt.Sprintf("column %q expects %s, got %s", column, decl, actual)}
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
