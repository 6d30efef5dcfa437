package hostdb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Victra-Studio/privvy/internal/runtime"
)

// Model is the `Model(tableName, fieldsMap)` host object: a table
// descriptor with CRUD methods that build and run backend-appropriate SQL
// against a DatabaseConnection passed as each method's first argument,
// mirroring ModelDefinition in the original implementation.
type Model struct {
	table  string
	fields []fieldDef
}

type fieldDef struct {
	name string
	def  string
}

// NewModel builds a Model descriptor. Column order is sorted by name for
// determinism: Go maps (unlike the original's Python dict) do not preserve
// insertion order, and CREATE TABLE's column order is otherwise observable.
func NewModel(table string, fields map[string]string) (*Model, error) {
	if table == "" {
		return nil, fmt.Errorf("Model() table name must not be empty")
	}
	defs := make([]fieldDef, 0, len(fields))
	for name, def := range fields {
		defs = append(defs, fieldDef{name: name, def: def})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].name < defs[j].name })
	return &Model{table: table, fields: defs}, nil
}

func (*Model) Kind() runtime.Kind { return runtime.KindHost }
func (m *Model) String() string   { return fmt.Sprintf("<model %s>", m.table) }

// Member implements runtime.HostObject.
func (m *Model) Member(name string) (runtime.HostCallable, bool) {
	switch name {
	case "migrate":
		return hostFunc(m.migrate), true
	case "create":
		return hostFunc(m.create), true
	case "find":
		return hostFunc(m.find), true
	case "findBy":
		return hostFunc(m.findBy), true
	case "all":
		return hostFunc(m.all), true
	case "where":
		return hostFunc(m.where), true
	case "update":
		return hostFunc(m.update), true
	case "delete":
		return hostFunc(m.delete), true
	case "count":
		return hostFunc(m.count), true
	case "drop":
		return hostFunc(m.drop), true
	default:
		return nil, false
	}
}

func asDB(v runtime.Value) (*DatabaseConnection, error) {
	db, ok := v.(*DatabaseConnection)
	if !ok {
		return nil, fmt.Errorf("argument must be a Database connection")
	}
	return db, nil
}

func asMap(v runtime.Value) (*runtime.Map, error) {
	m, ok := v.(*runtime.Map)
	if !ok {
		return nil, fmt.Errorf("argument must be a map")
	}
	return m, nil
}

// mapColumns extracts column name/value pairs from a data map, in a stable
// (sorted by column name) order so the built statement's placeholders line
// up with its values deterministically.
func mapColumns(m *runtime.Map) ([]string, []runtime.Value, error) {
	type pair struct {
		name string
		val  runtime.Value
	}
	pairs := make([]pair, 0, m.Len())
	for _, keyLiteral := range m.DisplayKeys() {
		name, ok := keyLiteral.(runtime.String)
		if !ok {
			return nil, nil, fmt.Errorf("map keys must be strings")
		}
		canonical, _ := runtime.MapKey(keyLiteral)
		v, _ := m.Get(canonical)
		pairs = append(pairs, pair{name: string(name), val: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	columns := make([]string, len(pairs))
	values := make([]runtime.Value, len(pairs))
	for i, p := range pairs {
		columns[i] = p.name
		values[i] = p.val
	}
	return columns, values, nil
}

func (m *Model) migrate(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("migrate() requires 1 argument (database connection)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}

	defs := make([]string, len(m.fields))
	for i, f := range m.fields {
		defs[i] = fmt.Sprintf("%s %s", f.name, f.def)
	}
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", m.table, strings.Join(defs, ", "))

	if _, err := db.execer().Exec(sql); err != nil {
		return nil, fmt.Errorf("migrate failed: %w", err)
	}
	return runtime.Nil, nil
}

func (m *Model) create(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("create() requires 2 arguments (database, data)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	data, err := asMap(args[1])
	if err != nil {
		return nil, fmt.Errorf("second argument to create() must be a map")
	}

	columns, values, err := mapColumns(data)
	if err != nil {
		return nil, err
	}
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = db.Placeholder()
	}
	params, err := toSQLArgs(values)
	if err != nil {
		return nil, err
	}

	sqlText := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", m.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	result, err := db.execer().Exec(sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("create failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return runtime.Nil, nil
	}
	return runtime.Int(id), nil
}

func (m *Model) find(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("find() requires 2 arguments (database, id)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	sqlText := fmt.Sprintf("SELECT * FROM %s WHERE id = %s", m.table, db.Placeholder())
	param, err := toSQLValue(args[1])
	if err != nil {
		return nil, err
	}
	rows, err := db.execer().Query(sqlText, param)
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}
	defer rows.Close()
	return rowToMapOrNull(rows)
}

func (m *Model) findBy(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("findBy() requires 3 arguments (database, field, value)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	field, ok := args[1].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("findBy() field name must be a string")
	}
	param, err := toSQLValue(args[2])
	if err != nil {
		return nil, err
	}

	sqlText := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", m.table, string(field), db.Placeholder())
	rows, err := db.execer().Query(sqlText, param)
	if err != nil {
		return nil, fmt.Errorf("findBy failed: %w", err)
	}
	defer rows.Close()
	return rowsToArray(rows)
}

func (m *Model) all(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("all() requires 1 argument (database)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	rows, err := db.execer().Query(fmt.Sprintf("SELECT * FROM %s", m.table))
	if err != nil {
		return nil, fmt.Errorf("all failed: %w", err)
	}
	defer rows.Close()
	return rowsToArray(rows)
}

func (m *Model) where(args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("where() requires at least 2 arguments (database, sql_condition, ...params)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	condition, ok := args[1].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("where() condition must be a string")
	}
	params, err := toSQLArgs(args[2:])
	if err != nil {
		return nil, err
	}

	sqlText := fmt.Sprintf("SELECT * FROM %s WHERE %s", m.table, string(condition))
	rows, err := db.execer().Query(sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("where failed: %w", err)
	}
	defer rows.Close()
	return rowsToArray(rows)
}

func (m *Model) update(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("update() requires 3 arguments (database, id, data)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	data, err := asMap(args[2])
	if err != nil {
		return nil, fmt.Errorf("third argument to update() must be a map")
	}

	columns, values, err := mapColumns(data)
	if err != nil {
		return nil, err
	}
	setClauses := make([]string, len(columns))
	for i, col := range columns {
		setClauses[i] = fmt.Sprintf("%s = %s", col, db.Placeholder())
	}
	params, err := toSQLArgs(values)
	if err != nil {
		return nil, err
	}
	idParam, err := toSQLValue(args[1])
	if err != nil {
		return nil, err
	}
	params = append(params, idParam)

	sqlText := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", m.table, strings.Join(setClauses, ", "), db.Placeholder())
	result, err := db.execer().Exec(sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return runtime.Int(affected), nil
}

func (m *Model) delete(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("delete() requires 2 arguments (database, id)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	idParam, err := toSQLValue(args[1])
	if err != nil {
		return nil, err
	}

	sqlText := fmt.Sprintf("DELETE FROM %s WHERE id = %s", m.table, db.Placeholder())
	result, err := db.execer().Exec(sqlText, idParam)
	if err != nil {
		return nil, fmt.Errorf("delete failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete failed: %w", err)
	}
	return runtime.Int(affected), nil
}

func (m *Model) count(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("count() requires 1 argument (database)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	row := db.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", m.table))
	var n int64
	if err := row.Scan(&n); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}
	return runtime.Int(n), nil
}

func (m *Model) drop(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("drop() requires 1 argument (database)")
	}
	db, err := asDB(args[0])
	if err != nil {
		return nil, err
	}
	if _, err := db.execer().Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", m.table)); err != nil {
		return nil, fmt.Errorf("drop failed: %w", err)
	}
	return runtime.Nil, nil
}
