// Package hostdb implements the two host objects the evaluator exposes to
// scripts beyond its own value model: a Database connection and a Model
// table descriptor, both backed by database/sql.
package hostdb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Victra-Studio/privvy/internal/runtime"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// backend names the SQL dialect a connection string resolved to; it governs
// placeholder style (`?` vs `%s`) everywhere a Model builds a statement.
type backend string

const (
	backendSQLite   backend = "sqlite"
	backendPostgres backend = "postgres"
)

// DatabaseConnection is the `Database(connStr)` host object: a thin
// *sql.DB wrapper that dispatches `query`/`execute`/`commit`/`rollback`/
// `close` to placeholder-aware SQL, mirroring DatabaseConnection in the
// original implementation.
type DatabaseConnection struct {
	connStr string
	backend backend
	db      *sql.DB
	tx      *sql.Tx
}

// New dispatches connStr's prefix to a backend and opens the connection,
// exactly as the original's DatabaseConnection.__init__ does: sqlite for
// `sqlite://` prefix, a bare `.db` path, or the literal `:memory:`;
// postgres for `postgresql://`/`postgres://`; anything else is a
// construction-time error, not a lazy one.
func New(connStr string) (*DatabaseConnection, error) {
	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		return open(connStr, backendSQLite, "sqlite", strings.TrimPrefix(connStr, "sqlite://"))
	case connStr == ":memory:":
		return open(connStr, backendSQLite, "sqlite", ":memory:")
	case strings.HasSuffix(connStr, ".db"):
		return open(connStr, backendSQLite, "sqlite", connStr)
	case strings.HasPrefix(connStr, "postgresql://"), strings.HasPrefix(connStr, "postgres://"):
		return open(connStr, backendPostgres, "postgres", connStr)
	default:
		return nil, fmt.Errorf("unsupported database type: use 'sqlite://path.db' or 'postgresql://...'")
	}
}

func open(connStr string, b backend, driver, dsn string) (*DatabaseConnection, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", b, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", b, err)
	}
	return &DatabaseConnection{connStr: connStr, backend: b, db: db}, nil
}

// Placeholder returns the positional-parameter placeholder this
// connection's backend uses: "?" for sqlite, "%s" for postgres. Model uses
// this to build backend-appropriate SQL without branching on db type.
func (c *DatabaseConnection) Placeholder() string {
	if c.backend == backendPostgres {
		return "%s"
	}
	return "?"
}

// execer returns c.tx if it is set, else the pooled *sql.DB. No method of
// DatabaseConnection opens a transaction, so c.tx stays nil: every statement
// runs on the *sql.DB and autocommits, and commit/rollback return null
// without effect.
func (c *DatabaseConnection) execer() interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
} {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

func (*DatabaseConnection) Kind() runtime.Kind { return runtime.KindHost }
func (c *DatabaseConnection) String() string {
	return fmt.Sprintf("<database %s>", c.backend)
}

// Member implements runtime.HostObject.
func (c *DatabaseConnection) Member(name string) (runtime.HostCallable, bool) {
	switch name {
	case "query":
		return hostFunc(c.callQuery), true
	case "execute":
		return hostFunc(c.callExecute), true
	case "commit":
		return hostFunc(c.callCommit), true
	case "rollback":
		return hostFunc(c.callRollback), true
	case "close":
		return hostFunc(c.callClose), true
	default:
		return nil, false
	}
}

// hostFunc adapts a plain Go function to runtime.HostCallable.
type hostFunc func(args []runtime.Value) (runtime.Value, error)

func (f hostFunc) Call(args []runtime.Value) (runtime.Value, error) { return f(args) }

func (c *DatabaseConnection) callQuery(args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("query() requires at least 1 argument (SQL query)")
	}
	sqlText, ok := args[0].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("query() SQL argument must be a string")
	}
	params, err := toSQLArgs(args[1:])
	if err != nil {
		return nil, err
	}

	rows, err := c.execer().Query(string(sqlText), params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return rowsToArray(rows)
}

func (c *DatabaseConnection) callExecute(args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("execute() requires at least 1 argument (SQL statement)")
	}
	sqlText, ok := args[0].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("execute() SQL argument must be a string")
	}
	params, err := toSQLArgs(args[1:])
	if err != nil {
		return nil, err
	}

	result, err := c.execer().Exec(string(sqlText), params...)
	if err != nil {
		return nil, fmt.Errorf("execute failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("execute failed: %w", err)
	}
	return runtime.Int(affected), nil
}

func (c *DatabaseConnection) callCommit([]runtime.Value) (runtime.Value, error) {
	if c.tx == nil {
		return runtime.Nil, nil
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}
	return runtime.Nil, nil
}

func (c *DatabaseConnection) callRollback([]runtime.Value) (runtime.Value, error) {
	if c.tx == nil {
		return runtime.Nil, nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil {
		return nil, fmt.Errorf("rollback failed: %w", err)
	}
	return runtime.Nil, nil
}

func (c *DatabaseConnection) callClose([]runtime.Value) (runtime.Value, error) {
	if err := c.db.Close(); err != nil {
		return nil, fmt.Errorf("close failed: %w", err)
	}
	return runtime.Nil, nil
}

// toSQLArgs converts Privvy values into driver-ready SQL parameters.
func toSQLArgs(values []runtime.Value) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		conv, err := toSQLValue(v)
		if err != nil {
			return nil, err
		}
		out[i] = conv
	}
	return out, nil
}

func toSQLValue(v runtime.Value) (any, error) {
	switch val := v.(type) {
	case runtime.Null:
		return nil, nil
	case runtime.Bool:
		return bool(val), nil
	case runtime.Int:
		return int64(val), nil
	case runtime.Float:
		return float64(val), nil
	case runtime.String:
		return string(val), nil
	default:
		return nil, fmt.Errorf("cannot bind %s as a SQL parameter", v.Kind())
	}
}

// sqlValueToRuntime converts a value scanned out of the database back into
// a Privvy value.
func sqlValueToRuntime(v any) runtime.Value {
	switch val := v.(type) {
	case nil:
		return runtime.Nil
	case bool:
		return runtime.Bool(val)
	case int64:
		return runtime.Int(val)
	case float64:
		return runtime.Float(val)
	case []byte:
		return runtime.String(string(val))
	case string:
		return runtime.String(val)
	default:
		return runtime.String(fmt.Sprintf("%v", val))
	}
}

// rowsToArray fetches every row of rows and converts each into a Map keyed
// by column name, mirroring `[dict(row) for row in rows]` in the original.
func rowsToArray(rows *sql.Rows) (runtime.Value, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	elements := []runtime.Value{}
	for rows.Next() {
		scanned := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range scanned {
			ptrs[i] = &scanned[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
		elements = append(elements, rowToMap(columns, scanned))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return runtime.NewArray(elements), nil
}

func rowToMap(columns []string, scanned []any) *runtime.Map {
	m := runtime.NewMap()
	for i, col := range columns {
		key := runtime.String(col)
		canonical, _ := runtime.MapKey(key)
		m.Set(canonical, key, sqlValueToRuntime(scanned[i]))
	}
	return m
}

// rowToMapOrNull fetches exactly one row (as Find does) and returns Null
// when there is none, mirroring `dict(row) if row else None`.
func rowToMapOrNull(rows *sql.Rows) (runtime.Value, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if !rows.Next() {
		return runtime.Nil, nil
	}
	scanned := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range scanned {
		ptrs[i] = &scanned[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rowToMap(columns, scanned), nil
}
