package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sbilibin2017/expense-tracker/internal/logger"
)

// Error variables
var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record conflicts with an existing one")
	ErrUnknownIdentifier = errors.New("unknown table or column")
	ErrInvalidReference  = errors.New("referenced record does not exist")
	ErrInvalidValue      = errors.New("value does not fit its column")
)

// Table names known to the store.
const (
	TableUsers    = "users"
	TableExpenses = "expenses"
)

// Schema is the allow-list of tables and columns the store may address.
// Identifiers are interpolated into SQL text, so nothing outside this list
// is ever accepted.
var Schema = map[string][]string{
	TableUsers:    {"id", "username", "password_hash", "email", "created_at", "last_login"},
	TableExpenses: {"id", "user_id", "date", "time", "item_name", "amount", "currency", "created_at"},
}

// Field is a single column/value pair.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered column/value list. Statement placeholders follow its order.
type Fields []Field

// Names returns the column names in order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// Values returns the bound values in order.
func (f Fields) Values() []any {
	values := make([]any, len(f))
	for i, field := range f {
		values[i] = field.Value
	}
	return values
}

// RecordStore is a generic parameterized CRUD layer over the allow-listed tables.
type RecordStore struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	columns  map[string]map[string]struct{}
}

// NewRecordStore creates a store over db. When txGetter returns a transaction
// for the request context, statements run inside it.
func NewRecordStore(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *RecordStore {
	columns := make(map[string]map[string]struct{}, len(Schema))
	for table, cols := range Schema {
		set := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			set[c] = struct{}{}
		}
		columns[table] = set
	}
	return &RecordStore{db: db, txGetter: txGetter, columns: columns}
}

func (s *RecordStore) executor(ctx context.Context) sqlx.ExtContext {
	if s.txGetter != nil {
		if tx := s.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return s.db
}

func (s *RecordStore) checkIdentifiers(table string, names ...string) error {
	cols, ok := s.columns[table]
	if !ok {
		return fmt.Errorf("%w: table %q", ErrUnknownIdentifier, table)
	}
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return fmt.Errorf("%w: column %q of %q", ErrUnknownIdentifier, n, table)
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func assignments(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + " = ?"
	}
	return strings.Join(parts, ", ")
}

func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

// Insert adds a row to table and returns the persisted row, generated columns included.
func Insert[T any](ctx context.Context, s *RecordStore, table string, fields Fields) (T, error) {
	var row T
	if len(fields) == 0 {
		return row, fmt.Errorf("insert into %s: no fields", table)
	}
	if err := s.checkIdentifiers(table, fields.Names()...); err != nil {
		return row, err
	}

	ex := s.executor(ctx)
	query := ex.Rebind(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(fields.Names(), ", "), placeholders(len(fields)),
	))
	args := fields.Values()

	err := sqlx.GetContext(ctx, ex, &row, query, args...)
	logQuery(query, args, row, err)
	if err != nil {
		if isUniqueViolation(err) {
			return row, fmt.Errorf("insert into %s: %w", table, ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return row, fmt.Errorf("insert into %s: %w", table, ErrInvalidReference)
		}
		if isValueOutOfRange(err) {
			return row, fmt.Errorf("insert into %s: %w", table, ErrInvalidValue)
		}
		return row, fmt.Errorf("insert into %s: %w", table, err)
	}
	return row, nil
}

// Query selects all columns of table, ANDing equality conditions in order,
// newest first by created_at. limit <= 0 means no limit.
func Query[T any](ctx context.Context, s *RecordStore, table string, conditions Fields, limit int) ([]T, error) {
	if err := s.checkIdentifiers(table, conditions.Names()...); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s", table)
	if len(conditions) > 0 {
		preds := make([]string, len(conditions))
		for i, n := range conditions.Names() {
			preds[i] = n + " = ?"
		}
		b.WriteString(" WHERE " + strings.Join(preds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC")
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}

	ex := s.executor(ctx)
	query := ex.Rebind(b.String())
	args := conditions.Values()

	rows := []T{}
	err := sqlx.SelectContext(ctx, ex, &rows, query, args...)
	logQuery(query, args, len(rows), err)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return rows, nil
}

// Update sets fields on the row of table with the given id and returns the updated row.
// ErrNotFound is returned when no row has that id.
func Update[T any](ctx context.Context, s *RecordStore, table string, id int64, fields Fields) (T, error) {
	var row T
	if len(fields) == 0 {
		return row, fmt.Errorf("update %s: no fields", table)
	}
	if err := s.checkIdentifiers(table, fields.Names()...); err != nil {
		return row, err
	}

	ex := s.executor(ctx)
	query := ex.Rebind(fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = ? RETURNING *",
		table, assignments(fields.Names()),
	))
	args := append(fields.Values(), id)

	err := sqlx.GetContext(ctx, ex, &row, query, args...)
	logQuery(query, args, row, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, fmt.Errorf("update %s id=%d: %w", table, id, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return row, fmt.Errorf("update %s id=%d: %w", table, id, ErrConflict)
		}
		if isValueOutOfRange(err) {
			return row, fmt.Errorf("update %s id=%d: %w", table, id, ErrInvalidValue)
		}
		return row, fmt.Errorf("update %s id=%d: %w", table, id, err)
	}
	return row, nil
}

// Delete removes the row of table with the given id. It reports true even
// when no row matched.
func Delete(ctx context.Context, s *RecordStore, table string, id int64) (bool, error) {
	if err := s.checkIdentifiers(table); err != nil {
		return false, err
	}

	ex := s.executor(ctx)
	query := ex.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table))
	args := []any{id}

	res, err := ex.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, args, rowsAffected, err)
	if err != nil {
		return false, fmt.Errorf("delete from %s id=%d: %w", table, id, err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// isValueOutOfRange reports a string too long for its column (22001) or a
// number outside its precision (22003). sqlite enforces neither.
func isValueOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22001" || pgErr.Code == "22003"
	}
	return false
}
