// Package pgrecord implements a mapfield host record over a single PostgreSQL
// row using pgx. Columns are read as text and cast with the record package
// rules; Save writes changed columns back in one UPDATE.
package pgrecord

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/goliatone/go-mapfield/pkg/record"
)

// ErrNotFound is returned by Load when no row matches the key.
var ErrNotFound = errors.New("pgrecord: record not found")

// DB is the subset of pgx used by Record. *pgx.Conn, *pgxpool.Pool and
// pgx.Tx satisfy it.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Table describes the table backing a record type.
type Table struct {
	// Name is the table name; it may be schema qualified ("cms.places").
	Name string
	// TypeName is reported by Record.TypeName. Defaults to Name.
	TypeName string
	// Key is the primary key column. Defaults to "ID".
	Key string
	// Columns lists the loaded attributes and their kinds.
	Columns map[string]record.Kind
}

func (t Table) key() string {
	if strings.TrimSpace(t.Key) == "" {
		return "ID"
	}
	return t.Key
}

func (t Table) typeName() string {
	if strings.TrimSpace(t.TypeName) == "" {
		return t.Name
	}
	return t.TypeName
}

func (t Table) columnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for name := range t.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Record is one loaded row.
type Record struct {
	table  Table
	id     any
	values map[string]any
	dirty  map[string]struct{}
}

// Load reads the row identified by id.
func Load(ctx context.Context, db DB, table Table, id any) (*Record, error) {
	if db == nil {
		return nil, errors.New("pgrecord: missing db")
	}
	columns := table.columnNames()
	if len(columns) == 0 {
		return nil, fmt.Errorf("pgrecord: table %q declares no columns", table.Name)
	}

	sql := selectSQL(table, columns)
	raw := make([]*string, len(columns))
	dest := make([]any, len(columns))
	for idx := range raw {
		dest[idx] = &raw[idx]
	}
	if err := db.QueryRow(ctx, sql, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("pgrecord: load %s: %w", table.Name, err)
	}

	rec := &Record{
		table:  table,
		id:     id,
		values: make(map[string]any, len(columns)),
		dirty:  make(map[string]struct{}),
	}
	for idx, column := range columns {
		if raw[idx] == nil {
			rec.values[column] = nil
			continue
		}
		kind := table.Columns[column]
		value, err := record.Cast(kind, *raw[idx])
		if err != nil {
			return nil, &record.CastError{Attribute: column, Kind: kind, Value: *raw[idx], Err: err}
		}
		rec.values[column] = value
	}
	return rec, nil
}

func (r *Record) TypeName() string { return r.table.typeName() }

// ID returns the primary key value.
func (r *Record) ID() any { return r.id }

func (r *Record) Get(name string) (any, bool) {
	value, ok := r.values[name]
	return value, ok
}

// SetCastedField casts value to the column kind and marks it for Save.
// Unknown columns are rejected.
func (r *Record) SetCastedField(name string, value any) error {
	kind, ok := r.table.Columns[name]
	if !ok {
		return fmt.Errorf("pgrecord: unknown column %q on %s", name, r.table.Name)
	}
	casted, err := record.Cast(kind, value)
	if err != nil {
		return &record.CastError{Attribute: name, Kind: kind, Value: value, Err: err}
	}
	r.values[name] = casted
	r.dirty[name] = struct{}{}
	return nil
}

// Dirty returns the changed column names sorted.
func (r *Record) Dirty() []string {
	names := make([]string, 0, len(r.dirty))
	for name := range r.dirty {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the changed columns. It is a no-op when nothing changed.
func (r *Record) Save(ctx context.Context, db DB) error {
	if db == nil {
		return errors.New("pgrecord: missing db")
	}
	columns := r.Dirty()
	if len(columns) == 0 {
		return nil
	}

	sql, args := updateSQL(r.table, columns, r.values, r.id)
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("pgrecord: save %s: %w", r.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.dirty = make(map[string]struct{})
	return nil
}

func selectSQL(table Table, columns []string) string {
	parts := make([]string, len(columns))
	for idx, column := range columns {
		parts[idx] = pgx.Identifier{column}.Sanitize() + "::text"
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(parts, ", "),
		tableIdentifier(table.Name).Sanitize(),
		pgx.Identifier{table.key()}.Sanitize(),
	)
}

func updateSQL(table Table, columns []string, values map[string]any, id any) (string, []any) {
	assignments := make([]string, len(columns))
	args := make([]any, 0, len(columns)+1)
	for idx, column := range columns {
		assignments[idx] = fmt.Sprintf("%s = $%d", pgx.Identifier{column}.Sanitize(), idx+1)
		args = append(args, values[column])
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		tableIdentifier(table.Name).Sanitize(),
		strings.Join(assignments, ", "),
		pgx.Identifier{table.key()}.Sanitize(),
		len(args),
	)
	return sql, args
}

func tableIdentifier(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(strings.TrimSpace(name), "."))
}
