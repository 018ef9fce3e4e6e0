package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/goliatone/go-mapfield/components/mapfield"
	"github.com/goliatone/go-mapfield/pkg/record"
	"github.com/goliatone/go-mapfield/pkg/record/pgrecord"
)

// ErrNotFound is returned by a Store when no record has the requested id.
var ErrNotFound = errors.New("server: record not found")

// EditableRecord is a host record that can persist the values written to it.
type EditableRecord interface {
	mapfield.Record
	Save(ctx context.Context) error
}

// Store loads records for editing.
type Store interface {
	Find(ctx context.Context, id string) (EditableRecord, error)
}

// MemoryStore keeps records in process. Find hands out copies so concurrent
// edits only become visible on Save.
type MemoryStore struct {
	mu       sync.RWMutex
	typeName string
	kinds    map[string]record.Kind
	records  map[string]map[string]any
}

func NewMemoryStore(typeName string, kinds map[string]record.Kind) *MemoryStore {
	return &MemoryStore{
		typeName: typeName,
		kinds:    kinds,
		records:  make(map[string]map[string]any),
	}
}

// Put stores values under id, replacing any existing record.
func (s *MemoryStore) Put(id string, values map[string]any) {
	copied := make(map[string]any, len(values))
	for name, value := range values {
		copied[name] = value
	}
	s.mu.Lock()
	s.records[id] = copied
	s.mu.Unlock()
}

// Values returns a copy of the stored values of id.
func (s *MemoryStore) Values(id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.records[id]
	if !ok {
		return nil, false
	}
	copied := make(map[string]any, len(values))
	for name, value := range values {
		copied[name] = value
	}
	return copied, true
}

func (s *MemoryStore) Find(_ context.Context, id string) (EditableRecord, error) {
	values, ok := s.Values(id)
	if !ok {
		return nil, ErrNotFound
	}
	rec := record.NewMapRecord(s.typeName, record.WithKinds(s.kinds), record.WithValues(values))
	return &memoryRecord{MapRecord: rec, store: s, id: id}, nil
}

type memoryRecord struct {
	*record.MapRecord
	store *MemoryStore
	id    string
}

func (r *memoryRecord) Save(context.Context) error {
	r.store.Put(r.id, r.Attributes())
	return nil
}

// PostgresStore loads rows of one table through pgrecord.
type PostgresStore struct {
	db    pgrecord.DB
	table pgrecord.Table
}

func NewPostgresStore(db pgrecord.DB, table pgrecord.Table) *PostgresStore {
	return &PostgresStore{db: db, table: table}
}

func (s *PostgresStore) Find(ctx context.Context, id string) (EditableRecord, error) {
	var key any = id
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		key = n
	}
	rec, err := pgrecord.Load(ctx, s.db, s.table, key)
	if err != nil {
		if errors.Is(err, pgrecord.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("server: load %s %s: %w", s.table.Name, id, err)
	}
	return &postgresRecord{Record: rec, db: s.db}, nil
}

type postgresRecord struct {
	*pgrecord.Record
	db pgrecord.DB
}

func (r *postgresRecord) Save(ctx context.Context) error {
	return r.Record.Save(ctx, r.db)
}
