package store

import (
	"context"
	"sync"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
)

type memTable struct {
	order []string
	rows  map[string]models.Record
}

type memTables map[string]*memTable

func (t memTables) table(kind *schema.Kind) *memTable {
	tbl, ok := t[kind.Name]
	if !ok {
		tbl = &memTable{rows: map[string]models.Record{}}
		t[kind.Name] = tbl
	}
	return tbl
}

func (t memTables) clone() memTables {
	out := make(memTables, len(t))
	for name, tbl := range t {
		c := &memTable{
			order: append([]string(nil), tbl.order...),
			rows:  make(map[string]models.Record, len(tbl.rows)),
		}
		for k, r := range tbl.rows {
			c.rows[k] = r.Clone()
		}
		out[name] = c
	}
	return out
}

func (t memTables) list(kind *schema.Kind) []models.Record {
	tbl := t.table(kind)
	out := make([]models.Record, 0, len(tbl.order))
	for _, k := range tbl.order {
		out = append(out, tbl.rows[k].Clone())
	}
	return out
}

func (t memTables) get(kind *schema.Kind, key string) (models.Record, error) {
	r, ok := t.table(kind).rows[key]
	if !ok {
		return nil, &models.NotFoundError{Kind: kind.Name, Key: key}
	}
	return r.Clone(), nil
}

func (t memTables) keys(kind *schema.Kind) []string {
	return append([]string(nil), t.table(kind).order...)
}

func (t memTables) add(kind *schema.Kind, rec models.Record) error {
	key, err := requireKey(kind, rec)
	if err != nil {
		return err
	}
	tbl := t.table(kind)
	if _, exists := tbl.rows[key]; exists {
		return &models.DuplicateKeyError{Kind: kind.Name, Key: key}
	}
	tbl.rows[key] = rec.Clone()
	tbl.order = append(tbl.order, key)
	return nil
}

func (t memTables) update(kind *schema.Kind, key string, fields models.Record) (models.Record, error) {
	tbl := t.table(kind)
	cur, ok := tbl.rows[key]
	if !ok {
		return nil, &models.NotFoundError{Kind: kind.Name, Key: key}
	}
	next := mergeFields(cur, fields)
	tbl.rows[key] = next
	return next.Clone(), nil
}

func (t memTables) remove(kind *schema.Kind, key string) error {
	tbl := t.table(kind)
	if _, ok := tbl.rows[key]; !ok {
		return &models.NotFoundError{Kind: kind.Name, Key: key}
	}
	delete(tbl.rows, key)
	for i, k := range tbl.order {
		if k == key {
			tbl.order = append(tbl.order[:i], tbl.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryStore keeps every table in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	tables memTables
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: memTables{}}
}

func (s *MemoryStore) List(_ context.Context, kind *schema.Kind) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.list(kind), nil
}

func (s *MemoryStore) Get(_ context.Context, kind *schema.Kind, key string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.get(kind, key)
}

func (s *MemoryStore) Keys(_ context.Context, kind *schema.Kind) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.keys(kind), nil
}

func (s *MemoryStore) Add(_ context.Context, kind *schema.Kind, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.add(kind, rec)
}

func (s *MemoryStore) Update(_ context.Context, kind *schema.Kind, key string, fields models.Record) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.update(kind, key, fields)
}

func (s *MemoryStore) Delete(_ context.Context, kind *schema.Kind, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.remove(kind, key)
}

// Atomic runs fn on a private copy of the tables and swaps it in on success.
// The store stays locked for the whole call.
func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{tables: s.tables.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tables = tx.tables
	return nil
}

// memoryTx is the view handed to Atomic callbacks. The owning store's lock
// is already held.
type memoryTx struct {
	tables memTables
}

func (t *memoryTx) List(_ context.Context, kind *schema.Kind) ([]models.Record, error) {
	return t.tables.list(kind), nil
}

func (t *memoryTx) Get(_ context.Context, kind *schema.Kind, key string) (models.Record, error) {
	return t.tables.get(kind, key)
}

func (t *memoryTx) Keys(_ context.Context, kind *schema.Kind) ([]string, error) {
	return t.tables.keys(kind), nil
}

func (t *memoryTx) Add(_ context.Context, kind *schema.Kind, rec models.Record) error {
	return t.tables.add(kind, rec)
}

func (t *memoryTx) Update(_ context.Context, kind *schema.Kind, key string, fields models.Record) (models.Record, error) {
	return t.tables.update(kind, key, fields)
}

func (t *memoryTx) Delete(_ context.Context, kind *schema.Kind, key string) error {
	return t.tables.remove(kind, key)
}

func (t *memoryTx) Atomic(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}
