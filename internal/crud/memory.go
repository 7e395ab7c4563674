package crud

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bizlink/bizlink-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used by unit tests and local runs
// without Mongo. Documents are kept as BSON so filters and updates behave like
// their Mongo counterparts.
type MemoryRepo[T models.Entity] struct {
	mu     sync.RWMutex
	store  map[primitive.ObjectID][]byte
	unique []string
	now    func() time.Time
}

func NewMemoryRepo[T models.Entity](unique ...string) *MemoryRepo[T] {
	return &MemoryRepo[T]{
		store:  make(map[primitive.ObjectID][]byte),
		unique: unique,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryRepo[T]) Create(ctx context.Context, doc T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.Stamp(m.now())
	b, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	if err := m.checkUnique(doc.GetID(), b); err != nil {
		return err
	}
	m.store[doc.GetID()] = b
	return nil
}

func (m *MemoryRepo[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out T
	b, ok := m.store[id]
	if !ok {
		return out, ErrNotFound
	}
	err := bson.Unmarshal(b, &out)
	return out, err
}

type memRow struct {
	id  primitive.ObjectID
	doc bson.M
	raw []byte
}

func (m *MemoryRepo[T]) matching(f Filter) ([]memRow, error) {
	rows := make([]memRow, 0, len(m.store))
	for id, b := range m.store {
		var doc bson.M
		if err := bson.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		if f.Match(doc) {
			rows = append(rows, memRow{id: id, doc: doc, raw: b})
		}
	}
	return rows, nil
}

func (m *MemoryRepo[T]) Find(ctx context.Context, f Filter, p Page) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, err := m.matching(f)
	if err != nil {
		return nil, err
	}
	field := p.sortField()
	sort.Slice(rows, func(i, j int) bool {
		c := compareValues(rows[i].doc[field], rows[j].doc[field])
		if c == 0 {
			c = bytes.Compare(rows[i].id[:], rows[j].id[:])
		}
		if p.Asc {
			return c < 0
		}
		return c > 0
	})
	if p.Skip > 0 {
		if p.Skip >= int64(len(rows)) {
			rows = nil
		} else {
			rows = rows[p.Skip:]
		}
	}
	if p.Limit > 0 && int64(len(rows)) > p.Limit {
		rows = rows[:p.Limit]
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var v T
		if err := bson.Unmarshal(r.raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *MemoryRepo[T]) Count(ctx context.Context, f Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, err := m.matching(f)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (m *MemoryRepo[T]) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	var doc bson.M
	if err := bson.Unmarshal(b, &doc); err != nil {
		return err
	}
	for k, v := range set {
		doc[k] = v
	}
	doc["updatedAt"] = m.now()
	nb, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	if err := m.checkUnique(id, nb); err != nil {
		return err
	}
	m.store[id] = nb
	return nil
}

func (m *MemoryRepo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo[T]) RewriteFold(ctx context.Context, field, from, to string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, b := range m.store {
		var doc bson.M
		if err := bson.Unmarshal(b, &doc); err != nil {
			return n, err
		}
		s, ok := doc[field].(string)
		if !ok || !strings.EqualFold(s, from) || s == to {
			continue
		}
		doc[field] = to
		doc["updatedAt"] = m.now()
		nb, err := bson.Marshal(doc)
		if err != nil {
			return n, err
		}
		m.store[id] = nb
		n++
	}
	return n, nil
}

// checkUnique emulates unique indexes; caller holds the write lock.
func (m *MemoryRepo[T]) checkUnique(id primitive.ObjectID, b []byte) error {
	if len(m.unique) == 0 {
		return nil
	}
	var doc bson.M
	if err := bson.Unmarshal(b, &doc); err != nil {
		return err
	}
	for otherID, ob := range m.store {
		if otherID == id {
			continue
		}
		var other bson.M
		if err := bson.Unmarshal(ob, &other); err != nil {
			return err
		}
		for _, field := range m.unique {
			if v, ok := doc[field]; ok && v != "" && equalValue(v, other[field]) {
				return ErrDuplicate
			}
		}
	}
	return nil
}

func compareValues(a, b any) int {
	if ta, ok := asTime(a); ok {
		tb, _ := asTime(b)
		return ta.Compare(tb)
	}
	switch va := a.(type) {
	case string:
		vb, _ := b.(string)
		return strings.Compare(va, vb)
	case int32, int64:
		na, _ := normalize(va).(int64)
		nb, _ := normalize(b).(int64)
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
	}
	return 0
}
