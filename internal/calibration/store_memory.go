package calibration

import (
	"context"
	"sort"
	"sync"

	"github.com/synergy-credit/scorenorm/internal/normalize"
)

type memoryStore struct {
	mu   sync.RWMutex
	recs map[Selection]Record
}

// NewInMemoryStore keeps anchor sets in process memory.
func NewInMemoryStore() Store {
	return &memoryStore{recs: map[Selection]Record{}}
}

func (m *memoryStore) Get(_ context.Context, sel Selection) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[sel]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *memoryStore) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.Selection()] = cloneRecord(rec)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sel Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[sel]; !ok {
		return ErrNotFound
	}
	delete(m.recs, sel)
	return nil
}

func (m *memoryStore) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.recs))
	for _, rec := range m.recs {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Selection().Key() < out[j].Selection().Key() })
	return out, nil
}

func cloneRecord(rec Record) Record {
	rec.Anchors = append([]normalize.Anchor(nil), rec.Anchors...)
	return rec
}
