package progression

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store that has no record for the key.
var ErrNotFound = errors.New("progression: save not found")

// Store loads and persists save records.
type Store interface {
	Load(ctx context.Context, key string) (*Save, error)
	Save(ctx context.Context, key string, save *Save) error
}

// MemoryStore keeps records in process. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Save
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]*Save{}}
}

func (m *MemoryStore) Load(ctx context.Context, key string) (*Save, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, key string, save *Save) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if save == nil {
		return errors.New("progression: nil save")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = map[string]*Save{}
	}
	m.records[key] = save.Clone()
	return nil
}
