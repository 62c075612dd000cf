package filters

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithValidator rejects saves whose expression fails validation.
func WithValidator(validate Validator) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.validate = validate
	}
}

// MemoryStore is an in-memory Store implementation. It makes no persistence
// assumptions; hosts wanting filters to outlive the process wrap it.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]record
	validate Validator
}

type record struct {
	filter Filter
	meta   Meta
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{records: map[string]record{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) Load(_ context.Context, name string) (Filter, Meta, bool, error) {
	if name == "" {
		return Filter{}, Meta{}, false, fmt.Errorf("filters: name is required")
	}
	s.mu.RLock()
	rec, ok := s.records[name]
	s.mu.RUnlock()
	if !ok {
		return Filter{}, Meta{}, false, nil
	}
	return rec.filter, rec.meta, true, nil
}

func (s *MemoryStore) Save(_ context.Context, filter Filter) (Meta, error) {
	if filter.Name == "" {
		return Meta{}, fmt.Errorf("filters: name is required")
	}
	if filter.Expression == "" {
		return Meta{}, fmt.Errorf("filters: expression is required")
	}
	if s.validate != nil {
		if err := s.validate(filter.Expression); err != nil {
			return Meta{}, fmt.Errorf("filters: save %q: %w", filter.Name, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meta := Meta{Revision: 1, UpdatedAt: time.Now()}
	if existing, ok := s.records[filter.Name]; ok {
		meta.Revision = existing.meta.Revision + 1
	}
	s.records[filter.Name] = record{filter: filter, meta: meta}
	return meta, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("filters: name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		return ErrNotFound
	}
	delete(s.records, name)
	return nil
}

// List returns all filters sorted by name.
func (s *MemoryStore) List(_ context.Context) ([]Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Filter, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.filter)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
