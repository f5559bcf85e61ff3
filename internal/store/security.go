package store

import (
	"sort"
	"sync"

	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/engine"
)

// SecurityStore is a thread-safe in-memory store for tradable
// securities, keyed by symbol. The store guards only the registry map;
// order flow on a security is serialized by the security's own lock.
type SecurityStore struct {
	mu         sync.RWMutex
	securities map[string]*engine.Security
}

// NewSecurityStore creates an empty SecurityStore.
func NewSecurityStore() *SecurityStore {
	return &SecurityStore{
		securities: make(map[string]*engine.Security),
	}
}

// Create adds a security to the store. It returns
// domain.ErrSecurityAlreadyExists if a security with the same symbol
// already exists.
func (s *SecurityStore) Create(sec *engine.Security) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.securities[sec.Symbol]; exists {
		return domain.ErrSecurityAlreadyExists
	}
	s.securities[sec.Symbol] = sec
	return nil
}

// Get retrieves a security by symbol. It returns
// domain.ErrSecurityNotFound if the security does not exist.
func (s *SecurityStore) Get(symbol string) (*engine.Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.securities[symbol]
	if !ok {
		return nil, domain.ErrSecurityNotFound
	}
	return sec, nil
}

// Exists returns true if a security with the given symbol exists.
func (s *SecurityStore) Exists(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.securities[symbol]
	return ok
}

// List returns all securities sorted by symbol.
func (s *SecurityStore) List() []*engine.Security {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*engine.Security, 0, len(s.securities))
	for _, sec := range s.securities {
		result = append(result, sec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})
	return result
}
