package store

import (
	"sync"

	"github.com/efreitasn/matchcore/internal/domain"
)

// BrokerStore is the in-memory registry of broker credit ledgers. Its
// lock guards registration only; credit movements on a ledger are
// serialized by the broker's own lock. The matchers read it through the
// engine's BrokerLookup interface.
type BrokerStore struct {
	mu   sync.RWMutex
	byID map[string]*domain.Broker
}

// NewBrokerStore creates an empty BrokerStore.
func NewBrokerStore() *BrokerStore {
	return &BrokerStore{byID: make(map[string]*domain.Broker)}
}

// Create registers a broker under its id. Registering an id twice
// fails with domain.ErrBrokerAlreadyExists and keeps the existing
// ledger untouched.
func (s *BrokerStore) Create(b *domain.Broker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byID[b.BrokerID]; taken {
		return domain.ErrBrokerAlreadyExists
	}
	s.byID[b.BrokerID] = b
	return nil
}

// Get returns the broker's live ledger, or domain.ErrBrokerNotFound.
func (s *BrokerStore) Get(id string) (*domain.Broker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrBrokerNotFound
	}
	return b, nil
}

// Exists reports whether a broker is registered, for order validation.
func (s *BrokerStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byID[id]
	return ok
}
