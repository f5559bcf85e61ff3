package store

import (
	"sync"

	"github.com/efreitasn/matchcore/internal/domain"
)

// ShareholderStore is the in-memory registry of shareholder position
// ledgers, the counterpart of BrokerStore on the positions side. The
// matchers read it through the engine's ShareholderLookup interface.
type ShareholderStore struct {
	mu   sync.RWMutex
	byID map[string]*domain.Shareholder
}

// NewShareholderStore creates an empty ShareholderStore.
func NewShareholderStore() *ShareholderStore {
	return &ShareholderStore{byID: make(map[string]*domain.Shareholder)}
}

// Create registers a shareholder under its id. Registering an id twice
// fails with domain.ErrShareholderAlreadyExists and keeps the existing
// ledger untouched.
func (s *ShareholderStore) Create(sh *domain.Shareholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byID[sh.ShareholderID]; taken {
		return domain.ErrShareholderAlreadyExists
	}
	s.byID[sh.ShareholderID] = sh
	return nil
}

// Get returns the shareholder's live ledger, or
// domain.ErrShareholderNotFound.
func (s *ShareholderStore) Get(id string) (*domain.Shareholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrShareholderNotFound
	}
	return sh, nil
}

// Exists reports whether a shareholder is registered, for order
// validation.
func (s *ShareholderStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byID[id]
	return ok
}
