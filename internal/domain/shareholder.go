package domain

import (
	"sync"
	"time"
)

// Shareholder holds per-instrument integer positions. Positions change
// only at trade settlement; sell headroom is enforced by counting
// resting sell quantity, not by reservation.
type Shareholder struct {
	ShareholderID string
	CreatedAt     time.Time

	mu        sync.Mutex
	positions map[string]int64 // symbol → holdings
}

// NewShareholder creates a shareholder with no positions.
func NewShareholder(id string) *Shareholder {
	return &Shareholder{
		ShareholderID: id,
		CreatedAt:     time.Now(),
		positions:     make(map[string]int64),
	}
}

// PositionOn returns the holdings in the given instrument.
func (s *Shareholder) PositionOn(symbol string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positions[symbol]
}

// HasEnoughPositionsOn reports whether holdings in symbol cover qty.
func (s *Shareholder) HasEnoughPositionsOn(symbol string, qty int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positions[symbol] >= qty
}

// IncPosition adds qty units of symbol.
func (s *Shareholder) IncPosition(symbol string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[symbol] += qty
}

// DecPosition removes qty units of symbol.
func (s *Shareholder) DecPosition(symbol string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[symbol] -= qty
}
