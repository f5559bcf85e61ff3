package store

import (
	"sync"

	"github.com/efreitasn/matchcore/internal/domain"
)

// TradeStore is a thread-safe append-only log of executed trades,
// keyed by symbol, in execution order.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[string][]domain.Trade
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades: make(map[string][]domain.Trade),
	}
}

// Append adds trades to the symbol's log.
func (s *TradeStore) Append(symbol string, trades ...domain.Trade) {
	if len(trades) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades[symbol] = append(s.trades[symbol], trades...)
}

// GetBySymbol returns all trades for a symbol in execution order.
// Returns an empty slice if no trades exist for the symbol.
func (s *TradeStore) GetBySymbol(symbol string) []domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := s.trades[symbol]
	result := make([]domain.Trade, len(trades))
	copy(result, trades)
	return result
}
