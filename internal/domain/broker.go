package domain

import (
	"sync"
	"time"
)

// Broker is a registered participant holding the cash side of the
// ledger. Credit is a signed integer balance that must never go
// negative: resting buy orders reserve their full notional up front by
// decreasing it, and rollback restores it. Each method is individually
// atomic; ordering across methods is the caller's single-writer
// responsibility.
type Broker struct {
	BrokerID  string
	CreatedAt time.Time

	mu     sync.Mutex
	credit int64
}

// NewBroker creates a broker with the given starting credit.
func NewBroker(id string, credit int64) *Broker {
	return &Broker{BrokerID: id, CreatedAt: time.Now(), credit: credit}
}

// Credit returns the current balance.
func (b *Broker) Credit() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.credit
}

// HasEnoughCredit reports whether the balance covers amount.
func (b *Broker) HasEnoughCredit(amount int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.credit >= amount
}

// IncreaseCreditBy adds amount to the balance.
func (b *Broker) IncreaseCreditBy(amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit += amount
}

// DecreaseCreditBy subtracts amount from the balance. The caller has
// already verified sufficiency via HasEnoughCredit.
func (b *Broker) DecreaseCreditBy(amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit -= amount
}
