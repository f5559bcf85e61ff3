package engine

import (
	"github.com/google/btree"

	"github.com/efreitasn/matchcore/internal/domain"
)

// bookEntry keys a resting order by (price priority, arrival sequence).
// The key fields are copies taken at insertion time and stay stable
// while the order's quantity mutates, so fills never disturb the tree.
type bookEntry struct {
	price int64
	seq   uint64
	order *domain.Order
}

// bidLess orders the bid side: price descending, then sequence
// ascending, so Min() is the best bid (highest price, earliest entry).
func bidLess(a, b bookEntry) bool {
	if a.price != b.price {
		return a.price > b.price
	}
	return a.seq < b.seq
}

// askLess orders the ask side: price ascending, then sequence
// ascending. Min() is the best ask.
func askLess(a, b bookEntry) bool {
	if a.price != b.price {
		return a.price < b.price
	}
	return a.seq < b.seq
}

// PriceLevel is an aggregated view of one price in the book, used by
// the depth endpoint.
type PriceLevel struct {
	Price         int64 `json:"price"`
	TotalQuantity int64 `json:"total_quantity"`
	OrderCount    int   `json:"order_count"`
}

// OrderBook holds the continuous resting orders of one security as two
// B-trees plus a secondary index for removal by order id. The sequence
// counter implements FIFO within a price level; a rolled-back order is
// re-inserted under its original sequence number, which restores its
// exact prior queue position. The book is not safe for concurrent use:
// each security is driven by a single writer.
type OrderBook struct {
	bids  *btree.BTreeG[bookEntry]
	asks  *btree.BTreeG[bookEntry]
	index map[uint64]bookEntry
	seq   uint64
}

// NewOrderBook creates an empty book.
func NewOrderBook() *OrderBook {
	const degree = 32
	return &OrderBook{
		bids:  btree.NewG(degree, bidLess),
		asks:  btree.NewG(degree, askLess),
		index: make(map[uint64]bookEntry),
	}
}

func (b *OrderBook) tree(side domain.Side) *btree.BTreeG[bookEntry] {
	if side == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

// Enqueue inserts the order at its priority position: price priority
// first, FIFO within the price. The order transitions to Queued, which
// replenishes an iceberg's displayed slice.
func (b *OrderBook) Enqueue(order *domain.Order) {
	order.Queue()
	b.seq++
	b.insert(order, b.seq)
}

func (b *OrderBook) insert(order *domain.Order, seq uint64) {
	entry := bookEntry{price: order.Price, seq: seq, order: order}
	b.tree(order.Side).ReplaceOrInsert(entry)
	b.index[order.ID] = entry
}

// Best returns the highest-priority order on the given side.
func (b *OrderBook) Best(side domain.Side) (*domain.Order, bool) {
	entry, ok := b.tree(side).Min()
	if !ok {
		return nil, false
	}
	return entry.order, true
}

// RemoveBest pops the highest-priority order on the given side.
func (b *OrderBook) RemoveBest(side domain.Side) {
	entry, ok := b.tree(side).DeleteMin()
	if ok {
		delete(b.index, entry.order.ID)
	}
}

// CrossesBest returns the best opposing order if the incoming order
// crosses it, else nil.
func (b *OrderBook) CrossesBest(incoming *domain.Order) *domain.Order {
	best, ok := b.Best(incoming.Side.Opposite())
	if !ok || !incoming.Crosses(best) {
		return nil
	}
	return best
}

// FindByID returns the resting order with the given side and id, or nil.
func (b *OrderBook) FindByID(side domain.Side, id uint64) *domain.Order {
	entry, ok := b.index[id]
	if !ok || entry.order.Side != side {
		return nil
	}
	return entry.order
}

// RemoveByID removes the order with the given side and id, reporting
// whether it was present.
func (b *OrderBook) RemoveByID(side domain.Side, id uint64) bool {
	entry, ok := b.index[id]
	if !ok || entry.order.Side != side {
		return false
	}
	b.tree(side).Delete(entry)
	delete(b.index, id)
	return true
}

// SeqOf returns the arrival sequence of a resting order, captured by
// the undo log before a fill so Restore can reproduce the position.
func (b *OrderBook) SeqOf(id uint64) uint64 {
	return b.index[id].seq
}

// Restore re-inserts a rolled-back order from its pre-trade snapshot at
// its original sequence, displacing whatever incarnation of the order
// is currently queued (a replenished iceberg, for example). Used only
// by rollback; normal insertion goes through Enqueue.
func (b *OrderBook) Restore(snap domain.Order, seq uint64) {
	b.RemoveByID(snap.Side, snap.ID)
	order := snap
	order.Status = domain.StatusQueued
	b.insert(&order, seq)
}

// HasOrders reports whether the given side is non-empty.
func (b *OrderBook) HasOrders(side domain.Side) bool {
	return b.tree(side).Len() > 0
}

// Len returns the number of resting orders on the given side.
func (b *OrderBook) Len(side domain.Side) int {
	return b.tree(side).Len()
}

// Ascend walks the given side in priority order. The callback returns
// false to stop.
func (b *OrderBook) Ascend(side domain.Side, fn func(*domain.Order) bool) {
	b.tree(side).Ascend(func(entry bookEntry) bool {
		return fn(entry.order)
	})
}

// OpenOrders returns, in book order, the resting orders on one side
// that participate at the given clearing price: buys priced at or above
// it, sells priced at or below it. Priority ordering makes them a
// prefix of the side.
func (b *OrderBook) OpenOrders(clearingPrice int64, side domain.Side) []*domain.Order {
	var open []*domain.Order
	b.Ascend(side, func(o *domain.Order) bool {
		if side == domain.SideBuy && o.Price < clearingPrice {
			return false
		}
		if side == domain.SideSell && o.Price > clearingPrice {
			return false
		}
		open = append(open, o)
		return true
	})
	return open
}

// TotalSellQuantityBy sums the true remaining quantity of the
// shareholder's resting sell orders, for position headroom checks.
func (b *OrderBook) TotalSellQuantityBy(shareholderID string) int64 {
	var total int64
	b.Ascend(domain.SideSell, func(o *domain.Order) bool {
		if o.ShareholderID == shareholderID {
			total += o.Quantity
		}
		return true
	})
	return total
}

// Levels aggregates up to n price levels of one side by visible
// quantity, best price first.
func (b *OrderBook) Levels(side domain.Side, n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	b.Ascend(side, func(o *domain.Order) bool {
		if len(levels) > 0 && levels[len(levels)-1].Price == o.Price {
			levels[len(levels)-1].TotalQuantity += o.VisibleQuantity()
			levels[len(levels)-1].OrderCount++
			return true
		}
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:         o.Price,
			TotalQuantity: o.VisibleQuantity(),
			OrderCount:    1,
		})
		return true
	})
	return levels
}
