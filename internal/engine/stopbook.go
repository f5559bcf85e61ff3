package engine

import (
	"github.com/google/btree"

	"github.com/efreitasn/matchcore/internal/domain"
)

// stopEntry keys a pending stop order by (trigger priority, arrival
// sequence).
type stopEntry struct {
	stopPrice int64
	seq       uint64
	order     *domain.Order
}

// stopBuyLess orders pending buy stops by ascending stop price: the
// order needing the least price rise triggers first.
func stopBuyLess(a, b stopEntry) bool {
	if a.stopPrice != b.stopPrice {
		return a.stopPrice < b.stopPrice
	}
	return a.seq < b.seq
}

// stopSellLess orders pending sell stops by descending stop price: the
// order needing the least price fall triggers first.
func stopSellLess(a, b stopEntry) bool {
	if a.stopPrice != b.stopPrice {
		return a.stopPrice > b.stopPrice
	}
	return a.seq < b.seq
}

// StopOrderBook holds the pending stop-limit orders of one security,
// disjoint from the continuous book. Orders live here until triggered
// and never match while pending. Single-writer, like OrderBook.
type StopOrderBook struct {
	buys  *btree.BTreeG[stopEntry]
	sells *btree.BTreeG[stopEntry]
	index map[uint64]stopEntry
	seq   uint64
}

// NewStopOrderBook creates an empty stop book.
func NewStopOrderBook() *StopOrderBook {
	const degree = 32
	return &StopOrderBook{
		buys:  btree.NewG(degree, stopBuyLess),
		sells: btree.NewG(degree, stopSellLess),
		index: make(map[uint64]stopEntry),
	}
}

func (b *StopOrderBook) tree(side domain.Side) *btree.BTreeG[stopEntry] {
	if side == domain.SideBuy {
		return b.buys
	}
	return b.sells
}

// Enqueue inserts a stop order at its trigger priority position.
func (b *StopOrderBook) Enqueue(order *domain.Order) {
	order.Queue()
	b.seq++
	entry := stopEntry{stopPrice: order.StopPrice, seq: b.seq, order: order}
	b.tree(order.Side).ReplaceOrInsert(entry)
	b.index[order.ID] = entry
}

// FindByID returns the pending order with the given side and id, or nil.
func (b *StopOrderBook) FindByID(side domain.Side, id uint64) *domain.Order {
	entry, ok := b.index[id]
	if !ok || entry.order.Side != side {
		return nil
	}
	return entry.order
}

// RemoveByID removes the order with the given side and id, reporting
// whether it was present.
func (b *StopOrderBook) RemoveByID(side domain.Side, id uint64) bool {
	entry, ok := b.index[id]
	if !ok || entry.order.Side != side {
		return false
	}
	b.tree(side).Delete(entry)
	delete(b.index, id)
	return true
}

// TriggeredOrders drains and returns, in trigger order, every pending
// order on the given side whose condition holds at lastTradePrice. The
// sort order makes triggered orders a prefix, so draining stops at the
// first non-triggered order and costs O(triggered count).
func (b *StopOrderBook) TriggeredOrders(lastTradePrice int64, side domain.Side) []*domain.Order {
	var triggered []*domain.Order
	tree := b.tree(side)
	for {
		entry, ok := tree.Min()
		if !ok || !entry.order.Triggered(lastTradePrice) {
			return triggered
		}
		tree.DeleteMin()
		delete(b.index, entry.order.ID)
		triggered = append(triggered, entry.order)
	}
}

// TotalSellQuantityBy sums the shareholder's pending sell quantity, for
// position headroom checks.
func (b *StopOrderBook) TotalSellQuantityBy(shareholderID string) int64 {
	var total int64
	b.sells.Ascend(func(entry stopEntry) bool {
		if entry.order.ShareholderID == shareholderID {
			total += entry.order.Quantity
		}
		return true
	})
	return total
}

// Len returns the number of pending orders on the given side.
func (b *StopOrderBook) Len(side domain.Side) int {
	return b.tree(side).Len()
}
