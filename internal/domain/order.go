package domain

import "time"

// OrderKind is the closed set of order variants. Every switch over it
// must handle all three kinds.
type OrderKind string

const (
	KindLimit     OrderKind = "limit"
	KindIceberg   OrderKind = "iceberg"
	KindStopLimit OrderKind = "stop_limit"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	// StatusNew marks an order that has not been queued on a book yet.
	// A New iceberg exposes its full remaining quantity.
	StatusNew OrderStatus = "new"
	// StatusQueued marks an order resting on a book.
	StatusQueued OrderStatus = "queued"
	// StatusSnapshot marks a point-in-time copy kept for audit or restore.
	StatusSnapshot OrderStatus = "snapshot"
)

// Order is a buy or sell instruction for a single instrument. The Kind
// tag selects the variant: KindIceberg additionally uses PeakSize and
// Displayed, KindStopLimit additionally uses StopPrice. Quantity is the
// true remaining quantity and is mutated by fills.
type Order struct {
	ID            uint64
	Symbol        string
	Side          Side
	Quantity      int64
	Price         int64
	BrokerID      string
	ShareholderID string
	EntryTime     time.Time
	Status        OrderStatus
	MinExecQty    int64
	// MinQtyExecuted is sticky: once the minimum-execution constraint has
	// been satisfied (or waived) for this order instance, partial fills
	// never re-check it.
	MinQtyExecuted bool

	Kind OrderKind

	// Iceberg fields.
	PeakSize  int64
	Displayed int64

	// Stop-limit fields.
	StopPrice int64
	// RequestID is the caller correlation id carried by stop orders so
	// activation events can reference the originating request.
	RequestID uint64
}

// VisibleQuantity is the quantity the book exposes to matching: the
// displayed slice for a queued iceberg, the true remaining quantity
// otherwise. A New iceberg transiently exposes its full quantity, which
// is what the re-insertion path of an update relies on.
func (o *Order) VisibleQuantity() int64 {
	if o.Kind == KindIceberg && o.Status != StatusNew {
		return o.Displayed
	}
	return o.Quantity
}

// Crosses reports whether this order can trade against other: a buy
// crosses when its price is at least the ask, a sell when its price is
// at most the bid.
func (o *Order) Crosses(other *Order) bool {
	if o.Side == SideBuy {
		return o.Price >= other.Price
	}
	return o.Price <= other.Price
}

// QueuesBefore reports whether this order has strictly better price
// priority than other on the same side. Equal prices rank by arrival.
func (o *Order) QueuesBefore(other *Order) bool {
	if o.Side == SideBuy {
		return o.Price > other.Price
	}
	return o.Price < other.Price
}

// StopQueuesBefore orders stop orders by how little price movement they
// need to trigger: ascending stop price for buys, descending for sells.
func (o *Order) StopQueuesBefore(other *Order) bool {
	if o.Side == SideBuy {
		return o.StopPrice < other.StopPrice
	}
	return o.StopPrice > other.StopPrice
}

// Triggered reports whether a stop order's trigger condition holds at
// the given last trade price.
func (o *Order) Triggered(lastTradePrice int64) bool {
	if o.Side == SideBuy {
		return lastTradePrice >= o.StopPrice
	}
	return lastTradePrice <= o.StopPrice
}

// Fill consumes qty units. For a queued iceberg the displayed slice and
// the true quantity both shrink; otherwise only the true quantity does.
func (o *Order) Fill(qty int64) {
	if o.Kind == KindIceberg && o.Status != StatusNew {
		o.Displayed -= qty
	}
	o.Quantity -= qty
}

// Replenish resets an iceberg's displayed slice after it has been
// exhausted. No-op for other kinds.
func (o *Order) Replenish() {
	if o.Kind == KindIceberg {
		o.Displayed = min(o.Quantity, o.PeakSize)
	}
}

// Queue transitions the order to the resting state, replenishing an
// iceberg's display.
func (o *Order) Queue() {
	o.Replenish()
	o.Status = StatusQueued
}

// MarkNew resets the order to the not-yet-queued state, used when an
// updated order is re-submitted to the matcher as if newly arrived.
func (o *Order) MarkNew() {
	o.Status = StatusNew
}

// Activate converts a triggered stop order into a live limit order.
func (o *Order) Activate() *Order {
	live := *o
	live.Kind = KindLimit
	live.StopPrice = 0
	live.Status = StatusNew
	return &live
}

// Snapshot returns a point-in-time value copy of the order, marked
// StatusSnapshot. Snapshots back trades and rollback restores; they
// never alias the live order.
func (o *Order) Snapshot() Order {
	snap := *o
	snap.Status = StatusSnapshot
	return snap
}

// Value is the order's full notional at its limit price.
func (o *Order) Value() int64 {
	return o.Price * o.Quantity
}

// QuantityIncreases reports whether an update to newQuantity grows the
// order, which costs it its queue priority.
func (o *Order) QuantityIncreases(newQuantity int64) bool {
	return newQuantity > o.Quantity
}

// ApplyUpdate mutates the order in place from an update request. The
// caller has already decided whether the update preserves priority.
func (o *Order) ApplyUpdate(req EnterOrderRequest) {
	o.Quantity = req.Quantity
	o.Price = req.Price
	switch o.Kind {
	case KindIceberg:
		if o.PeakSize < req.PeakSize {
			o.Displayed = min(o.Quantity, req.PeakSize)
		} else if o.PeakSize > req.PeakSize {
			o.Displayed = min(o.Displayed, req.PeakSize)
		}
		o.PeakSize = req.PeakSize
	case KindStopLimit:
		o.StopPrice = req.StopPrice
	case KindLimit:
	}
}
