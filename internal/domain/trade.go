package domain

import "github.com/google/uuid"

// Trade is an immutable record of a single fill. Buy and Sell are value
// copies of the two orders as they were at the moment of the fill (their
// pre-fill remaining quantities), never live references: the live orders
// keep mutating after the trade is recorded and past trades must remain
// a faithful audit log.
type Trade struct {
	ID       string
	Symbol   string
	Price    int64
	Quantity int64
	Buy      Order
	Sell     Order
}

// NewTrade records a fill of qty units at price between the two orders,
// snapshotting both before they are mutated. The caller passes the
// orders in either position.
func NewTrade(price, qty int64, a, b *Order) Trade {
	t := Trade{
		ID:       uuid.New().String(),
		Symbol:   a.Symbol,
		Price:    price,
		Quantity: qty,
	}
	if a.Side == SideBuy {
		t.Buy, t.Sell = a.Snapshot(), b.Snapshot()
	} else {
		t.Buy, t.Sell = b.Snapshot(), a.Snapshot()
	}
	return t
}

// Value is the traded notional: price × quantity.
func (t Trade) Value() int64 {
	return t.Price * t.Quantity
}
