package engine

import "github.com/efreitasn/matchcore/internal/domain"

// ContinuousMatcher trades an incoming order against the opposite side
// of the book at the resting orders' prices, in price-time priority,
// until the order is exhausted or nothing crosses. Whatever remains is
// queued. Every pass is all-or-nothing: if the order runs out of credit
// mid-match, or its minimum-execution floor is missed, every fill and
// credit movement of the pass is undone and the book is left exactly as
// it was.
type ContinuousMatcher struct {
	brokers      BrokerLookup
	shareholders ShareholderLookup
}

func NewContinuousMatcher(brokers BrokerLookup, shareholders ShareholderLookup) *ContinuousMatcher {
	return &ContinuousMatcher{brokers: brokers, shareholders: shareholders}
}

func (m *ContinuousMatcher) Execute(sec *Security, order *domain.Order) MatchResult {
	if order.Kind == domain.KindStopLimit {
		if !order.Triggered(sec.LastTradePrice()) {
			if order.Side == domain.SideBuy {
				buyer, _ := m.brokers.Get(order.BrokerID)
				if !buyer.HasEnoughCredit(order.Value()) {
					return notEnoughCredit()
				}
				buyer.DecreaseCreditBy(order.Value())
			}
			sec.stopBook.Enqueue(order)
			return notActivated(order)
		}
		order = order.Activate()
	}

	prevQuantity := order.Quantity
	undo := &undoLog{}
	var trades []domain.Trade

	for order.Quantity > 0 {
		resting := sec.book.CrossesBest(order)
		if resting == nil {
			break
		}

		qty := min(order.Quantity, resting.VisibleQuantity())
		trade := domain.NewTrade(resting.Price, qty, order, resting)

		if order.Side == domain.SideBuy {
			buyer, _ := m.brokers.Get(order.BrokerID)
			if !buyer.HasEnoughCredit(trade.Value()) {
				undo.rollback()
				return notEnoughCredit()
			}
			buyer.DecreaseCreditBy(trade.Value())
			undo.push(func() { buyer.IncreaseCreditBy(trade.Value()) })
		}
		seller, _ := m.brokers.Get(trade.Sell.BrokerID)
		seller.IncreaseCreditBy(trade.Value())
		undo.push(func() { seller.DecreaseCreditBy(trade.Value()) })

		m.applyFill(sec.book, order, resting, qty, undo)
		trades = append(trades, trade)
	}

	if order.Quantity > 0 {
		if !order.MinQtyExecuted && order.Quantity > prevQuantity-order.MinExecQty {
			undo.rollback()
			return minimumNotMatched()
		}
		if order.Side == domain.SideBuy {
			buyer, _ := m.brokers.Get(order.BrokerID)
			if !buyer.HasEnoughCredit(order.Value()) {
				undo.rollback()
				return notEnoughCredit()
			}
			// The remainder rests on the book with its full notional
			// reserved until it trades or is removed.
			buyer.DecreaseCreditBy(order.Value())
		}
		sec.book.Enqueue(order)
	}

	order.MinQtyExecuted = true
	settlePositions(m.shareholders, trades)
	return executed(order, trades)
}

// applyFill consumes qty from both sides of a fill and records how to
// put the resting order back. An exhausted iceberg replenishes its
// displayed slice and rejoins the back of its price level; the undo
// entry restores the pre-fill snapshot at the original queue position
// either way.
func (m *ContinuousMatcher) applyFill(book *OrderBook, incoming, resting *domain.Order, qty int64, undo *undoLog) {
	snap := resting.Snapshot()
	seq := book.SeqOf(resting.ID)
	undo.push(func() { book.Restore(snap, seq) })

	restingConsumed := qty == resting.VisibleQuantity()
	resting.Fill(qty)
	incoming.Fill(qty)

	if restingConsumed {
		book.RemoveBest(resting.Side)
		if resting.Kind == domain.KindIceberg && resting.Quantity > 0 {
			book.Enqueue(resting)
		}
	}
}
