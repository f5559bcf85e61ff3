package engine

import (
	"slices"

	"github.com/efreitasn/matchcore/internal/domain"
)

// AuctionMatcher implements the call-auction trading mode. While a
// security is in auction, incoming orders are admitted to the book
// without trading; the crossed book is resolved in a single uncrossing
// at the equilibrium price when the security leaves the auction.
type AuctionMatcher struct {
	brokers      BrokerLookup
	shareholders ShareholderLookup
}

func NewAuctionMatcher(brokers BrokerLookup, shareholders ShareholderLookup) *AuctionMatcher {
	return &AuctionMatcher{brokers: brokers, shareholders: shareholders}
}

// Execute admits an order to the book. Buy orders reserve their full
// notional before they may rest; since the clearing price is never
// above a matched buy's limit, the reservation always covers the
// eventual fill.
func (m *AuctionMatcher) Execute(sec *Security, order *domain.Order) MatchResult {
	if order.Side == domain.SideBuy {
		buyer, _ := m.brokers.Get(order.BrokerID)
		if !buyer.HasEnoughCredit(order.Value()) {
			return notEnoughCredit()
		}
		buyer.DecreaseCreditBy(order.Value())
	}
	sec.EnqueueOrder(order)
	return executed(order, nil)
}

// Uncross trades the open buy and sell batches against each other at
// the clearing price until one side is exhausted. Buyers reserved their
// own limit notional on entry, so each fill refunds them the price
// improvement; sellers are credited the traded notional. Exhausted
// icebergs with hidden quantity replenish and rejoin both the batch and
// the live book at their price priority. Feasibility was established by
// the reservations on entry, so there is nothing to roll back.
func (m *AuctionMatcher) Uncross(sec *Security, buys, sells []*domain.Order, clearingPrice int64) MatchResult {
	var trades []domain.Trade

	for len(buys) > 0 && len(sells) > 0 {
		buy, sell := buys[0], sells[0]
		qty := min(buy.VisibleQuantity(), sell.VisibleQuantity())
		trade := domain.NewTrade(clearingPrice, qty, buy, sell)

		buyConsumed := qty == buy.VisibleQuantity()
		sellConsumed := qty == sell.VisibleQuantity()
		buy.Fill(qty)
		sell.Fill(qty)
		if buyConsumed {
			buys = m.retire(sec, buy, buys)
		}
		if sellConsumed {
			sells = m.retire(sec, sell, sells)
		}

		buyer, _ := m.brokers.Get(buy.BrokerID)
		buyer.IncreaseCreditBy((buy.Price - clearingPrice) * qty)
		seller, _ := m.brokers.Get(sell.BrokerID)
		seller.IncreaseCreditBy(trade.Value())

		trades = append(trades, trade)
	}

	settlePositions(m.shareholders, trades)
	return executed(nil, trades)
}

// retire pops the exhausted batch head and removes it from the live
// book. An iceberg with remaining hidden quantity replenishes and
// re-enters both, behind everything already resting at its price.
func (m *AuctionMatcher) retire(sec *Security, order *domain.Order, batch []*domain.Order) []*domain.Order {
	batch = batch[1:]
	sec.book.RemoveByID(order.Side, order.ID)
	if order.Kind == domain.KindIceberg && order.Quantity > 0 {
		sec.book.Enqueue(order)
		idx := len(batch)
		for i, o := range batch {
			if order.QueuesBefore(o) {
				idx = i
				break
			}
		}
		batch = slices.Insert(batch, idx, order)
	}
	return batch
}

// A candidate ask price before any ask has matched; far enough from any
// real price that a matched ask always wins the distance comparison.
const unmatchedAskPrice = -1 << 30

// OpeningPrice finds the clearing price for an uncrossing: the price
// that maximizes exchanged quantity, with ties broken toward the
// candidate closest to lastTradePrice, preferring the later candidate
// at equal distance. If the last trade price itself lies between the
// chosen bid and ask candidates it is used directly. Returns (0, 0)
// when the book does not cross.
func (b *OrderBook) OpeningPrice(lastTradePrice int64) (price, quantity int64) {
	var openingPrice, tradeable, matchedAskPrice, cumBid int64
	matchedAskPrice = unmatchedAskPrice

	b.Ascend(domain.SideBuy, func(buy *domain.Order) bool {
		cumBid += buy.Quantity
		fillable, nearestAsk := b.fillableAskQuantity(buy.Price, lastTradePrice, cumBid)
		exchanged := min(cumBid, fillable)
		switch {
		case exchanged > tradeable:
			openingPrice, tradeable, matchedAskPrice = buy.Price, exchanged, nearestAsk
		case exchanged == tradeable:
			if abs64(lastTradePrice-openingPrice) >= abs64(lastTradePrice-buy.Price) {
				openingPrice = buy.Price
			}
			if abs64(lastTradePrice-matchedAskPrice) >= abs64(lastTradePrice-nearestAsk) {
				matchedAskPrice = nearestAsk
			}
		}
		return true
	})

	if openingPrice >= lastTradePrice && lastTradePrice >= matchedAskPrice {
		openingPrice = lastTradePrice
	} else if abs64(lastTradePrice-openingPrice) >= abs64(lastTradePrice-matchedAskPrice) {
		openingPrice = matchedAskPrice
	}
	if tradeable == 0 {
		return 0, 0
	}
	return openingPrice, tradeable
}

// fillableAskQuantity sums sell quantity priced at or below buyPrice and
// tracks the candidate ask price: while asks are still needed to cover
// the bid quantity the last one seen, afterwards whichever remaining ask
// lies closest to the last trade price.
func (b *OrderBook) fillableAskQuantity(buyPrice, lastTradePrice, cumBidQty int64) (fillable, nearest int64) {
	nearest = unmatchedAskPrice
	b.Ascend(domain.SideSell, func(ask *domain.Order) bool {
		if ask.Price > buyPrice {
			return false
		}
		if fillable < cumBidQty || abs64(lastTradePrice-nearest) > abs64(lastTradePrice-ask.Price) {
			nearest = ask.Price
		}
		fillable += ask.Quantity
		return true
	})
	return fillable, nearest
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
