package engine

import "github.com/efreitasn/matchcore/internal/domain"

// BrokerLookup resolves broker ids to credit ledgers. Requests are
// validated against the repositories before the engine runs, so lookups
// here never miss.
type BrokerLookup interface {
	Get(id string) (*domain.Broker, error)
}

// ShareholderLookup resolves shareholder ids to position ledgers.
type ShareholderLookup interface {
	Get(id string) (*domain.Shareholder, error)
}

// Matcher executes one incoming order against a security under the
// rules of a trading mode. The continuous matcher trades immediately;
// the auction matcher only admits orders to the book until the security
// is uncrossed.
type Matcher interface {
	Execute(sec *Security, order *domain.Order) MatchResult
}

// settlePositions applies the share movements of a completed trade
// sequence: each fill moves quantity from the seller's holdings to the
// buyer's. Runs only after a pass has fully succeeded, so it is never
// part of a rollback.
func settlePositions(shareholders ShareholderLookup, trades []domain.Trade) {
	for _, trade := range trades {
		buyer, _ := shareholders.Get(trade.Buy.ShareholderID)
		seller, _ := shareholders.Get(trade.Sell.ShareholderID)
		buyer.IncPosition(trade.Symbol, trade.Quantity)
		seller.DecPosition(trade.Symbol, trade.Quantity)
	}
}

// TradeSummaries converts trades to the per-fill slices carried by
// OrderExecuted events.
func TradeSummaries(trades []domain.Trade) []domain.TradeSummary {
	summaries := make([]domain.TradeSummary, len(trades))
	for i, t := range trades {
		summaries[i] = domain.TradeSummary{
			Price:       t.Price,
			Quantity:    t.Quantity,
			BuyOrderID:  t.Buy.ID,
			SellOrderID: t.Sell.ID,
		}
	}
	return summaries
}
