package service

import (
	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/engine"
	"github.com/efreitasn/matchcore/internal/store"
)

// Book snapshots aggregate at most this many price levels per side.
const maxBookDepth = 50

// BookSnapshot is a point-in-time aggregated view of one security.
type BookSnapshot struct {
	Symbol         string              `json:"symbol"`
	State          domain.MarketState  `json:"state"`
	LastTradePrice int64               `json:"last_trade_price"`
	Bids           []engine.PriceLevel `json:"bids"`
	Asks           []engine.PriceLevel `json:"asks"`
}

// OpeningPriceView reports the indicative equilibrium of a security.
type OpeningPriceView struct {
	Symbol   string `json:"symbol"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// MarketService serves read-only market data: book depth, indicative
// opening prices and the trade log.
type MarketService struct {
	securities *store.SecurityStore
	trades     *store.TradeStore
}

// NewMarketService creates a new MarketService with the given dependencies.
func NewMarketService(securities *store.SecurityStore, trades *store.TradeStore) *MarketService {
	return &MarketService{securities: securities, trades: trades}
}

// Book returns an aggregated depth snapshot of the security's book.
func (s *MarketService) Book(symbol string, depth int) (BookSnapshot, error) {
	sec, err := s.securities.Get(symbol)
	if err != nil {
		return BookSnapshot{}, err
	}
	if depth <= 0 || depth > maxBookDepth {
		depth = maxBookDepth
	}

	sec.Lock()
	defer sec.Unlock()

	return BookSnapshot{
		Symbol:         sec.Symbol,
		State:          sec.State(),
		LastTradePrice: sec.LastTradePrice(),
		Bids:           sec.Book().Levels(domain.SideBuy, depth),
		Asks:           sec.Book().Levels(domain.SideSell, depth),
	}, nil
}

// OpeningPrice returns the clearing price and quantity an uncrossing of
// the current book would produce.
func (s *MarketService) OpeningPrice(symbol string) (OpeningPriceView, error) {
	sec, err := s.securities.Get(symbol)
	if err != nil {
		return OpeningPriceView{}, err
	}

	sec.Lock()
	defer sec.Unlock()

	price, quantity := sec.OpeningPrice()
	return OpeningPriceView{Symbol: sec.Symbol, Price: price, Quantity: quantity}, nil
}

// Trades returns the security's executed trades in execution order.
func (s *MarketService) Trades(symbol string) ([]domain.Trade, error) {
	if !s.securities.Exists(symbol) {
		return nil, domain.ErrSecurityNotFound
	}
	return s.trades.GetBySymbol(symbol), nil
}
