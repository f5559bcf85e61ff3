package engine

import (
	"sync"
	"time"

	"github.com/efreitasn/matchcore/internal/domain"
)

// Security is one tradable instrument: its live book, its parked stop
// orders, its trading mode and last trade price. All engine entry
// points run under the security's lock, held by the caller; the engine
// itself never locks, so a matching pass is a plain single-threaded
// computation.
type Security struct {
	Symbol   string
	TickSize int64
	LotSize  int64

	mu             sync.Mutex
	book           *OrderBook
	stopBook       *StopOrderBook
	state          domain.MarketState
	lastTradePrice int64

	brokers      BrokerLookup
	shareholders ShareholderLookup
}

func NewSecurity(symbol string, tickSize, lotSize int64, brokers BrokerLookup, shareholders ShareholderLookup) *Security {
	return &Security{
		Symbol:       symbol,
		TickSize:     tickSize,
		LotSize:      lotSize,
		book:         NewOrderBook(),
		stopBook:     NewStopOrderBook(),
		state:        domain.StateContinuous,
		brokers:      brokers,
		shareholders: shareholders,
	}
}

// Lock serializes all order flow for this security. One writer per
// instrument; different securities proceed in parallel.
func (s *Security) Lock()   { s.mu.Lock() }
func (s *Security) Unlock() { s.mu.Unlock() }

func (s *Security) State() domain.MarketState { return s.state }

func (s *Security) SetState(state domain.MarketState) { s.state = state }

func (s *Security) LastTradePrice() int64 { return s.lastTradePrice }

func (s *Security) SetLastTradePrice(price int64) { s.lastTradePrice = price }

func (s *Security) Book() *OrderBook { return s.book }

// NewOrder checks the seller's position headroom and hands the order to
// the matcher. Sell headroom counts every resting sell the shareholder
// already has on this security, parked stops included.
func (s *Security) NewOrder(req domain.EnterOrderRequest, m Matcher) MatchResult {
	if req.Side == domain.SideSell {
		holder, _ := s.shareholders.Get(req.ShareholderID)
		pending := s.totalSellQuantityBy(req.ShareholderID) + req.Quantity
		if !holder.HasEnoughPositionsOn(s.Symbol, pending) {
			return notEnoughPositions()
		}
	}
	return m.Execute(s, s.buildOrder(req))
}

// UpdateOrder modifies a resting or parked order in place when the
// change cannot improve its standing, and otherwise removes it and
// re-enters it as new. A failed re-entry restores the original order at
// its former queue position with its former reservation.
func (s *Security) UpdateOrder(req domain.EnterOrderRequest, m Matcher) (MatchResult, error) {
	var order *domain.Order
	if req.StopPrice != 0 {
		order = s.stopBook.FindByID(req.Side, req.OrderID)
	} else {
		order = s.book.FindByID(req.Side, req.OrderID)
	}
	if err := validateUpdate(order, req); err != nil {
		return MatchResult{}, err
	}

	if req.Side == domain.SideSell {
		holder, _ := s.shareholders.Get(order.ShareholderID)
		pending := s.totalSellQuantityBy(order.ShareholderID) - order.Quantity + req.Quantity
		if !holder.HasEnoughPositionsOn(s.Symbol, pending) {
			return notEnoughPositions(), nil
		}
	}

	losesPriority := order.QuantityIncreases(req.Quantity) ||
		req.Price != order.Price ||
		(order.Kind == domain.KindIceberg && req.PeakSize > order.PeakSize) ||
		(order.Kind == domain.KindStopLimit && req.StopPrice != order.StopPrice)

	if req.Side == domain.SideBuy {
		broker, _ := s.brokers.Get(order.BrokerID)
		broker.IncreaseCreditBy(order.Value())
	}

	original := order.Snapshot()
	order.ApplyUpdate(req)

	if !losesPriority {
		if req.Side == domain.SideBuy {
			broker, _ := s.brokers.Get(order.BrokerID)
			broker.DecreaseCreditBy(order.Value())
		}
		return executed(nil, nil), nil
	}

	order.MarkNew()
	s.removeOrder(order)
	result := m.Execute(s, order)
	if result.Outcome != OutcomeExecuted && result.Outcome != OutcomeNotActivated {
		restored := original
		s.EnqueueOrder(&restored)
		if req.Side == domain.SideBuy {
			broker, _ := s.brokers.Get(original.BrokerID)
			broker.DecreaseCreditBy(original.Value())
		}
	}
	return result, nil
}

func validateUpdate(order *domain.Order, req domain.EnterOrderRequest) error {
	if order == nil {
		return domain.ErrOrderIDNotFound
	}
	var reasons []string
	if order.Kind == domain.KindIceberg && req.PeakSize == 0 {
		reasons = append(reasons, domain.ReasonIcebergWithoutPeakSize)
	}
	if order.Kind != domain.KindIceberg && req.PeakSize != 0 {
		reasons = append(reasons, domain.ReasonPeakSizeForNonIceberg)
	}
	if order.MinExecQty != req.MinExecQty {
		reasons = append(reasons, domain.ReasonCannotChangeMinExecQty)
	}
	if len(reasons) > 0 {
		return &domain.ValidationError{Reasons: reasons}
	}
	return nil
}

// DeleteOrder removes a resting or parked order and releases a buy's
// credit reservation. Stop orders cannot be deleted during an auction.
func (s *Security) DeleteOrder(req domain.DeleteOrderRequest) error {
	order := s.book.FindByID(req.Side, req.OrderID)
	if order == nil {
		order = s.stopBook.FindByID(req.Side, req.OrderID)
	}
	if order == nil {
		return domain.ErrOrderIDNotFound
	}
	if order.Kind == domain.KindStopLimit && s.state == domain.StateAuction {
		return domain.ErrStopOrderDeleteInAuction
	}
	if order.Side == domain.SideBuy {
		broker, _ := s.brokers.Get(order.BrokerID)
		broker.IncreaseCreditBy(order.Value())
	}
	s.removeOrder(order)
	return nil
}

// ActivateTriggeredStops drains and executes stop orders made live by a
// trade at tradePrice, repeating with each activation's own last trade
// price until no further stop triggers. Activation releases a parked
// buy's reservation; the continuous matcher re-reserves whatever
// remains unmatched.
func (s *Security) ActivateTriggeredStops(m Matcher, pub domain.Publisher, tradePrice int64) []domain.Trade {
	var pending []*domain.Order
	var fills []domain.Trade
	for {
		side := domain.SideSell
		if tradePrice > s.lastTradePrice {
			side = domain.SideBuy
		}
		pending = append(pending, s.stopBook.TriggeredOrders(tradePrice, side)...)
		s.lastTradePrice = tradePrice

		if len(pending) == 0 {
			return fills
		}
		stop := pending[0]
		pending = pending[1:]

		live := stop.Activate()
		if live.Side == domain.SideBuy {
			broker, _ := s.brokers.Get(live.BrokerID)
			broker.IncreaseCreditBy(live.Value())
		}
		pub.Publish(domain.OrderActivated{RequestID: stop.RequestID, OrderID: live.ID})

		result := m.Execute(s, live)
		if len(result.Trades) > 0 {
			tradePrice = result.Trades[len(result.Trades)-1].Price
			fills = append(fills, result.Trades...)
			pub.Publish(domain.OrderExecuted{
				RequestID: stop.RequestID,
				OrderID:   live.ID,
				Trades:    TradeSummaries(result.Trades),
			})
		}
	}
}

// EnqueueOrder rests an order on the book it belongs to without
// matching.
func (s *Security) EnqueueOrder(order *domain.Order) {
	if order.Kind == domain.KindStopLimit {
		s.stopBook.Enqueue(order)
		return
	}
	s.book.Enqueue(order)
}

func (s *Security) removeOrder(order *domain.Order) {
	if order.Kind == domain.KindStopLimit {
		s.stopBook.RemoveByID(order.Side, order.ID)
		return
	}
	s.book.RemoveByID(order.Side, order.ID)
}

// OpeningPrice reports the clearing price and exchanged quantity an
// uncrossing of the current book would produce.
func (s *Security) OpeningPrice() (price, quantity int64) {
	return s.book.OpeningPrice(s.lastTradePrice)
}

// OpenOrders lists the side's orders that would participate in an
// uncrossing at the clearing price, in queue order.
func (s *Security) OpenOrders(clearingPrice int64, side domain.Side) []*domain.Order {
	return s.book.OpenOrders(clearingPrice, side)
}

func (s *Security) totalSellQuantityBy(shareholderID string) int64 {
	return s.book.TotalSellQuantityBy(shareholderID) + s.stopBook.TotalSellQuantityBy(shareholderID)
}

func (s *Security) buildOrder(req domain.EnterOrderRequest) *domain.Order {
	entryTime := req.EntryTime
	if entryTime.IsZero() {
		entryTime = time.Now()
	}
	order := &domain.Order{
		ID:            req.OrderID,
		Symbol:        s.Symbol,
		Side:          req.Side,
		Quantity:      req.Quantity,
		Price:         req.Price,
		BrokerID:      req.BrokerID,
		ShareholderID: req.ShareholderID,
		EntryTime:     entryTime,
		Status:        domain.StatusNew,
		MinExecQty:    req.MinExecQty,
		Kind:          domain.KindLimit,
		RequestID:     req.RequestID,
	}
	switch {
	case req.StopPrice != 0:
		order.Kind = domain.KindStopLimit
		order.StopPrice = req.StopPrice
	case req.PeakSize != 0:
		order.Kind = domain.KindIceberg
		order.PeakSize = req.PeakSize
		order.Displayed = min(req.Quantity, req.PeakSize)
	}
	return order
}
