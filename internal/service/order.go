package service

import (
	"errors"

	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/engine"
	"github.com/efreitasn/matchcore/internal/store"
)

// OrderService validates order requests, runs them through the matching
// engine under the security's lock, and publishes the resulting events.
// Validation happens strictly before the engine is invoked, so a
// rejected request never touches any book or ledger.
type OrderService struct {
	securities   *store.SecurityStore
	brokers      *store.BrokerStore
	shareholders *store.ShareholderStore
	trades       *store.TradeStore
	continuous   *engine.ContinuousMatcher
	auction      *engine.AuctionMatcher
	pub          domain.Publisher
}

// NewOrderService creates a new OrderService with the given dependencies.
func NewOrderService(
	securities *store.SecurityStore,
	brokers *store.BrokerStore,
	shareholders *store.ShareholderStore,
	trades *store.TradeStore,
	pub domain.Publisher,
) *OrderService {
	return &OrderService{
		securities:   securities,
		brokers:      brokers,
		shareholders: shareholders,
		trades:       trades,
		continuous:   engine.NewContinuousMatcher(brokers, shareholders),
		auction:      engine.NewAuctionMatcher(brokers, shareholders),
		pub:          pub,
	}
}

// EnterOrder handles a new-order or update request end to end:
// validation, matching, event publication, trade recording and the stop
// cascade any fills set off.
func (s *OrderService) EnterOrder(req domain.EnterOrderRequest) (engine.MatchResult, error) {
	sec, verr := s.validateEnter(req)
	if verr != nil {
		s.pub.Publish(domain.OrderRejected{
			RequestID: req.RequestID,
			OrderID:   req.OrderID,
			Reasons:   verr.Reasons,
		})
		return engine.MatchResult{}, verr
	}

	sec.Lock()
	defer sec.Unlock()

	matcher := s.matcherFor(sec)

	var result engine.MatchResult
	if req.EntryType == domain.EntryUpdate {
		var err error
		result, err = sec.UpdateOrder(req, matcher)
		if err != nil {
			s.pub.Publish(domain.OrderRejected{
				RequestID: req.RequestID,
				OrderID:   req.OrderID,
				Reasons:   rejectionReasons(err),
			})
			return engine.MatchResult{}, err
		}
	} else {
		result = sec.NewOrder(req, matcher)
	}

	s.publishOutcome(req, result)
	s.trades.Append(sec.Symbol, result.Trades...)

	if len(result.Trades) > 0 && sec.State() == domain.StateContinuous {
		lastPrice := result.Trades[len(result.Trades)-1].Price
		cascade := sec.ActivateTriggeredStops(matcher, s.pub, lastPrice)
		s.trades.Append(sec.Symbol, cascade...)
	}
	s.publishOpeningPrice(sec)

	return result, nil
}

// DeleteOrder removes a resting or parked order and publishes the
// outcome.
func (s *OrderService) DeleteOrder(req domain.DeleteOrderRequest) error {
	var reasons []string
	if req.OrderID == 0 {
		reasons = append(reasons, domain.ReasonInvalidOrderID)
	}
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		reasons = append(reasons, domain.ReasonInvalidSide)
	}
	sec, err := s.securities.Get(req.Symbol)
	if err != nil {
		reasons = append(reasons, domain.ReasonUnknownSecurity)
	}
	if len(reasons) > 0 {
		verr := &domain.ValidationError{Reasons: reasons}
		s.pub.Publish(domain.OrderRejected{
			RequestID: req.RequestID,
			OrderID:   req.OrderID,
			Reasons:   verr.Reasons,
		})
		return verr
	}

	sec.Lock()
	defer sec.Unlock()

	if err := sec.DeleteOrder(req); err != nil {
		s.pub.Publish(domain.OrderRejected{
			RequestID: req.RequestID,
			OrderID:   req.OrderID,
			Reasons:   rejectionReasons(err),
		})
		return err
	}

	s.pub.Publish(domain.OrderDeleted{RequestID: req.RequestID, OrderID: req.OrderID})
	s.publishOpeningPrice(sec)
	return nil
}

func (s *OrderService) matcherFor(sec *engine.Security) engine.Matcher {
	if sec.State() == domain.StateAuction {
		return s.auction
	}
	return s.continuous
}

// publishOutcome maps a matching result to its event sequence: a
// rejection reason for terminal outcomes, otherwise acceptance, then
// activation for a stop that triggered on entry, then the fills.
func (s *OrderService) publishOutcome(req domain.EnterOrderRequest, result engine.MatchResult) {
	reject := func(reason string) {
		s.pub.Publish(domain.OrderRejected{
			RequestID: req.RequestID,
			OrderID:   req.OrderID,
			Reasons:   []string{reason},
		})
	}

	switch result.Outcome {
	case engine.OutcomeNotEnoughCredit:
		reject(domain.ReasonBuyerHasNotEnoughCredit)
		return
	case engine.OutcomeNotEnoughPositions:
		reject(domain.ReasonSellerHasNotEnoughShares)
		return
	case engine.OutcomeMinimumNotMatched:
		reject(domain.ReasonMinimumQuantityNotMatched)
		return
	}

	if req.EntryType == domain.EntryUpdate {
		s.pub.Publish(domain.OrderUpdated{RequestID: req.RequestID, OrderID: req.OrderID})
	} else {
		s.pub.Publish(domain.OrderAccepted{RequestID: req.RequestID, OrderID: req.OrderID})
	}

	if result.Outcome == engine.OutcomeNotActivated {
		return
	}
	if req.StopPrice != 0 {
		s.pub.Publish(domain.OrderActivated{RequestID: req.RequestID, OrderID: req.OrderID})
	}
	if len(result.Trades) > 0 {
		s.pub.Publish(domain.OrderExecuted{
			RequestID: req.RequestID,
			OrderID:   req.OrderID,
			Trades:    engine.TradeSummaries(result.Trades),
		})
	}
}

// publishOpeningPrice reports the indicative equilibrium after any
// mutation of a security in auction state.
func (s *OrderService) publishOpeningPrice(sec *engine.Security) {
	if sec.State() != domain.StateAuction {
		return
	}
	price, quantity := sec.OpeningPrice()
	s.pub.Publish(domain.OpeningPriceSet{Symbol: sec.Symbol, Price: price, Quantity: quantity})
}

// validateEnter checks everything that can be checked before touching
// the book. All failures are collected so the rejection names every
// problem at once.
func (s *OrderService) validateEnter(req domain.EnterOrderRequest) (*engine.Security, *domain.ValidationError) {
	var reasons []string

	if req.OrderID == 0 {
		reasons = append(reasons, domain.ReasonInvalidOrderID)
	}
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		reasons = append(reasons, domain.ReasonInvalidSide)
	}
	if req.Quantity <= 0 {
		reasons = append(reasons, domain.ReasonQuantityNotPositive)
	}
	if req.Price <= 0 {
		reasons = append(reasons, domain.ReasonPriceNotPositive)
	}
	if req.EntryType != domain.EntryUpdate && (req.MinExecQty < 0 || req.MinExecQty > req.Quantity) {
		reasons = append(reasons, domain.ReasonInvalidMinExecQty)
	}
	if req.PeakSize != 0 && (req.PeakSize < 0 || req.PeakSize >= req.Quantity) {
		reasons = append(reasons, domain.ReasonInvalidPeakSize)
	}
	if req.StopPrice < 0 {
		reasons = append(reasons, domain.ReasonInvalidStopPrice)
	}
	if req.StopPrice != 0 {
		if req.MinExecQty != 0 {
			reasons = append(reasons, domain.ReasonStopOrderWithMinExec)
		}
		if req.PeakSize != 0 {
			reasons = append(reasons, domain.ReasonStopOrderWithPeakSize)
		}
	}

	sec, err := s.securities.Get(req.Symbol)
	if err != nil {
		reasons = append(reasons, domain.ReasonUnknownSecurity)
	} else {
		if req.Quantity%sec.LotSize != 0 {
			reasons = append(reasons, domain.ReasonQuantityNotMultipleOfLot)
		}
		if req.Price%sec.TickSize != 0 {
			reasons = append(reasons, domain.ReasonPriceNotMultipleOfTick)
		}
		if sec.State() == domain.StateAuction {
			if req.MinExecQty != 0 && req.EntryType != domain.EntryUpdate {
				reasons = append(reasons, domain.ReasonMinExecOrderInAuction)
			}
			if req.StopPrice != 0 {
				if req.EntryType == domain.EntryUpdate {
					reasons = append(reasons, domain.ReasonUpdateStopOrderInAuction)
				} else {
					reasons = append(reasons, domain.ReasonNewStopOrderInAuction)
				}
			}
		}
	}
	if !s.brokers.Exists(req.BrokerID) {
		reasons = append(reasons, domain.ReasonUnknownBroker)
	}
	if !s.shareholders.Exists(req.ShareholderID) {
		reasons = append(reasons, domain.ReasonUnknownShareholder)
	}

	if len(reasons) > 0 {
		return nil, &domain.ValidationError{Reasons: reasons}
	}
	return sec, nil
}

// rejectionReasons extracts event-ready reason strings from an engine
// error.
func rejectionReasons(err error) []string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Reasons
	}
	return []string{err.Error()}
}
