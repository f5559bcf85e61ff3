package service

import (
	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/engine"
	"github.com/efreitasn/matchcore/internal/store"
)

// StateService handles trading-mode transitions. Leaving the auction
// state uncrosses the book at the equilibrium price before the new mode
// takes effect; entering it needs no ceremony.
type StateService struct {
	securities *store.SecurityStore
	trades     *store.TradeStore
	continuous *engine.ContinuousMatcher
	auction    *engine.AuctionMatcher
	pub        domain.Publisher
}

// NewStateService creates a new StateService with the given dependencies.
func NewStateService(
	securities *store.SecurityStore,
	brokers *store.BrokerStore,
	shareholders *store.ShareholderStore,
	trades *store.TradeStore,
	pub domain.Publisher,
) *StateService {
	return &StateService{
		securities: securities,
		trades:     trades,
		continuous: engine.NewContinuousMatcher(brokers, shareholders),
		auction:    engine.NewAuctionMatcher(brokers, shareholders),
		pub:        pub,
	}
}

// ChangeState moves a security into the target trading mode. If the
// security is currently in auction, the book is uncrossed first: the
// clearing price becomes the last trade price and the stop orders it
// triggers are activated under the new mode.
func (s *StateService) ChangeState(req domain.ChangeStateRequest) error {
	if req.Target != domain.StateContinuous && req.Target != domain.StateAuction {
		s.pub.Publish(domain.StateChangeRejected{
			RequestID: req.RequestID,
			Symbol:    req.Symbol,
			Reason:    "target state must be continuous or auction",
		})
		return &domain.ValidationError{Reasons: []string{"target state must be continuous or auction"}}
	}
	sec, err := s.securities.Get(req.Symbol)
	if err != nil {
		s.pub.Publish(domain.StateChangeRejected{
			RequestID: req.RequestID,
			Symbol:    req.Symbol,
			Reason:    domain.ReasonUnknownSecurity,
		})
		return err
	}

	sec.Lock()
	defer sec.Unlock()

	wasAuction := sec.State() == domain.StateAuction
	var clearingPrice int64
	var fills []domain.Trade

	if wasAuction {
		clearingPrice, _ = sec.OpeningPrice()
		buys := sec.OpenOrders(clearingPrice, domain.SideBuy)
		sells := sec.OpenOrders(clearingPrice, domain.SideSell)
		result := s.auction.Uncross(sec, buys, sells, clearingPrice)
		fills = result.Trades
		for _, t := range fills {
			s.pub.Publish(domain.TradeExecuted{
				Symbol:      sec.Symbol,
				Price:       t.Price,
				Quantity:    t.Quantity,
				BuyOrderID:  t.Buy.ID,
				SellOrderID: t.Sell.ID,
			})
		}
		s.trades.Append(sec.Symbol, fills...)
	}

	sec.SetState(req.Target)
	s.pub.Publish(domain.SecurityStateChanged{
		RequestID: req.RequestID,
		Symbol:    sec.Symbol,
		State:     req.Target,
	})

	if wasAuction && len(fills) > 0 {
		matcher := engine.Matcher(s.continuous)
		if req.Target == domain.StateAuction {
			matcher = s.auction
		}
		cascade := sec.ActivateTriggeredStops(matcher, s.pub, clearingPrice)
		s.trades.Append(sec.Symbol, cascade...)
	}
	return nil
}
