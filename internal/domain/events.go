package domain

// Event is a discrete outcome report emitted by the core. Only the
// occurrence and ordering of events is part of the core's contract; the
// payload encoding belongs to whichever Publisher is plugged in.
type Event interface {
	EventType() string
}

// Publisher receives events in the exact order the core produced them.
// Implementations must not call back into the core.
type Publisher interface {
	Publish(Event)
}

// Event type names, as carried on the wire and used for webhook
// subscriptions.
const (
	EventOrderAccepted        = "order.accepted"
	EventOrderUpdated         = "order.updated"
	EventOrderDeleted         = "order.deleted"
	EventOrderRejected        = "order.rejected"
	EventOrderExecuted        = "order.executed"
	EventOrderActivated       = "order.activated"
	EventTradeExecuted        = "trade.executed"
	EventOpeningPriceSet      = "opening_price.set"
	EventSecurityStateChanged = "security.state_changed"
	EventStateChangeRejected  = "security.state_change_rejected"
)

// TradeSummary is the per-fill slice of an OrderExecuted event.
type TradeSummary struct {
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
	BuyOrderID  uint64 `json:"buy_order_id"`
	SellOrderID uint64 `json:"sell_order_id"`
}

// OrderAccepted reports a new order that passed validation and entry.
type OrderAccepted struct {
	RequestID uint64 `json:"request_id"`
	OrderID   uint64 `json:"order_id"`
}

func (OrderAccepted) EventType() string { return EventOrderAccepted }

// OrderUpdated reports a successful order modification.
type OrderUpdated struct {
	RequestID uint64 `json:"request_id"`
	OrderID   uint64 `json:"order_id"`
}

func (OrderUpdated) EventType() string { return EventOrderUpdated }

// OrderDeleted reports a successful order cancellation.
type OrderDeleted struct {
	RequestID uint64 `json:"request_id"`
	OrderID   uint64 `json:"order_id"`
}

func (OrderDeleted) EventType() string { return EventOrderDeleted }

// OrderRejected reports a request that failed validation or hit a
// terminal matching outcome other than execution.
type OrderRejected struct {
	RequestID uint64   `json:"request_id"`
	OrderID   uint64   `json:"order_id"`
	Reasons   []string `json:"reasons"`
}

func (OrderRejected) EventType() string { return EventOrderRejected }

// OrderExecuted reports the fills produced by one matching pass.
type OrderExecuted struct {
	RequestID uint64         `json:"request_id"`
	OrderID   uint64         `json:"order_id"`
	Trades    []TradeSummary `json:"trades"`
}

func (OrderExecuted) EventType() string { return EventOrderExecuted }

// OrderActivated reports a stop order converted into a live order.
type OrderActivated struct {
	RequestID uint64 `json:"request_id"`
	OrderID   uint64 `json:"order_id"`
}

func (OrderActivated) EventType() string { return EventOrderActivated }

// TradeExecuted reports a single auction fill at the clearing price.
type TradeExecuted struct {
	Symbol      string `json:"symbol"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
	BuyOrderID  uint64 `json:"buy_order_id"`
	SellOrderID uint64 `json:"sell_order_id"`
}

func (TradeExecuted) EventType() string { return EventTradeExecuted }

// OpeningPriceSet reports the current equilibrium price and tradable
// quantity of a security in auction state.
type OpeningPriceSet struct {
	Symbol   string `json:"symbol"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

func (OpeningPriceSet) EventType() string { return EventOpeningPriceSet }

// SecurityStateChanged reports a trading-mode transition.
type SecurityStateChanged struct {
	RequestID uint64      `json:"request_id"`
	Symbol    string      `json:"symbol"`
	State     MarketState `json:"state"`
}

func (SecurityStateChanged) EventType() string { return EventSecurityStateChanged }

// StateChangeRejected reports a failed trading-mode transition.
type StateChangeRejected struct {
	RequestID uint64 `json:"request_id"`
	Symbol    string `json:"symbol"`
	Reason    string `json:"reason"`
}

func (StateChangeRejected) EventType() string { return EventStateChangeRejected }
