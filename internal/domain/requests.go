package domain

import "time"

// MarketState is the trading mode of a security.
type MarketState string

const (
	StateContinuous MarketState = "continuous"
	StateAuction    MarketState = "auction"
)

// OrderEntryType distinguishes order entry from order modification.
type OrderEntryType string

const (
	EntryNew    OrderEntryType = "new"
	EntryUpdate OrderEntryType = "update"
)

// EnterOrderRequest is the immutable value record behind both new-order
// and update-order submissions. PeakSize, MinExecQty and StopPrice are
// optional (zero when absent); a non-zero StopPrice selects the
// stop-limit variant and a non-zero PeakSize the iceberg variant.
type EnterOrderRequest struct {
	RequestID     uint64
	EntryType     OrderEntryType
	Symbol        string
	OrderID       uint64
	Side          Side
	Quantity      int64
	Price         int64
	BrokerID      string
	ShareholderID string
	PeakSize      int64
	MinExecQty    int64
	StopPrice     int64
	EntryTime     time.Time
}

// DeleteOrderRequest cancels a resting or pending order, located by
// side and order id.
type DeleteOrderRequest struct {
	RequestID uint64
	Symbol    string
	Side      Side
	OrderID   uint64
}

// ChangeStateRequest switches a security's trading mode.
type ChangeStateRequest struct {
	RequestID uint64
	Symbol    string
	Target    MarketState
}
