package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrBrokerAlreadyExists      = errors.New("broker_already_exists")
	ErrBrokerNotFound           = errors.New("broker_not_found")
	ErrShareholderAlreadyExists = errors.New("shareholder_already_exists")
	ErrShareholderNotFound      = errors.New("shareholder_not_found")
	ErrSecurityAlreadyExists    = errors.New("security_already_exists")
	ErrSecurityNotFound         = errors.New("security_not_found")
	ErrOrderIDNotFound          = errors.New("order_id_not_found")
	ErrStopOrderDeleteInAuction = errors.New("cannot_delete_stop_order_in_auction")
	ErrWebhookNotFound          = errors.New("webhook_not_found")
)

// Validation failure reasons, matched by tests and carried verbatim in
// rejection events.
const (
	ReasonInvalidOrderID            = "order id must be positive"
	ReasonInvalidSide               = "order side must be buy or sell"
	ReasonQuantityNotPositive       = "order quantity must be positive"
	ReasonPriceNotPositive          = "order price must be positive"
	ReasonInvalidStopPrice          = "stop price must not be negative"
	ReasonStopOrderWithMinExec      = "stop order cannot have a minimum execution quantity"
	ReasonStopOrderWithPeakSize     = "stop order cannot have a peak size"
	ReasonInvalidMinExecQty         = "minimum execution quantity must be between 0 and the order quantity"
	ReasonInvalidPeakSize           = "peak size must be non-negative and less than the order quantity"
	ReasonUnknownSecurity           = "unknown security symbol"
	ReasonUnknownBroker             = "unknown broker id"
	ReasonUnknownShareholder        = "unknown shareholder id"
	ReasonQuantityNotMultipleOfLot  = "quantity is not a multiple of the lot size"
	ReasonPriceNotMultipleOfTick    = "price is not a multiple of the tick size"
	ReasonMinExecOrderInAuction     = "minimum execution quantity is not allowed in auction state"
	ReasonNewStopOrderInAuction     = "new stop orders are not allowed in auction state"
	ReasonUpdateStopOrderInAuction  = "stop orders cannot be updated in auction state"
	ReasonCannotChangeMinExecQty    = "minimum execution quantity cannot be modified"
	ReasonPeakSizeForNonIceberg     = "peak size cannot be specified for a non-iceberg order"
	ReasonIcebergWithoutPeakSize    = "iceberg order must keep a positive peak size"
	ReasonBuyerHasNotEnoughCredit   = "buyer does not have enough credit"
	ReasonSellerHasNotEnoughShares  = "seller does not have enough positions"
	ReasonMinimumQuantityNotMatched = "minimum execution quantity not matched"
)

// ValidationError represents a request validation failure. Validation
// happens strictly before the matching core is invoked, so a request
// that fails validation leaves all state untouched.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, "; ")
}
