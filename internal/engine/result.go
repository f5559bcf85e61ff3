package engine

import "github.com/efreitasn/matchcore/internal/domain"

// Outcome is the closed set of terminal results a matching pass can
// produce. Outcomes are ordinary values, not errors: only structural
// problems (unknown ids, invalid field combinations) surface as errors,
// and those are raised before any matcher runs.
type Outcome string

const (
	// OutcomeExecuted means the order was processed; it may have traded
	// zero or more times and may have a resting remainder.
	OutcomeExecuted Outcome = "executed"
	// OutcomeNotActivated means a stop order was parked in the stop
	// book because its trigger condition does not hold yet.
	OutcomeNotActivated Outcome = "not_activated"
	// OutcomeNotEnoughCredit means a buy could not fund its fills or its
	// resting reservation; every partial effect was rolled back.
	OutcomeNotEnoughCredit Outcome = "not_enough_credit"
	// OutcomeNotEnoughPositions means a sell exceeded the shareholder's
	// unreserved holdings; nothing was mutated.
	OutcomeNotEnoughPositions Outcome = "not_enough_positions"
	// OutcomeMinimumNotMatched means the minimum execution quantity was
	// not reached; every trade of the pass was rolled back.
	OutcomeMinimumNotMatched Outcome = "minimum_not_matched"
)

// MatchResult is the typed result of one matching pass.
type MatchResult struct {
	Outcome   Outcome
	Remainder *domain.Order
	Trades    []domain.Trade
}

func executed(remainder *domain.Order, trades []domain.Trade) MatchResult {
	return MatchResult{Outcome: OutcomeExecuted, Remainder: remainder, Trades: trades}
}

func notActivated(order *domain.Order) MatchResult {
	return MatchResult{Outcome: OutcomeNotActivated, Remainder: order}
}

func notEnoughCredit() MatchResult {
	return MatchResult{Outcome: OutcomeNotEnoughCredit}
}

func notEnoughPositions() MatchResult {
	return MatchResult{Outcome: OutcomeNotEnoughPositions}
}

func minimumNotMatched() MatchResult {
	return MatchResult{Outcome: OutcomeMinimumNotMatched}
}
