package service

import (
	"regexp"

	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/engine"
	"github.com/efreitasn/matchcore/internal/store"
)

var (
	participantIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,32}$`)
	symbolRegex        = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,9}$`)
)

// AdminService handles registration of the reference data every order
// request is validated against: brokers, shareholders and securities.
type AdminService struct {
	brokers      *store.BrokerStore
	shareholders *store.ShareholderStore
	securities   *store.SecurityStore
}

// NewAdminService creates a new AdminService with the given dependencies.
func NewAdminService(
	brokers *store.BrokerStore,
	shareholders *store.ShareholderStore,
	securities *store.SecurityStore,
) *AdminService {
	return &AdminService{
		brokers:      brokers,
		shareholders: shareholders,
		securities:   securities,
	}
}

// RegisterBroker creates a broker with an initial credit balance.
func (s *AdminService) RegisterBroker(id string, credit int64) (*domain.Broker, error) {
	if !participantIDRegex.MatchString(id) {
		return nil, &domain.ValidationError{Reasons: []string{"broker_id must be 1-32 alphanumeric characters"}}
	}
	if credit < 0 {
		return nil, &domain.ValidationError{Reasons: []string{"credit must not be negative"}}
	}

	b := domain.NewBroker(id, credit)
	if err := s.brokers.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RegisterShareholder creates a shareholder with initial positions.
func (s *AdminService) RegisterShareholder(id string, positions map[string]int64) (*domain.Shareholder, error) {
	if !participantIDRegex.MatchString(id) {
		return nil, &domain.ValidationError{Reasons: []string{"shareholder_id must be 1-32 alphanumeric characters"}}
	}
	for symbol, qty := range positions {
		if !symbolRegex.MatchString(symbol) {
			return nil, &domain.ValidationError{Reasons: []string{"invalid symbol: " + symbol}}
		}
		if qty < 0 {
			return nil, &domain.ValidationError{Reasons: []string{"position for " + symbol + " must not be negative"}}
		}
	}

	sh := domain.NewShareholder(id)
	for symbol, qty := range positions {
		sh.IncPosition(symbol, qty)
	}
	if err := s.shareholders.Create(sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// RegisterSecurity creates a tradable security in continuous state.
func (s *AdminService) RegisterSecurity(symbol string, tickSize, lotSize int64) (*engine.Security, error) {
	var reasons []string
	if !symbolRegex.MatchString(symbol) {
		reasons = append(reasons, "symbol must be 1-10 uppercase alphanumeric characters starting with a letter")
	}
	if tickSize <= 0 {
		reasons = append(reasons, "tick_size must be positive")
	}
	if lotSize <= 0 {
		reasons = append(reasons, "lot_size must be positive")
	}
	if len(reasons) > 0 {
		return nil, &domain.ValidationError{Reasons: reasons}
	}

	sec := engine.NewSecurity(symbol, tickSize, lotSize, s.brokers, s.shareholders)
	if err := s.securities.Create(sec); err != nil {
		return nil, err
	}
	return sec, nil
}
