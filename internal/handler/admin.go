package handler

import (
	"net/http"
	"time"

	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminHandler handles HTTP requests for reference-data endpoints:
// brokers, shareholders, securities and trading-state changes.
type AdminHandler struct {
	adminSvc *service.AdminService
	stateSvc *service.StateService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc *service.AdminService, stateSvc *service.StateService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, stateSvc: stateSvc}
}

// registerBrokerRequest is the JSON request body for POST /brokers.
type registerBrokerRequest struct {
	BrokerID string `json:"broker_id"`
	Credit   int64  `json:"credit"`
}

// brokerResponse is the JSON response for broker endpoints.
type brokerResponse struct {
	BrokerID  string `json:"broker_id"`
	Credit    int64  `json:"credit"`
	CreatedAt string `json:"created_at"`
}

// RegisterBroker handles POST /brokers.
func (h *AdminHandler) RegisterBroker(w http.ResponseWriter, r *http.Request) {
	var req registerBrokerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	b, err := h.adminSvc.RegisterBroker(req.BrokerID, req.Credit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, brokerResponse{
		BrokerID:  b.BrokerID,
		Credit:    b.Credit(),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// registerShareholderRequest is the JSON request body for POST /shareholders.
type registerShareholderRequest struct {
	ShareholderID string           `json:"shareholder_id"`
	Positions     map[string]int64 `json:"positions"`
}

// shareholderResponse is the JSON response for shareholder endpoints.
type shareholderResponse struct {
	ShareholderID string           `json:"shareholder_id"`
	Positions     map[string]int64 `json:"positions"`
	CreatedAt     string           `json:"created_at"`
}

// RegisterShareholder handles POST /shareholders.
func (h *AdminHandler) RegisterShareholder(w http.ResponseWriter, r *http.Request) {
	var req registerShareholderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sh, err := h.adminSvc.RegisterShareholder(req.ShareholderID, req.Positions)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	positions := make(map[string]int64, len(req.Positions))
	for symbol := range req.Positions {
		positions[symbol] = sh.PositionOn(symbol)
	}
	WriteJSON(w, http.StatusCreated, shareholderResponse{
		ShareholderID: sh.ShareholderID,
		Positions:     positions,
		CreatedAt:     sh.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// registerSecurityRequest is the JSON request body for POST /securities.
type registerSecurityRequest struct {
	Symbol   string `json:"symbol"`
	TickSize int64  `json:"tick_size"`
	LotSize  int64  `json:"lot_size"`
}

// securityResponse is the JSON response for security endpoints.
type securityResponse struct {
	Symbol   string `json:"symbol"`
	TickSize int64  `json:"tick_size"`
	LotSize  int64  `json:"lot_size"`
	State    string `json:"state"`
}

// RegisterSecurity handles POST /securities.
func (h *AdminHandler) RegisterSecurity(w http.ResponseWriter, r *http.Request) {
	var req registerSecurityRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sec, err := h.adminSvc.RegisterSecurity(req.Symbol, req.TickSize, req.LotSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, securityResponse{
		Symbol:   sec.Symbol,
		TickSize: sec.TickSize,
		LotSize:  sec.LotSize,
		State:    string(sec.State()),
	})
}

// changeStateRequest is the JSON request body for POST /securities/{symbol}/state.
type changeStateRequest struct {
	RequestID   uint64 `json:"request_id"`
	TargetState string `json:"target_state"`
}

// ChangeState handles POST /securities/{symbol}/state.
func (h *AdminHandler) ChangeState(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req changeStateRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	err := h.stateSvc.ChangeState(domain.ChangeStateRequest{
		RequestID: req.RequestID,
		Symbol:    symbol,
		Target:    domain.MarketState(req.TargetState),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"symbol": symbol,
		"state":  req.TargetState,
	})
}
