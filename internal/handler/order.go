package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/engine"
	"github.com/efreitasn/matchcore/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// enterOrderRequest is the JSON request body for POST /orders and
// PUT /orders/{order_id}.
type enterOrderRequest struct {
	RequestID     uint64 `json:"request_id"`
	Symbol        string `json:"symbol"`
	OrderID       uint64 `json:"order_id"`
	Side          string `json:"side"`
	Quantity      int64  `json:"quantity"`
	Price         int64  `json:"price"`
	BrokerID      string `json:"broker_id"`
	ShareholderID string `json:"shareholder_id"`
	PeakSize      int64  `json:"peak_size"`
	MinExecQty    int64  `json:"min_exec_qty"`
	StopPrice     int64  `json:"stop_price"`
}

// tradeView is a single fill in the order response.
type tradeView struct {
	TradeID     string `json:"trade_id"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
	BuyOrderID  uint64 `json:"buy_order_id"`
	SellOrderID uint64 `json:"sell_order_id"`
}

// remainderView describes what is left of the order on the book.
type remainderView struct {
	OrderID  uint64 `json:"order_id"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// matchResultResponse is the JSON response for order entry.
type matchResultResponse struct {
	Outcome   string         `json:"outcome"`
	Trades    []tradeView    `json:"trades"`
	Remainder *remainderView `json:"remainder,omitempty"`
}

func toMatchResultResponse(result engine.MatchResult) matchResultResponse {
	resp := matchResultResponse{
		Outcome: string(result.Outcome),
		Trades:  make([]tradeView, 0, len(result.Trades)),
	}
	for _, t := range result.Trades {
		resp.Trades = append(resp.Trades, tradeView{
			TradeID:     t.ID,
			Price:       t.Price,
			Quantity:    t.Quantity,
			BuyOrderID:  t.Buy.ID,
			SellOrderID: t.Sell.ID,
		})
	}
	if result.Remainder != nil && result.Remainder.Quantity > 0 {
		resp.Remainder = &remainderView{
			OrderID:  result.Remainder.ID,
			Quantity: result.Remainder.Quantity,
			Price:    result.Remainder.Price,
		}
	}
	return resp
}

func (req enterOrderRequest) toDomain(entryType domain.OrderEntryType) domain.EnterOrderRequest {
	return domain.EnterOrderRequest{
		RequestID:     req.RequestID,
		EntryType:     entryType,
		Symbol:        req.Symbol,
		OrderID:       req.OrderID,
		Side:          domain.Side(req.Side),
		Quantity:      req.Quantity,
		Price:         req.Price,
		BrokerID:      req.BrokerID,
		ShareholderID: req.ShareholderID,
		PeakSize:      req.PeakSize,
		MinExecQty:    req.MinExecQty,
		StopPrice:     req.StopPrice,
		EntryTime:     time.Now(),
	}
}

// Enter handles POST /orders.
func (h *OrderHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req enterOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.orderSvc.EnterOrder(req.toDomain(domain.EntryNew))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, statusForOutcome(result.Outcome, http.StatusCreated), toMatchResultResponse(result))
}

// Update handles PUT /orders/{order_id}.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseUint(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "order_id must be a positive integer")
		return
	}

	var req enterOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.OrderID = orderID

	result, err := h.orderSvc.EnterOrder(req.toDomain(domain.EntryUpdate))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, statusForOutcome(result.Outcome, http.StatusOK), toMatchResultResponse(result))
}

// Delete handles DELETE /orders/{order_id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseUint(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "order_id must be a positive integer")
		return
	}

	q := r.URL.Query()
	requestID, _ := strconv.ParseUint(q.Get("request_id"), 10, 64)

	req := domain.DeleteOrderRequest{
		RequestID: requestID,
		Symbol:    q.Get("symbol"),
		Side:      domain.Side(q.Get("side")),
		OrderID:   orderID,
	}
	if err := h.orderSvc.DeleteOrder(req); err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]uint64{"order_id": orderID})
}

// statusForOutcome maps terminal matching outcomes to 422 and lets
// successful entry keep the handler's own success code.
func statusForOutcome(outcome engine.Outcome, success int) int {
	switch outcome {
	case engine.OutcomeExecuted, engine.OutcomeNotActivated:
		return success
	default:
		return http.StatusUnprocessableEntity
	}
}
