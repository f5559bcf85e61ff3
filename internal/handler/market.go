package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/matchcore/internal/service"
	"github.com/go-chi/chi/v5"
)

// MarketHandler handles HTTP requests for market-data endpoints.
type MarketHandler struct {
	marketSvc *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// GetBook handles GET /securities/{symbol}/book.
func (h *MarketHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	depth, _ := strconv.Atoi(r.URL.Query().Get("depth"))

	snapshot, err := h.marketSvc.Book(symbol, depth)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// GetOpeningPrice handles GET /securities/{symbol}/opening-price.
func (h *MarketHandler) GetOpeningPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	view, err := h.marketSvc.OpeningPrice(symbol)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// tradeLogResponse is the JSON response for GET /securities/{symbol}/trades.
type tradeLogResponse struct {
	Symbol string      `json:"symbol"`
	Trades []tradeView `json:"trades"`
}

// GetTrades handles GET /securities/{symbol}/trades.
func (h *MarketHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	trades, err := h.marketSvc.Trades(symbol)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := tradeLogResponse{Symbol: symbol, Trades: make([]tradeView, 0, len(trades))}
	for _, t := range trades {
		resp.Trades = append(resp.Trades, tradeView{
			TradeID:     t.ID,
			Price:       t.Price,
			Quantity:    t.Quantity,
			BuyOrderID:  t.Buy.ID,
			SellOrderID: t.Sell.ID,
		})
	}
	WriteJSON(w, http.StatusOK, resp)
}
