package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/session"
)

type amountRequest struct {
	Amount papertrade.Money `json:"amount"`
}

type tradeRequest struct {
	Symbol   string              `json:"symbol"`
	Quantity papertrade.Quantity `json:"quantity"`
}

type holdingResponse struct {
	Symbol      string              `json:"symbol"`
	Quantity    papertrade.Quantity `json:"quantity"`
	CostBasis   papertrade.Money    `json:"cost_basis"`
	AverageCost papertrade.Money    `json:"average_cost"`
}

type accountResponse struct {
	Account     string                  `json:"account"`
	Cash        papertrade.Money        `json:"cash"`
	Holdings    []holdingResponse       `json:"holdings"`
	Transaction *papertrade.Transaction `json:"transaction,omitempty"`
}

type positionResponse struct {
	holdingResponse
	Price          papertrade.Money `json:"price"`
	MarketValue    papertrade.Money `json:"market_value"`
	UnrealizedGain papertrade.Money `json:"unrealized_gain"`
}

type valuationResponse struct {
	Account        string             `json:"account"`
	Cash           papertrade.Money   `json:"cash"`
	Positions      []positionResponse `json:"positions"`
	Unpriced       []holdingResponse  `json:"unpriced"`
	MarketValue    papertrade.Money   `json:"market_value"`
	Total          papertrade.Money   `json:"total"`
	InitialDeposit papertrade.Money   `json:"initial_deposit"`
	ProfitLoss     papertrade.Money   `json:"profit_loss"`
}

type symbolGainsResponse struct {
	Symbol   string              `json:"symbol"`
	Sold     papertrade.Quantity `json:"sold"`
	Proceeds papertrade.Money    `json:"proceeds"`
	Cost     papertrade.Money    `json:"cost"`
	Realized papertrade.Money    `json:"realized"`
}

type gainsResponse struct {
	Symbols  []symbolGainsResponse `json:"symbols"`
	Realized papertrade.Money      `json:"realized"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "account": s.session.Account().ID()})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, s.session.Deposit(r.Context(), req.Amount))
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, s.session.Withdraw(r.Context(), req.Amount))
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, s.session.Buy(r.Context(), papertrade.NormalizeSymbol(req.Symbol), req.Quantity))
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, s.session.Sell(r.Context(), papertrade.NormalizeSymbol(req.Symbol), req.Quantity))
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.account(false))
}

func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	v := s.session.Valuation()
	resp := valuationResponse{
		Account:        v.AccountID,
		Cash:           v.Cash,
		Positions:      make([]positionResponse, 0, len(v.Positions)),
		Unpriced:       holdings(v.Unpriced),
		MarketValue:    v.MarketValue,
		Total:          v.Total,
		InitialDeposit: v.InitialDeposit,
		ProfitLoss:     v.ProfitLoss,
	}
	for _, p := range v.Positions {
		resp.Positions = append(resp.Positions, positionResponse{
			holdingResponse: holding(p.Holding),
			Price:           p.Price,
			MarketValue:     p.MarketValue,
			UnrealizedGain:  p.UnrealizedGain,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.session.Account().Transactions()
	head, err := queryInt(r, "head")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	tail, err := queryInt(r, "tail")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if head > 0 && len(txs) > head {
		txs = txs[:head]
	}
	if tail > 0 && len(txs) > tail {
		txs = txs[len(txs)-tail:]
	}
	s.writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGains(w http.ResponseWriter, r *http.Request) {
	g := s.session.Gains()
	resp := gainsResponse{Symbols: make([]symbolGainsResponse, 0, len(g.Symbols)), Realized: g.Realized}
	for _, sg := range g.Symbols {
		resp.Symbols = append(resp.Symbols, symbolGainsResponse(sg))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// respond writes the account state after a mutation, or the error it failed with.
func (s *Server) respond(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.account(true))
}

func (s *Server) account(withLast bool) accountResponse {
	a := s.session.Account()
	resp := accountResponse{
		Account:  a.ID(),
		Cash:     a.Cash(),
		Holdings: holdings(a.Positions()),
	}
	if tx, ok := a.LastTransaction(); ok && withLast {
		resp.Transaction = &tx
	}
	return resp
}

func holding(h papertrade.Holding) holdingResponse {
	return holdingResponse{Symbol: h.Symbol, Quantity: h.Quantity, CostBasis: h.CostBasis, AverageCost: h.AverageCost()}
}

func holdings(hs []papertrade.Holding) []holdingResponse {
	list := make([]holdingResponse, 0, len(hs))
	for _, h := range hs {
		list = append(list, holding(h))
	}
	return list
}

// statusFor maps account errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, papertrade.ErrInvalidAmount), errors.Is(err, papertrade.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, papertrade.ErrUnknownSymbol):
		return http.StatusNotFound
	case errors.Is(err, papertrade.ErrInsufficientFunds), errors.Is(err, papertrade.ErrInsufficientShares):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
